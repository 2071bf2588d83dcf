package ensemble

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"audioshield/internal/clients/inference"
	"audioshield/internal/types"
)

func aiVote(name string, conf float64) types.ModelVote {
	return types.ModelVote{ModelName: name, Label: types.LabelAIGenerated, Confidence: conf}
}

func humanVote(name string, conf float64) types.ModelVote {
	return types.ModelVote{ModelName: name, Label: types.LabelHuman, Confidence: conf}
}

func TestAggregate_UnanimousAI(t *testing.T) {
	votes := []types.ModelVote{
		aiVote("m1", 0.95),
		aiVote("m2", 0.99),
		aiVote("m3", 0.97),
		aiVote("m4", 1.0),
	}

	verdict, err := Aggregate(votes)
	assert.NoError(t, err)
	assert.Equal(t, types.LabelAIGenerated, verdict.Classification)
	assert.InDelta(t, 0.9775, verdict.ConfidenceScore, 1e-9)
	assert.Equal(t, "Ensemble Analysis: 4/4 models flagged this audio as AI-generated.", verdict.Explanation)
}

func TestAggregate_UnanimousHuman(t *testing.T) {
	votes := []types.ModelVote{
		humanVote("m1", 0.8),
		humanVote("m2", 0.9),
		humanVote("m3", 0.7),
		humanVote("m4", 0.6),
	}

	verdict, err := Aggregate(votes)
	assert.NoError(t, err)
	assert.Equal(t, types.LabelHuman, verdict.Classification)
	assert.InDelta(t, 0.75, verdict.ConfidenceScore, 1e-9)
	assert.Equal(t, "Ensemble Analysis: 0/4 models flagged this audio as AI-generated.", verdict.Explanation)
}

func TestAggregate_StrictMajority(t *testing.T) {
	votes := []types.ModelVote{
		aiVote("m1", 0.9),
		aiVote("m2", 0.8),
		aiVote("m3", 0.7),
		humanVote("m4", 0.99),
	}

	verdict, err := Aggregate(votes)
	assert.NoError(t, err)
	assert.Equal(t, types.LabelAIGenerated, verdict.Classification)
	// Mean of the three agreeing votes only.
	assert.InDelta(t, 0.8, verdict.ConfidenceScore, 1e-9)
	assert.Equal(t, "Ensemble Analysis: 3/4 models flagged this audio as AI-generated.", verdict.Explanation)
}

func TestAggregate_SingleFlagIsHuman(t *testing.T) {
	votes := []types.ModelVote{
		aiVote("m1", 0.99),
		humanVote("m2", 0.6),
		humanVote("m3", 0.7),
		humanVote("m4", 0.8),
	}

	verdict, err := Aggregate(votes)
	assert.NoError(t, err)
	assert.Equal(t, types.LabelHuman, verdict.Classification)
	assert.InDelta(t, 0.7, verdict.ConfidenceScore, 1e-9)
	assert.Equal(t, "Ensemble Analysis: 1/4 models flagged this audio as AI-generated.", verdict.Explanation)
}

// A 2-2 split resolves toward flagging, every time.
func TestAggregate_TieFlagsAsAIGenerated(t *testing.T) {
	votes := []types.ModelVote{
		aiVote("m1", 0.9),
		aiVote("m2", 0.6),
		humanVote("m3", 0.99),
		humanVote("m4", 0.99),
	}

	for i := 0; i < 10; i++ {
		verdict, err := Aggregate(votes)
		assert.NoError(t, err)
		assert.Equal(t, types.LabelAIGenerated, verdict.Classification)
		assert.InDelta(t, 0.75, verdict.ConfidenceScore, 1e-9)
		assert.Equal(t, "Ensemble Analysis: 2/4 models flagged this audio as AI-generated.", verdict.Explanation)
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	votes := []types.ModelVote{
		aiVote("m1", 0.91),
		aiVote("m2", 0.63),
		humanVote("m3", 0.87),
		aiVote("m4", 0.55),
	}

	want, err := Aggregate(votes)
	assert.NoError(t, err)

	for _, perm := range permutations(votes) {
		got, err := Aggregate(perm)
		assert.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestAggregate_RequiresFourVotes(t *testing.T) {
	_, err := Aggregate([]types.ModelVote{aiVote("m1", 0.9)})
	assert.Error(t, err)

	_, err = Aggregate(nil)
	assert.Error(t, err)
}

func TestVoteFrom(t *testing.T) {
	tests := []struct {
		name        string
		predictions []inference.Prediction
		wantLabel   types.Label
		wantConf    float64
	}{
		{
			name:        "fake above threshold",
			predictions: []inference.Prediction{{Label: "fake", Score: 0.9}, {Label: "real", Score: 0.1}},
			wantLabel:   types.LabelAIGenerated,
			wantConf:    0.9,
		},
		{
			name:        "fake below threshold",
			predictions: []inference.Prediction{{Label: "real", Score: 0.7}, {Label: "fake", Score: 0.3}},
			wantLabel:   types.LabelHuman,
			wantConf:    0.7,
		},
		{
			name:        "spoof label",
			predictions: []inference.Prediction{{Label: "spoof", Score: 0.8}, {Label: "bonafide", Score: 0.2}},
			wantLabel:   types.LabelAIGenerated,
			wantConf:    0.8,
		},
		{
			name:        "label normalization",
			predictions: []inference.Prediction{{Label: " Fake ", Score: 0.95}},
			wantLabel:   types.LabelAIGenerated,
			wantConf:    0.95,
		},
		{
			name:        "no AI label counts as human",
			predictions: []inference.Prediction{{Label: "real", Score: 0.99}, {Label: "human", Score: 0.01}},
			wantLabel:   types.LabelHuman,
			wantConf:    1.0,
		},
		{
			name:        "exactly 0.5 stays human",
			predictions: []inference.Prediction{{Label: "fake", Score: 0.5}, {Label: "real", Score: 0.5}},
			wantLabel:   types.LabelHuman,
			wantConf:    0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vote := VoteFrom("model", tt.predictions)
			assert.Equal(t, "model", vote.ModelName)
			assert.Equal(t, tt.wantLabel, vote.Label)
			assert.InDelta(t, tt.wantConf, vote.Confidence, 1e-9)
		})
	}
}

// permutations returns every ordering of votes.
func permutations(votes []types.ModelVote) [][]types.ModelVote {
	var out [][]types.ModelVote
	var permute func(current, remaining []types.ModelVote)
	permute = func(current, remaining []types.ModelVote) {
		if len(remaining) == 0 {
			out = append(out, append([]types.ModelVote(nil), current...))
			return
		}
		for i := range remaining {
			next := append([]types.ModelVote(nil), remaining[:i]...)
			next = append(next, remaining[i+1:]...)
			permute(append(current, remaining[i]), next)
		}
	}
	permute(nil, votes)
	return out
}
