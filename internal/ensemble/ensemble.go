// Package ensemble turns raw backend predictions into votes and combines the
// votes of the four-model committee into one verdict.
package ensemble

import (
	"fmt"
	"sort"
	"strings"

	"audioshield/internal/clients/inference"
	"audioshield/internal/config"
	"audioshield/internal/types"
)

// aiLabels are the label spellings the pretrained classifiers use for the
// synthetic class. Anything else counts toward the human class.
var aiLabels = map[string]bool{
	"fake":         true,
	"spoof":        true,
	"aivoice":      true,
	"artificial":   true,
	"generated":    true,
	"ai_generated": true,
}

// VoteFrom derives a single model's vote from its label distribution. The AI
// probability is the score of the first AI-class label, zero when the
// distribution names none; the vote goes to AI_GENERATED above 0.5 and the
// confidence is the probability of the vote's own label.
func VoteFrom(modelName string, predictions []inference.Prediction) types.ModelVote {
	var aiScore float64
	for _, p := range predictions {
		if aiLabels[strings.ToLower(strings.TrimSpace(p.Label))] {
			aiScore = p.Score
			break
		}
	}

	vote := types.ModelVote{ModelName: modelName, Label: types.LabelHuman, Confidence: 1 - aiScore}
	if aiScore > 0.5 {
		vote.Label = types.LabelAIGenerated
		vote.Confidence = aiScore
	}
	return vote
}

// Aggregate combines exactly four votes into one verdict. The result is a pure
// function of the vote multiset: permuting the input changes nothing.
//
// Classification is AI_GENERATED on a strict majority of flagging votes, and
// also on a 2-2 split: a tie resolves toward flagging as the safer default.
// The confidence score is the mean confidence of the votes that agree with the
// final classification.
func Aggregate(votes []types.ModelVote) (types.AggregateVerdict, error) {
	if len(votes) != config.EnsembleSize {
		return types.AggregateVerdict{}, fmt.Errorf("expected %d votes, got %d", config.EnsembleSize, len(votes))
	}

	flagged := 0
	for _, v := range votes {
		if v.Label == types.LabelAIGenerated {
			flagged++
		}
	}

	classification := types.LabelHuman
	if flagged*2 >= len(votes) {
		classification = types.LabelAIGenerated
	}

	// Summed in sorted order so permuting the votes cannot perturb the
	// floating-point result.
	var agreeing []float64
	for _, v := range votes {
		if v.Label == classification {
			agreeing = append(agreeing, v.Confidence)
		}
	}
	sort.Float64s(agreeing)
	var sum float64
	for _, c := range agreeing {
		sum += c
	}
	var confidence float64
	if len(agreeing) > 0 {
		confidence = sum / float64(len(agreeing))
	}

	return types.AggregateVerdict{
		Classification:  classification,
		ConfidenceScore: confidence,
		Explanation: fmt.Sprintf("Ensemble Analysis: %d/%d models flagged this audio as AI-generated.",
			flagged, len(votes)),
	}, nil
}
