// Package types defines the request/response shapes and domain types shared
// across the detection pipeline.
package types

// Label is the binary verdict a classifier assigns to a waveform.
type Label string

const (
	LabelAIGenerated Label = "AI_GENERATED"
	LabelHuman       Label = "HUMAN"
)

// DetectionRequest is the body accepted by POST /api/voice-detection.
type DetectionRequest struct {
	Language    string `json:"language" binding:"required"`    // one of the configured language set
	AudioFormat string `json:"audioFormat" binding:"required"` // "mp3" or "wav", case-insensitive
	AudioBase64 string `json:"audioBase64" binding:"required"` // base64-encoded audio bytes
}

// ModelVote is a single classifier's opinion about one request. Votes are
// produced once per request per model and never persisted.
type ModelVote struct {
	ModelName  string
	Label      Label
	Confidence float64 // probability of the vote's own label, in [0,1]
}

// AggregateVerdict is the ensemble's combined decision, derived
// deterministically from exactly four votes.
type AggregateVerdict struct {
	Classification  Label
	ConfidenceScore float64
	Explanation     string
}

// DetectionResponse is the success body returned to the caller.
type DetectionResponse struct {
	Status          string  `json:"status"`
	Language        string  `json:"language"`
	Classification  Label   `json:"classification"`
	ConfidenceScore float64 `json:"confidenceScore"`
	Explanation     string  `json:"explanation"`
}

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NewErrorResponse builds the error envelope.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Status: "error", Message: message}
}
