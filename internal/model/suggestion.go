package model

// ClassificationSuggestion is a classifier-proposed category for a photographed
// item. It lives only for the duration of one pending log draft and is never
// persisted.
type ClassificationSuggestion struct {
	Category    WasteCategory `json:"category"`
	Description string        `json:"description"`
	Confidence  float64       `json:"confidence"` // in [0,1]; synthesized, see vision package
}
