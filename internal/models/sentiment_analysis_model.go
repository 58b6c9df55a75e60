package models

const (
	LABEL_POSITIVE = "POSITIVE"
	LABEL_NEGATIVE = "NEGATIVE"
	LABEL_NEUTRAL  = "NEUTRAL"
)

// SentimentResult is the classification of a single comment. Score is the
// classifier's confidence in Label, in [0,1].
type SentimentResult struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
