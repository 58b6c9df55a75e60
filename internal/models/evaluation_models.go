package models

import "time"

const DEFAULT_TITLE = "Unknown Title"

// VideoEvaluationItem is one labeled (or unlabeled) video in an evaluation set.
type VideoEvaluationItem struct {
	ContentID     string `json:"contentId" yaml:"contentId" toml:"contentId"`
	ExpectedLabel *int   `json:"sentiment,omitempty" yaml:"sentiment,omitempty" toml:"sentiment,omitempty"`
	Title         string `json:"title,omitempty" yaml:"title,omitempty" toml:"title,omitempty"`
}

func (v VideoEvaluationItem) DisplayTitle() string {
	if v.Title == "" {
		return DEFAULT_TITLE
	}
	return v.Title
}

type OutcomeStatus string

const (
	OUTCOME_EVALUATED          OutcomeStatus = "evaluated"
	OUTCOME_UNLABELED          OutcomeStatus = "unlabeled"
	OUTCOME_SKIPPED_MISSING_ID OutcomeStatus = "skipped_missing_id"
	OUTCOME_NO_COMMENTS        OutcomeStatus = "no_comments"
	OUTCOME_FETCH_FAILED       OutcomeStatus = "fetch_failed"
	OUTCOME_SCORING_FAILED     OutcomeStatus = "scoring_failed"
)

// ItemOutcome records what happened to one item during a batch run.
type ItemOutcome struct {
	RunID          string        `json:"run_id" dynamodbav:"run_id"`
	ContentID      string        `json:"content_id" dynamodbav:"content_id"`
	Title          string        `json:"title" dynamodbav:"title"`
	Status         OutcomeStatus `json:"status" dynamodbav:"status"`
	CommentCount   int           `json:"comment_count" dynamodbav:"comment_count"`
	OverallScore   float64       `json:"overall_score" dynamodbav:"overall_score"`
	ExpectedLabel  *int          `json:"expected_label,omitempty" dynamodbav:"expected_label,omitempty"`
	PredictedLabel *int          `json:"predicted_label,omitempty" dynamodbav:"predicted_label,omitempty"`
	Match          bool          `json:"match" dynamodbav:"match"`
	FailureReason  string        `json:"failure_reason,omitempty" dynamodbav:"failure_reason,omitempty"`
	Error          string        `json:"error,omitempty" dynamodbav:"error,omitempty"`
	EvaluatedAt    time.Time     `json:"evaluated_at" dynamodbav:"evaluated_at"`
}
