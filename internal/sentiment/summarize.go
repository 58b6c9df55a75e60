package sentiment

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spacesedan/commentflow/internal/models"
)

var ErrNoResults = errors.New("cannot summarize an empty result set")

type SummaryPolicy string

const (
	// POLICY_SIGNED reads every result as a probability of positive sentiment.
	POLICY_SIGNED SummaryPolicy = "signed"
	// POLICY_LEGACY_MEAN averages confidence regardless of label.
	POLICY_LEGACY_MEAN SummaryPolicy = "legacy_mean"
)

func ParseSummaryPolicy(value string) (SummaryPolicy, error) {
	switch SummaryPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case "", POLICY_SIGNED:
		return POLICY_SIGNED, nil
	case POLICY_LEGACY_MEAN:
		return POLICY_LEGACY_MEAN, nil
	default:
		return "", fmt.Errorf("unknown summary policy %q", value)
	}
}

// Summarizer reduces per-comment results to one overall score per video.
type Summarizer struct {
	policy SummaryPolicy
}

func NewSummarizer(policy SummaryPolicy) *Summarizer {
	return &Summarizer{policy: policy}
}

func (s *Summarizer) Policy() SummaryPolicy {
	return s.policy
}

func (s *Summarizer) Summarize(results []models.SentimentResult) (float64, error) {
	if len(results) == 0 {
		return 0, ErrNoResults
	}

	// running mean: n identical contributions yield exactly that value
	var mean float64
	for i, r := range results {
		mean += (s.contribution(r) - mean) / float64(i+1)
	}
	return mean, nil
}

func (s *Summarizer) contribution(r models.SentimentResult) float64 {
	if s.policy == POLICY_LEGACY_MEAN {
		return r.Score
	}

	switch r.Label {
	case models.LABEL_POSITIVE:
		return r.Score
	case models.LABEL_NEGATIVE:
		return 1 - r.Score
	default:
		return 0.5
	}
}
