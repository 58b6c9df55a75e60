package sentiment

import (
	"errors"
	"math"
	"testing"

	"github.com/spacesedan/commentflow/internal/models"
)

func TestSummarize_LegacyMean(t *testing.T) {
	s := NewSummarizer(POLICY_LEGACY_MEAN)

	cases := []struct {
		name    string
		results []models.SentimentResult
		want    float64
	}{
		{"single", []models.SentimentResult{{Label: models.LABEL_NEGATIVE, Score: 0.73}}, 0.73},
		{"identical", []models.SentimentResult{
			{Label: models.LABEL_POSITIVE, Score: 0.9},
			{Label: models.LABEL_NEGATIVE, Score: 0.9},
			{Label: models.LABEL_POSITIVE, Score: 0.9},
		}, 0.9},
		{"mean", []models.SentimentResult{{Score: 0.2}, {Score: 0.8}}, 0.5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := s.Summarize(tc.results)
			if err != nil {
				t.Fatalf("err=%v", err)
			}
			if got != tc.want {
				t.Fatalf("Summarize=%v want %v", got, tc.want)
			}
		})
	}
}

func TestSummarize_LegacyMeanIgnoresLabel(t *testing.T) {
	s := NewSummarizer(POLICY_LEGACY_MEAN)
	pos, _ := s.Summarize([]models.SentimentResult{{Label: models.LABEL_POSITIVE, Score: 0.9}})
	neg, _ := s.Summarize([]models.SentimentResult{{Label: models.LABEL_NEGATIVE, Score: 0.9}})
	if pos != neg {
		t.Fatalf("pos=%v neg=%v", pos, neg)
	}
}

func TestSummarize_SignedPolicy(t *testing.T) {
	s := NewSummarizer(POLICY_SIGNED)

	got, err := s.Summarize([]models.SentimentResult{
		{Label: models.LABEL_POSITIVE, Score: 0.9},
		{Label: models.LABEL_NEGATIVE, Score: 0.9},
	})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if math.Abs(got-0.5) > 1e-9 {
		t.Fatalf("Summarize=%v", got)
	}

	neg, _ := s.Summarize([]models.SentimentResult{{Label: models.LABEL_NEGATIVE, Score: 0.8}})
	if math.Abs(neg-0.2) > 1e-9 {
		t.Fatalf("negative=%v", neg)
	}

	neutral, _ := s.Summarize([]models.SentimentResult{{Label: models.LABEL_NEUTRAL, Score: 0.99}})
	if neutral != 0.5 {
		t.Fatalf("neutral=%v", neutral)
	}
}

func TestSummarize_EmptyInput(t *testing.T) {
	if _, err := NewSummarizer(POLICY_SIGNED).Summarize(nil); !errors.Is(err, ErrNoResults) {
		t.Fatalf("err=%v", err)
	}
}

func TestParseSummaryPolicy(t *testing.T) {
	if p, err := ParseSummaryPolicy(""); err != nil || p != POLICY_SIGNED {
		t.Fatalf("p=%q err=%v", p, err)
	}
	if p, err := ParseSummaryPolicy(" Legacy_Mean "); err != nil || p != POLICY_LEGACY_MEAN {
		t.Fatalf("p=%q err=%v", p, err)
	}
	if _, err := ParseSummaryPolicy("median"); err == nil {
		t.Fatalf("expected error")
	}
}
