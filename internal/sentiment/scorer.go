package sentiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/commentflow/internal/models"
)

var ErrResultCountMismatch = errors.New("classifier returned a different number of results than inputs")

// Classifier labels each text; results are positionally aligned with texts.
type Classifier interface {
	Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error)
}

// Scorer hands a whole comment list to the injected classifier in one call.
type Scorer struct {
	classifier Classifier
	name       string
}

func NewScorer(classifier Classifier, name string) *Scorer {
	return &Scorer{classifier: classifier, name: name}
}

func (s *Scorer) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	start := time.Now()

	results, err := s.classifier.Classify(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("%s classifier: %w", s.name, err)
	}
	if len(results) != len(texts) {
		return nil, fmt.Errorf("%w: %d inputs, %d results", ErrResultCountMismatch, len(texts), len(results))
	}

	slog.Debug("[SentimentScorer] Classified comments",
		slog.String("backend", s.name),
		slog.Int("count", len(texts)),
		slog.Duration("elapsed", time.Since(start)))
	return results, nil
}
