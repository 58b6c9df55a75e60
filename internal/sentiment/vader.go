package sentiment

import (
	"context"
	"math"

	"github.com/jonreiter/govader"
	"github.com/spacesedan/commentflow/internal/models"
)

const VADER_POLARITY_THRESHOLD = 0.20

// AnalyzeWithVADER returns the compound polarity in [-1,1] and its label.
func AnalyzeWithVADER(analyzer *govader.SentimentIntensityAnalyzer, text string) (float64, string) {
	plainText := ConvertMarkdownToText(text)

	sentiment := analyzer.PolarityScores(plainText)
	score := sentiment.Compound

	var label string
	if score >= VADER_POLARITY_THRESHOLD {
		label = models.LABEL_POSITIVE
	} else if score <= -VADER_POLARITY_THRESHOLD {
		label = models.LABEL_NEGATIVE
	} else {
		label = models.LABEL_NEUTRAL
	}

	return score, label
}

// VaderConfidence maps a compound score onto a confidence in its label.
// Polar labels land in [0.6,1]; neutral is 1-|compound|.
func VaderConfidence(compound float64, label string) float64 {
	switch label {
	case models.LABEL_POSITIVE:
		return (1 + compound) / 2
	case models.LABEL_NEGATIVE:
		return (1 - compound) / 2
	default:
		return 1 - math.Abs(compound)
	}
}

// VaderClassifier is the in-process lexicon classifier.
type VaderClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVaderClassifier() *VaderClassifier {
	return &VaderClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VaderClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	results := make([]models.SentimentResult, 0, len(texts))
	for _, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		compound, label := AnalyzeWithVADER(v.analyzer, text)
		results = append(results, models.SentimentResult{
			Label: label,
			Score: VaderConfidence(compound, label),
		})
	}
	return results, nil
}
