package sentiment

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spacesedan/commentflow/internal/models"
)

type batchAnalyzer interface {
	GetBatchedSentimentAnalysis(ctx context.Context, input models.SentimentAnalysisBatchRequest) (models.SentimentAnalysisBatchResponse, error)
}

// HuggingFaceClassifier delegates to the hosted sentiment analyzer. Inputs are
// keyed by position so results can be realigned.
type HuggingFaceClassifier struct {
	client batchAnalyzer
}

func NewHuggingFaceClassifier(client batchAnalyzer) *HuggingFaceClassifier {
	return &HuggingFaceClassifier{client: client}
}

func (h *HuggingFaceClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	request := make(models.SentimentAnalysisBatchRequest, 0, len(texts))
	for i, text := range texts {
		request = append(request, models.SentimentAnalysisRequest{
			ContentID: strconv.Itoa(i),
			Text:      ConvertMarkdownToText(text),
		})
	}

	response, err := h.client.GetBatchedSentimentAnalysis(ctx, request)
	if err != nil {
		return nil, err
	}

	scores := mapSentimentScoreToContentID(response)
	results := make([]models.SentimentResult, 0, len(texts))
	for _, req := range request {
		score, ok := scores[req.ContentID]
		if !ok {
			return nil, fmt.Errorf("no sentiment result for input %s", req.ContentID)
		}
		results = append(results, models.SentimentResult{
			Label: strings.ToUpper(score.SentimentLabel),
			Score: score.Confidence,
		})
	}
	return results, nil
}

// mapSentimentScoreToContentID Creates a map to sentiment scores to avoid nested loops
func mapSentimentScoreToContentID(scores models.SentimentAnalysisBatchResponse) map[string]models.SentimentAnalysisResponse {
	scoreMap := make(map[string]models.SentimentAnalysisResponse, len(scores))

	for _, score := range scores {
		scoreMap[score.ContentID] = score
	}

	return scoreMap
}
