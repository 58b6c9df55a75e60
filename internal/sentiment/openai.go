package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/spacesedan/commentflow/internal/models"
)

const (
	OPENAI_BATCH_SIZE     = 50
	OPENAI_RETRY_ATTEMPTS = 3
	OPENAI_RETRY_DELAY    = 2 * time.Second
)

const openAIPrompt = `Classify the sentiment of each YouTube comment you are given.
The input is a JSON array of objects {"index": N, "text": "..."}.

For every comment return exactly one entry with:
- "index": the index you were given
- "label": POSITIVE or NEGATIVE
- "score": your confidence in that label, between 0 and 1

### **STRICT OUTPUT FORMAT**
Return only valid JSON, no markdown, no text before or after:
{"results": [{"index": 0, "label": "POSITIVE", "score": 0.97}]}
`

type openAIComment struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

type openAIResult struct {
	Index int     `json:"index"`
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

type openAIResponse struct {
	Results []openAIResult `json:"results"`
}

// OpenAIClassifier asks a chat model to label comments in batches.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

func NewOpenAIClassifier(client *openai.Client, model string) *OpenAIClassifier {
	return &OpenAIClassifier{client: client, model: model}
}

func (o *OpenAIClassifier) Classify(ctx context.Context, texts []string) ([]models.SentimentResult, error) {
	results := make([]models.SentimentResult, 0, len(texts))

	for offset, batch := range chunkTexts(texts, OPENAI_BATCH_SIZE) {
		base := offset * OPENAI_BATCH_SIZE
		payload := make([]openAIComment, len(batch))
		for i, text := range batch {
			payload[i] = openAIComment{Index: base + i, Text: ConvertMarkdownToText(text)}
		}

		batchResults, err := o.classifyBatch(ctx, payload)
		if err != nil {
			return nil, err
		}
		results = append(results, batchResults...)
	}

	return results, nil
}

func (o *OpenAIClassifier) classifyBatch(ctx context.Context, payload []openAIComment) ([]models.SentimentResult, error) {
	batchBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal batch: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= OPENAI_RETRY_ATTEMPTS; attempt++ {
		chatCompletion, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
			Messages: openai.F([]openai.ChatCompletionMessageParamUnion{
				openai.SystemMessage(openAIPrompt),
				openai.UserMessage(string(batchBytes)),
			}),
			Model:       openai.F(openai.ChatModel(o.model)),
			Temperature: openai.Float(0),
		})
		if err != nil {
			lastErr = err
			slog.Warn("[OpenAIClassifier] OpenAI API call failed, retrying",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(OPENAI_RETRY_DELAY):
			}
			continue
		}

		if len(chatCompletion.Choices) == 0 || strings.TrimSpace(chatCompletion.Choices[0].Message.Content) == "" {
			lastErr = fmt.Errorf("empty completion")
			slog.Warn("[OpenAIClassifier] OpenAI returned empty response, retrying",
				slog.Int("attempt", attempt))
			continue
		}

		results, err := parseOpenAIResults(chatCompletion.Choices[0].Message.Content, payload)
		if err != nil {
			lastErr = err
			slog.Warn("[OpenAIClassifier] Failed to parse response, retrying",
				slog.Int("attempt", attempt),
				slog.String("error", err.Error()))
			continue
		}
		return results, nil
	}

	return nil, fmt.Errorf("openai classification failed after %d attempts: %w", OPENAI_RETRY_ATTEMPTS, lastErr)
}

// parseOpenAIResults decodes the model output and realigns it with payload.
func parseOpenAIResults(raw string, payload []openAIComment) ([]models.SentimentResult, error) {
	var resp openAIResponse
	if err := json.Unmarshal([]byte(cleanOpenAIResponse(raw)), &resp); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}

	byIndex := make(map[int]openAIResult, len(resp.Results))
	for _, r := range resp.Results {
		byIndex[r.Index] = r
	}

	results := make([]models.SentimentResult, 0, len(payload))
	for _, comment := range payload {
		r, ok := byIndex[comment.Index]
		if !ok {
			return nil, fmt.Errorf("missing result for index %d", comment.Index)
		}
		score := r.Score
		if score < 0 {
			score = 0
		} else if score > 1 {
			score = 1
		}
		results = append(results, models.SentimentResult{
			Label: strings.ToUpper(strings.TrimSpace(r.Label)),
			Score: score,
		})
	}
	return results, nil
}

func cleanOpenAIResponse(response string) string {
	response = strings.TrimSpace(response)

	response = strings.TrimPrefix(response, "```json")
	response = strings.TrimPrefix(response, "```")
	response = strings.TrimSuffix(response, "```")

	response = strings.ReplaceAll(response, "“", `"`) // Left curly quote
	response = strings.ReplaceAll(response, "”", `"`) // Right curly quote

	return strings.TrimSpace(response)
}
