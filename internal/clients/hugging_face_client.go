package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/spacesedan/commentflow/internal/models"
)

type HuggingFaceClient struct {
	Client         *http.Client
	AnalyzeURL     string
	HealthURL      string
	MaxRetries     int
	InitialBackoff time.Duration
}

func NewHuggingFaceClient(analyzeURL, healthURL string, timeout time.Duration) *HuggingFaceClient {
	if analyzeURL == "" {
		analyzeURL = HF_SENTIMENT_ANALYSIS_ENDPOINT
	}
	if healthURL == "" {
		healthURL = HF_HEALTH_ENDPOINT
	}

	slog.Info("[HuggingFaceClient] Initializing Client",
		slog.Duration("timeout", timeout),
		slog.String("endpoint", analyzeURL))

	return &HuggingFaceClient{
		Client:         &http.Client{Timeout: timeout},
		AnalyzeURL:     analyzeURL,
		HealthURL:      healthURL,
		MaxRetries:     MAX_RETRIES,
		InitialBackoff: INITIAL_BACKOFF,
	}
}

// DoWithRetry retries transport errors and 5xx responses with exponential
// backoff. newReq is called per attempt so request bodies are fresh.
func (h *HuggingFaceClient) DoWithRetry(ctx context.Context, newReq func() (*http.Request, error)) (*http.Response, error) {
	var resp *http.Response
	var err error
	backoff := h.InitialBackoff

	for attempt := 0; attempt < h.MaxRetries; attempt++ {
		req, buildErr := newReq()
		if buildErr != nil {
			return nil, buildErr
		}

		resp, err = h.Client.Do(req)
		if err == nil && resp.StatusCode < 500 {
			return resp, nil
		}

		slog.Warn("[HuggingFaceClient] Request failed, will retry",
			slog.Int("attempt", attempt+1),
			slog.String("error", errMsg(err, resp)))

		if resp != nil {
			resp.Body.Close()
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > MAX_BACKOFF {
			backoff = MAX_BACKOFF
		}
	}

	if err == nil {
		err = fmt.Errorf("%s", errMsg(nil, resp))
	}
	return nil, err
}

func (h *HuggingFaceClient) GetBatchedSentimentAnalysis(ctx context.Context, input models.SentimentAnalysisBatchRequest) (models.SentimentAnalysisBatchResponse, error) {
	var result models.SentimentAnalysisBatchResponse
	slog.Info("[HuggingFaceClient] Requesting sentiment analysis from sentiment analysis service",
		slog.Int("batch_size", len(input)))
	start := time.Now()

	err := h.postJSON(ctx, h.AnalyzeURL, input, &result)
	if err != nil {
		slog.Error("[HuggingFaceClient] Sentiment Analysis request failed",
			slog.Duration("elapsed", time.Since(start)))
		return result, err
	}

	slog.Info("[HuggingFaceClient] Sentiment Analysis request successful",
		slog.Duration("elapsed", time.Since(start)))
	return result, nil
}

// AnalyzerHealthCheck reports whether the analyzer endpoint answers 200.
func (h *HuggingFaceClient) AnalyzerHealthCheck(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.HealthURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := h.Client.Do(req)
	if err != nil {
		slog.Warn("[HuggingFaceClient] Health check failed",
			slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return resp.StatusCode == http.StatusOK
}

// helper function for posting data to the analyzer service
func (h *HuggingFaceClient) postJSON(ctx context.Context, endpoint string, input interface{}, output interface{}) error {
	body, err := json.Marshal(input)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to marshal input",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to marshal input: %w", err)
	}

	resp, err := h.DoWithRetry(ctx, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("User-Agent", USER_AGENT)
		return req, nil
	})
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed request after retries",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))

		return fmt.Errorf("request failed after retries: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		slog.Error("[HuggingFaceClient] Failed to read response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("analyzer returned status %d", resp.StatusCode)
	}

	if err := json.Unmarshal(respBody, output); err != nil {
		slog.Error("[HuggingFaceClient] Failed to unmarshal response",
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			getPreview(respBody),
			slog.Int("raw_response_length", len(respBody)))

		return fmt.Errorf("failed to unmarshal response: %w", err)
	}

	return nil
}

func errMsg(err error, resp *http.Response) string {
	if err != nil {
		return err.Error()
	}
	if resp != nil {
		return fmt.Sprintf("status code %d", resp.StatusCode)
	}
	return "unknown error"
}
