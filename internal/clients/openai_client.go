package clients

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const OPENAI_REQUEST_TIMEOUT = 60 * time.Second

type OpenAIClient struct {
	Client *openai.Client
	Model  string
}

// NewOpenAIClient builds a chat-completions client. baseURL is only set for
// compatible gateways and tests.
func NewOpenAIClient(apiKey, model, baseURL string) *OpenAIClient {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(&http.Client{Timeout: OPENAI_REQUEST_TIMEOUT}),
		option.WithMaxRetries(2),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	slog.Info("[OpenAIClient] OpenAI client initialized",
		slog.String("model", model),
		slog.Duration("timeout", OPENAI_REQUEST_TIMEOUT))

	return &OpenAIClient{
		Client: openai.NewClient(opts...),
		Model:  model,
	}
}
