package clients

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spacesedan/commentflow/internal/models"
	"golang.org/x/oauth2"
)

// YouTubeAPIError is a non-2xx response from the Data API.
type YouTubeAPIError struct {
	StatusCode int
	Reason     string
	Message    string
}

func (e *YouTubeAPIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube api error %d (%s): %s", e.StatusCode, e.Reason, e.Message)
	}
	return fmt.Sprintf("youtube api error %d: %s", e.StatusCode, e.Message)
}

type YouTubeClientOptions struct {
	APIKey     string
	OAuthToken string
	BaseURL    string
	Timeout    time.Duration
}

type YouTubeClient struct {
	Client  *http.Client
	APIKey  string
	BaseURL string
}

// NewYouTubeClient builds a Data API client. When an OAuth access token is set
// requests are authorized with it instead of the API key.
func NewYouTubeClient(opts YouTubeClientOptions) *YouTubeClient {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = YOUTUBE_API_URL
	}

	httpClient := &http.Client{Timeout: opts.Timeout}
	if opts.OAuthToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: opts.OAuthToken,
			TokenType:   "Bearer",
		}))
		httpClient.Timeout = opts.Timeout
	}

	slog.Info("[YouTubeClient] Initializing Client",
		slog.String("base_url", baseURL),
		slog.Bool("oauth", opts.OAuthToken != ""),
		slog.Duration("timeout", opts.Timeout))

	return &YouTubeClient{
		Client:  httpClient,
		APIKey:  opts.APIKey,
		BaseURL: baseURL,
	}
}

// ListCommentThreads fetches one page of top-level comments for a video.
func (yc *YouTubeClient) ListCommentThreads(ctx context.Context, videoID, pageToken string) (*models.CommentThreadListResponse, error) {
	parsedURL, err := url.Parse(yc.BaseURL + "/commentThreads")
	if err != nil {
		return nil, fmt.Errorf("[YouTubeClient] Failed to parse URL: %w", err)
	}

	queryParams := parsedURL.Query()
	queryParams.Set("part", "snippet")
	queryParams.Set("videoId", videoID)
	queryParams.Set("maxResults", strconv.Itoa(COMMENT_PAGE_SIZE))
	if pageToken != "" {
		queryParams.Set("pageToken", pageToken)
	}
	if yc.APIKey != "" {
		queryParams.Set("key", yc.APIKey)
	}
	parsedURL.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", USER_AGENT)

	resp, err := yc.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := decodeYouTubeError(resp.StatusCode, body)
		slog.Warn("[YouTubeClient] commentThreads request rejected",
			slog.String("video_id", videoID),
			slog.Int("status", apiErr.StatusCode),
			slog.String("reason", apiErr.Reason))
		return nil, apiErr
	}

	var page models.CommentThreadListResponse
	if err := json.Unmarshal(body, &page); err != nil {
		slog.Error("[YouTubeClient] Failed to unmarshal response",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()),
			getPreview(body))
		return nil, &MalformedResponseError{Err: err}
	}

	return &page, nil
}

// MalformedResponseError wraps a response body that could not be decoded.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return "malformed response: " + e.Err.Error()
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func decodeYouTubeError(status int, body []byte) *YouTubeAPIError {
	apiErr := &YouTubeAPIError{StatusCode: status, Message: http.StatusText(status)}

	var envelope models.YouTubeErrorResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}
	if envelope.Error.Message != "" {
		apiErr.Message = envelope.Error.Message
	}
	if len(envelope.Error.Errors) > 0 {
		apiErr.Reason = envelope.Error.Errors[0].Reason
	}
	return apiErr
}

// AsYouTubeAPIError unwraps err into a *YouTubeAPIError if it carries one.
func AsYouTubeAPIError(err error) (*YouTubeAPIError, bool) {
	var apiErr *YouTubeAPIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func getPreview(respBody []byte) slog.Attr {
	raw := string(respBody)
	if len(raw) > 50 {
		raw = raw[:50]
	}
	return slog.String("raw_response", raw)
}
