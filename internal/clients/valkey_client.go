package clients

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/valkey-io/valkey-go"
)

const VALKEY_COMMENTS_KEY_PREFIX = "youtube:comments:"

type ValkeyClient struct {
	Client valkey.Client
	opts   valkey.ClientOption
	ttl    time.Duration
	mu     sync.Mutex
}

func valkeyOptions(addr, password string, useTLS bool) valkey.ClientOption {
	opts := valkey.ClientOption{
		InitAddress: []string{
			addr,
		},
		Password:         password,
		ConnWriteTimeout: 5 * time.Second,
		SelectDB:         0,
	}

	if useTLS {
		opts.TLSConfig = &tls.Config{InsecureSkipVerify: false}
	}
	return opts
}

func connectValkey(opts valkey.ClientOption) (valkey.Client, error) {
	client, err := valkey.NewClient(opts)
	if err != nil {
		return nil, fmt.Errorf("[ValkeyClient] failed to create Valkey: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*3)
	defer cancel()

	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		client.Close()
		return nil, fmt.Errorf("[ValkeyClient] failed to ping Valkey: %w", err)
	}
	return client, nil
}

// NewValkeyClient connects to Valkey; cached comment lists expire after ttl.
func NewValkeyClient(addr, password string, useTLS bool, ttl time.Duration) (*ValkeyClient, error) {
	opts := valkeyOptions(addr, password, useTLS)
	client, err := connectValkey(opts)
	if err != nil {
		return nil, err
	}

	slog.Info("[ValkeyClient] Successfully connected to valkey",
		slog.String("address", addr))

	return &ValkeyClient{Client: client, opts: opts, ttl: ttl}, nil
}

func (vc *ValkeyClient) recreateClient() {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	slog.Warn("[ValkeyClient] Attempting to recreate Valkey client...")

	client, err := connectValkey(vc.opts)
	if err != nil {
		slog.Error("[ValkeyClient] Recreate failed",
			slog.String("error", err.Error()))
		return
	}

	vc.Client.Close()
	vc.Client = client
	slog.Info("[ValkeyClient] Successfully reconnected to valkey")
}

func (vc *ValkeyClient) Close() {
	if vc != nil && vc.Client != nil {
		vc.Client.Close()
	}
}

func commentsKey(videoID string) string {
	return VALKEY_COMMENTS_KEY_PREFIX + videoID
}

// GetComments returns the cached comment list for a video, if any.
func (vc *ValkeyClient) GetComments(ctx context.Context, videoID string) ([]string, bool) {
	res := vc.DoWithRetry(ctx, vc.Client.B().Get().Key(commentsKey(videoID)).Build(), 3)
	if err := res.Error(); err != nil {
		if !valkey.IsValkeyNil(err) {
			slog.Warn("[ValkeyClient] Failed to read cached comments",
				slog.String("video_id", videoID),
				slog.String("error", err.Error()))
			if isConnectionError(err) {
				vc.recreateClient()
			}
		}
		return nil, false
	}

	raw, err := res.ToString()
	if err != nil {
		return nil, false
	}

	var comments []string
	if err := json.Unmarshal([]byte(raw), &comments); err != nil {
		slog.Warn("[ValkeyClient] Dropping undecodable cache entry",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
		return nil, false
	}
	return comments, true
}

// SetComments stores a video's comment list with the configured TTL.
func (vc *ValkeyClient) SetComments(ctx context.Context, videoID string, comments []string) error {
	payload, err := json.Marshal(comments)
	if err != nil {
		return fmt.Errorf("[ValkeyClient] marshal comments: %w", err)
	}

	cmd := vc.Client.B().Set().Key(commentsKey(videoID)).Value(string(payload)).ExSeconds(int64(vc.ttl.Seconds())).Build()
	if err := vc.DoWithRetry(ctx, cmd, 3).Error(); err != nil {
		return err
	}

	slog.Debug("[ValkeyClient] Cached comments",
		slog.String("video_id", videoID),
		slog.Int("count", len(comments)))
	return nil
}

func (vc *ValkeyClient) DoWithRetry(ctx context.Context, completed valkey.Completed, retries int) valkey.ValkeyResult {
	var result valkey.ValkeyResult
	// pinned so the command is not recycled between attempts
	completed = completed.Pin()
	for i := 0; i < retries; i++ {
		result = vc.Client.Do(ctx, completed)
		if result.Error() == nil || valkey.IsValkeyNil(result.Error()) {
			break
		}

		slog.Warn("[ValkeyClient] Do failed",
			slog.Int("attempt", i+1),
			slog.String("error", result.Error().Error()))

		time.Sleep(250 * time.Millisecond)
	}

	return result
}

func isConnectionError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "connection refused") ||
		strings.Contains(msg, "EOF") ||
		strings.Contains(msg, "i/o timeout")
}
