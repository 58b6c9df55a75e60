package comments

import (
	"context"
	"log/slog"
)

// CommentCache stores complete comment lists per video.
type CommentCache interface {
	GetComments(ctx context.Context, videoID string) ([]string, bool)
	SetComments(ctx context.Context, videoID string, comments []string) error
}

// CachedFetcher serves comment lists from cache and populates it after a
// successful, non-empty fetch. Failures and empty lists are never cached.
type CachedFetcher struct {
	next  CommentSource
	cache CommentCache
}

func NewCachedFetcher(next CommentSource, cache CommentCache) *CachedFetcher {
	return &CachedFetcher{next: next, cache: cache}
}

func (cf *CachedFetcher) Fetch(ctx context.Context, videoID string) FetchResult {
	if cached, ok := cf.cache.GetComments(ctx, videoID); ok {
		slog.Info("[CommentCache] Cache hit",
			slog.String("video_id", videoID),
			slog.Int("count", len(cached)))
		return FetchResult{VideoID: videoID, Comments: cached}
	}

	result := cf.next.Fetch(ctx, videoID)
	if result.Failed() || len(result.Comments) == 0 {
		return result
	}

	if err := cf.cache.SetComments(ctx, videoID, result.Comments); err != nil {
		slog.Warn("[CommentCache] Failed to cache comments",
			slog.String("video_id", videoID),
			slog.String("error", err.Error()))
	}
	return result
}
