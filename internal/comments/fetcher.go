package comments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spacesedan/commentflow/internal/clients"
	"github.com/spacesedan/commentflow/internal/models"
)

// CommentPager lists one page of top-level comment threads for a video.
type CommentPager interface {
	ListCommentThreads(ctx context.Context, videoID, pageToken string) (*models.CommentThreadListResponse, error)
}

// CommentSource produces the full comment list for a video.
type CommentSource interface {
	Fetch(ctx context.Context, videoID string) FetchResult
}

type FailureReason string

const (
	REASON_QUOTA_EXCEEDED     FailureReason = "quota_exceeded"
	REASON_COMMENTS_DISABLED  FailureReason = "comments_disabled"
	REASON_NOT_FOUND          FailureReason = "not_found"
	REASON_FORBIDDEN          FailureReason = "forbidden"
	REASON_MALFORMED_RESPONSE FailureReason = "malformed_response"
	REASON_CANCELLED          FailureReason = "cancelled"
	REASON_TRANSPORT          FailureReason = "transport"
	REASON_UNKNOWN            FailureReason = "unknown"
)

var ErrRepeatedPageToken = errors.New("comment listing returned the same page token twice")

// FetchResult is either a (possibly empty) comment list or a failure.
// Comments gathered before a failure are discarded.
type FetchResult struct {
	VideoID  string
	Comments []string
	Pages    int
	Err      error
	Reason   FailureReason
}

func (r FetchResult) Failed() bool {
	return r.Err != nil
}

type Fetcher struct {
	pager CommentPager
}

func NewFetcher(pager CommentPager) *Fetcher {
	return &Fetcher{pager: pager}
}

// Fetch follows continuation tokens until a page carries none, collecting the
// display text of every top-level comment in page order.
func (f *Fetcher) Fetch(ctx context.Context, videoID string) FetchResult {
	start := time.Now()
	var collected []string
	pageToken := ""
	pages := 0

	for {
		if err := ctx.Err(); err != nil {
			return failed(videoID, pages, err)
		}

		page, err := f.pager.ListCommentThreads(ctx, videoID, pageToken)
		if err != nil {
			return failed(videoID, pages, err)
		}
		if page == nil {
			return failed(videoID, pages, &clients.MalformedResponseError{Err: errors.New("empty page")})
		}
		pages++

		for _, item := range page.Items {
			collected = append(collected, item.Snippet.TopLevelComment.Snippet.TextDisplay)
		}

		// stop paginating when there are no more results
		if page.NextPageToken == "" {
			break
		}
		if page.NextPageToken == pageToken {
			return failed(videoID, pages, fmt.Errorf("%w: %q", ErrRepeatedPageToken, pageToken))
		}
		pageToken = page.NextPageToken
	}

	slog.Info("[CommentFetcher] Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("count", len(collected)),
		slog.Int("pages", pages),
		slog.Duration("elapsed", time.Since(start)))

	return FetchResult{VideoID: videoID, Comments: collected, Pages: pages}
}

func failed(videoID string, pages int, err error) FetchResult {
	reason := ClassifyFailure(err)
	slog.Error("[CommentFetcher] An error occurred while fetching comments",
		slog.String("video_id", videoID),
		slog.Int("pages_read", pages),
		slog.String("reason", string(reason)),
		slog.String("error", err.Error()))

	return FetchResult{VideoID: videoID, Pages: pages, Err: err, Reason: reason}
}

// ClassifyFailure maps a fetch error onto a FailureReason.
func ClassifyFailure(err error) FailureReason {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return REASON_CANCELLED
	}

	var malformed *clients.MalformedResponseError
	if errors.As(err, &malformed) || errors.Is(err, ErrRepeatedPageToken) {
		return REASON_MALFORMED_RESPONSE
	}

	if apiErr, ok := clients.AsYouTubeAPIError(err); ok {
		switch apiErr.Reason {
		case "quotaExceeded", "dailyLimitExceeded", "rateLimitExceeded", "userRateLimitExceeded":
			return REASON_QUOTA_EXCEEDED
		case "commentsDisabled":
			return REASON_COMMENTS_DISABLED
		case "videoNotFound":
			return REASON_NOT_FOUND
		}
		switch apiErr.StatusCode {
		case 404:
			return REASON_NOT_FOUND
		case 401, 403:
			return REASON_FORBIDDEN
		case 429:
			return REASON_QUOTA_EXCEEDED
		}
		return REASON_UNKNOWN
	}

	return REASON_TRANSPORT
}
