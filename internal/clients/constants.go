package clients

import "time"

const (
	MAX_RETRIES     = 5
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "commentflow-client/1.0 (+https://github.com/spacesedan/commentflow)"
)

const (
	YOUTUBE_API_URL   = "https://www.googleapis.com/youtube/v3"
	COMMENT_PAGE_SIZE = 100 // commentThreads maximum
)

const (
	HF_SENTIMENT_ANALYSIS_ENDPOINT = "https://spacesedan-sentiment-analyzer.hf.space/analyze_batch"
	HF_HEALTH_ENDPOINT             = "https://spacesedan-sentiment-analyzer.hf.space/health"
)
