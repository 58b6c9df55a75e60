package kafka_client

import "time"

const (
	KAFKA_TOPIC_VIDEO_EVALUATIONS = "video-evaluations" // per-video evaluation outcomes
)

const (
	MAX_RETRIES   = 3
	RETRY_DELAY   = 2 * time.Second
	FLUSH_TIMEOUT = 5 * time.Second
	DELIVERY_WAIT = 10 * time.Second
)
