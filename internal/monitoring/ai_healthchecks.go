package monitoring

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

const HEALTHCHECK_INTERVAL = 5 * time.Second

var ErrClassifierUnhealthy = errors.New("classifier backend is unhealthy")

// HealthChecker is implemented by remote classifier clients.
type HealthChecker interface {
	AnalyzerHealthCheck(ctx context.Context) bool
}

// CheckClassifierHealth polls checker up to attempts times, waiting interval
// between tries, and fails when no attempt reports healthy.
func CheckClassifierHealth(ctx context.Context, checker HealthChecker, attempts int, interval time.Duration) error {
	if attempts < 1 {
		attempts = 1
	}

	for attempt := 1; attempt <= attempts; attempt++ {
		if checker.AnalyzerHealthCheck(ctx) {
			slog.Info("[HealthCheck] Analyzer is healthy", slog.Int("attempt", attempt))
			return nil
		}
		slog.Warn("[HealthCheck] Analyzer is unhealthy", slog.Int("attempt", attempt))

		if attempt == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(interval):
		}
	}

	return fmt.Errorf("%w after %d attempts", ErrClassifierUnhealthy, attempts)
}
