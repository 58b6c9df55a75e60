package evaluation

import (
	"context"

	"github.com/spacesedan/commentflow/internal/models"
)

// OutcomeSink receives every per-item outcome of a run. Flush is called once
// after the last item.
type OutcomeSink interface {
	Record(ctx context.Context, outcome models.ItemOutcome) error
	Flush(ctx context.Context) error
}
