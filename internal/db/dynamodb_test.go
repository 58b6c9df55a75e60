package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/utils"
)

type fakeWriter struct {
	calls       []map[string][]types.WriteRequest
	unprocessed int
	err         error
}

func (f *fakeWriter) BatchWriteItem(_ context.Context, params *dynamodb.BatchWriteItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	f.calls = append(f.calls, params.RequestItems)
	if f.err != nil {
		return nil, f.err
	}
	out := &dynamodb.BatchWriteItemOutput{}
	if f.unprocessed > 0 {
		f.unprocessed--
		for table, reqs := range params.RequestItems {
			out.UnprocessedItems = map[string][]types.WriteRequest{table: reqs[:1]}
		}
	}
	return out, nil
}

func newTestStore(w BatchWriter) *OutcomeStore {
	s := NewOutcomeStore(w, "Outcomes")
	s.retryDelay = time.Millisecond
	return s
}

func TestOutcomeStore_FlushesAtBatchSize(t *testing.T) {
	w := &fakeWriter{}
	s := newTestStore(w)

	for i := 0; i < utils.BATCH_SIZE+1; i++ {
		if err := s.Record(context.Background(), models.ItemOutcome{ContentID: "vid", Status: models.OUTCOME_EVALUATED}); err != nil {
			t.Fatalf("Record err=%v", err)
		}
	}
	if len(w.calls) != 1 || len(w.calls[0]["Outcomes"]) != utils.BATCH_SIZE {
		t.Fatalf("calls=%d", len(w.calls))
	}

	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush err=%v", err)
	}
	if len(w.calls) != 2 || len(w.calls[1]["Outcomes"]) != 1 {
		t.Fatalf("calls=%d", len(w.calls))
	}
}

func TestOutcomeStore_RetriesUnprocessedItems(t *testing.T) {
	w := &fakeWriter{unprocessed: 2}
	s := newTestStore(w)

	_ = s.Record(context.Background(), models.ItemOutcome{ContentID: "a"})
	_ = s.Record(context.Background(), models.ItemOutcome{ContentID: "b"})
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush err=%v", err)
	}
	if len(w.calls) != 3 {
		t.Fatalf("calls=%d", len(w.calls))
	}
	if len(w.calls[2]["Outcomes"]) != 1 {
		t.Fatalf("retry carried %d items", len(w.calls[2]["Outcomes"]))
	}
}

func TestOutcomeStore_WriteErrorIsReturned(t *testing.T) {
	boom := errors.New("throttled")
	s := newTestStore(&fakeWriter{err: boom})

	_ = s.Record(context.Background(), models.ItemOutcome{ContentID: "a"})
	if err := s.Flush(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("err=%v", err)
	}
}

func TestOutcomeStore_ItemCarriesKeysAndTTL(t *testing.T) {
	s := newTestStore(&fakeWriter{})
	s.now = func() time.Time { return time.Unix(1000, 0) }
	predicted := 1

	item, err := s.outcomeToItem(models.ItemOutcome{RunID: "r", ContentID: "vid", PredictedLabel: &predicted})
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if v, ok := item["content_id"].(*types.AttributeValueMemberS); !ok || v.Value != "vid" {
		t.Fatalf("content_id=%v", item["content_id"])
	}
	if v, ok := item["predicted_label"].(*types.AttributeValueMemberN); !ok || v.Value != "1" {
		t.Fatalf("predicted_label=%v", item["predicted_label"])
	}
	if _, ok := item["expected_label"]; ok {
		t.Fatalf("nil expected label should be omitted")
	}
	ttl, ok := item["expires_at"].(*types.AttributeValueMemberN)
	if !ok || ttl.Value != "2593000" {
		t.Fatalf("expires_at=%v", item["expires_at"])
	}
}

func TestOutcomeStore_CancelledFlushKeepsOutcomes(t *testing.T) {
	w := &fakeWriter{}
	s := newTestStore(w)

	ctx, cancel := context.WithCancel(context.Background())
	for _, id := range []string{"a", "b", "c"} {
		if err := s.Record(ctx, models.ItemOutcome{ContentID: id}); err != nil {
			t.Fatalf("Record err=%v", err)
		}
	}
	cancel()

	if err := s.Flush(ctx); err == nil && len(w.calls) == 0 {
		t.Fatalf("flush reported success without writing")
	}
	if len(w.calls) == 0 && s.buffer.Size() != 3 {
		t.Fatalf("buffered=%d writes=%d", s.buffer.Size(), len(w.calls))
	}

	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("second Flush err=%v", err)
	}
	written := 0
	for _, call := range w.calls {
		written += len(call["Outcomes"])
	}
	if written != 3 {
		t.Fatalf("written=%d", written)
	}
	if s.buffer.HasData() {
		t.Fatalf("buffer not drained")
	}
}

func TestOutcomeStore_FailedWriteIsRetriedOnNextFlush(t *testing.T) {
	w := &fakeWriter{err: errors.New("throttled")}
	s := newTestStore(w)

	_ = s.Record(context.Background(), models.ItemOutcome{ContentID: "a"})
	_ = s.Record(context.Background(), models.ItemOutcome{ContentID: "b"})
	if err := s.Flush(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if s.buffer.Size() != 2 {
		t.Fatalf("buffered=%d", s.buffer.Size())
	}

	w.err = nil
	if err := s.Flush(context.Background()); err != nil {
		t.Fatalf("Flush err=%v", err)
	}
	last := w.calls[len(w.calls)-1]["Outcomes"]
	if len(last) != 2 {
		t.Fatalf("last write carried %d items", len(last))
	}
}
