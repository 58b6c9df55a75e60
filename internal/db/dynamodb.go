package db

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/sethvargo/go-retry"
	"github.com/spacesedan/commentflow/internal/models"
	"github.com/spacesedan/commentflow/internal/utils"
)

const (
	OUTCOMES_TABLE_NAME    = "VideoEvaluationOutcomes"
	OUTCOME_TTL            = 30 * 24 * time.Hour
	UNPROCESSED_MAX_RETRY  = 3
	UNPROCESSED_BASE_DELAY = 500 * time.Millisecond
)

// BatchWriter is the part of the DynamoDB client the store needs.
type BatchWriter interface {
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// OutcomeStore buffers evaluation outcomes and writes them to DynamoDB in
// batches of utils.BATCH_SIZE.
type OutcomeStore struct {
	client     BatchWriter
	table      string
	buffer     *utils.BatchBuffer[types.WriteRequest]
	retryDelay time.Duration
	now        func() time.Time
}

func NewOutcomeStore(client BatchWriter, table string) *OutcomeStore {
	if table == "" {
		table = OUTCOMES_TABLE_NAME
	}
	return &OutcomeStore{
		client:     client,
		table:      table,
		buffer:     utils.NewBatchBuffer[types.WriteRequest](),
		retryDelay: UNPROCESSED_BASE_DELAY,
		now:        time.Now,
	}
}

func (s *OutcomeStore) Record(ctx context.Context, outcome models.ItemOutcome) error {
	item, err := s.outcomeToItem(outcome)
	if err != nil {
		return err
	}

	full := s.buffer.Add(types.WriteRequest{PutRequest: &types.PutRequest{Item: item}})
	if !full {
		return nil
	}
	return s.Flush(ctx)
}

// Flush writes whatever is buffered, retrying unprocessed items with
// exponential backoff. Items still unwritten when it gives up stay buffered.
func (s *OutcomeStore) Flush(ctx context.Context) error {
	if !s.buffer.HasData() {
		return nil
	}
	s.buffer.LogBatchProcessing("evaluation_outcomes")
	pending := map[string][]types.WriteRequest{s.table: s.buffer.GetAndClear()}

	first := true
	b := retry.WithMaxRetries(UNPROCESSED_MAX_RETRY, retry.NewExponential(s.retryDelay))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if !first {
			slog.Warn("[DynamoDB] Retrying unprocessed outcomes...",
				slog.Int("remaining_items", len(pending[s.table])))
		}
		first = false

		out, err := s.client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{
			RequestItems: pending,
		})
		if err != nil {
			return fmt.Errorf("[DynamoDB] Failed to batch write outcomes: %w", err)
		}
		if len(out.UnprocessedItems) > 0 {
			pending = out.UnprocessedItems
			return retry.RetryableError(fmt.Errorf("[DynamoDB] %d outcomes unprocessed", len(pending[s.table])))
		}
		pending = nil
		return nil
	})
	if err != nil {
		s.buffer.Requeue(pending[s.table])
		slog.Error("[DynamoDB] Some outcomes were not written, kept for the next flush",
			slog.Int("remaining_items", len(pending[s.table])),
			slog.String("error", err.Error()))
		return err
	}

	slog.Info("[DynamoDB] Successfully stored evaluation outcomes", slog.String("table", s.table))
	return nil
}

func (s *OutcomeStore) outcomeToItem(outcome models.ItemOutcome) (map[string]types.AttributeValue, error) {
	item, err := attributevalue.MarshalMap(outcome)
	if err != nil {
		return nil, fmt.Errorf("[DynamoDB] marshal outcome %s: %w", outcome.ContentID, err)
	}

	// TTL for outcomes
	item["expires_at"] = &types.AttributeValueMemberN{
		Value: strconv.FormatInt(s.now().Add(OUTCOME_TTL).Unix(), 10),
	}
	return item, nil
}
