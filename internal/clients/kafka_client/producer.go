package kafka_client

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/confluentinc/confluent-kafka-go/kafka"
	"github.com/spacesedan/commentflow/internal/models"
)

// OutcomePublisher publishes per-video evaluation outcomes, keyed by content id.
type OutcomePublisher struct {
	producer *kafka.Producer
	topic    string
}

func NewOutcomePublisher(cfg KafkaConfig) (*OutcomePublisher, error) {
	slog.Info("[KafkaClient] Initializing Kafka Producer...",
		slog.String("broker", cfg.Broker),
		slog.String("topic", cfg.topic()))

	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers":  cfg.Broker,
		"enable.idempotence": true,
		"acks":               "all",
	})
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] Failed to create producer: %w", err)
	}

	slog.Info("[KafkaClient] Kafka Producer initialized successfully")
	return &OutcomePublisher{producer: p, topic: cfg.topic()}, nil
}

// NewOutcomeMessage serializes an outcome into a message for topic.
func NewOutcomeMessage(topic string, outcome models.ItemOutcome) (*kafka.Message, error) {
	jsonData, err := json.Marshal(outcome)
	if err != nil {
		return nil, fmt.Errorf("[KafkaClient] marshal outcome: %w", err)
	}

	return &kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Key:            []byte(outcome.ContentID),
		Value:          jsonData,
		Headers: []kafka.Header{
			{Key: "run_id", Value: []byte(outcome.RunID)},
			{Key: "status", Value: []byte(outcome.Status)},
		},
	}, nil
}

// Record publishes one outcome and waits for its delivery report.
func (op *OutcomePublisher) Record(ctx context.Context, outcome models.ItemOutcome) error {
	msg, err := NewOutcomeMessage(op.topic, outcome)
	if err != nil {
		return err
	}

	deliveryChan := make(chan kafka.Event, 1)
	for i := 0; i < MAX_RETRIES; i++ {
		err = op.producer.Produce(msg, deliveryChan)
		if err == nil {
			break
		}
		slog.Warn("[KafkaClient] Failed to produce message, retrying...",
			slog.Int("attempt", i+1),
			slog.String("error", err.Error()))
		time.Sleep(RETRY_DELAY)
	}
	if err != nil {
		return fmt.Errorf("[KafkaClient] produce failed after %d attempts: %w", MAX_RETRIES, err)
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(DELIVERY_WAIT):
		return fmt.Errorf("[KafkaClient] delivery report timed out for %s", outcome.ContentID)
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("[KafkaClient] unexpected delivery event: %v", e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("[KafkaClient] delivery failed: %w", m.TopicPartition.Error)
		}
	}

	slog.Debug("[KafkaClient] Published evaluation outcome",
		slog.String("topic", op.topic),
		slog.String("content_id", outcome.ContentID))
	return nil
}

func (op *OutcomePublisher) Flush(ctx context.Context) error {
	if remaining := op.producer.Flush(int(FLUSH_TIMEOUT.Milliseconds())); remaining > 0 {
		slog.Warn("[KafkaClient] Not all messages were delivered before flush timeout",
			slog.Int("remaining", remaining))
		return fmt.Errorf("[KafkaClient] %d messages undelivered", remaining)
	}
	return nil
}

func (op *OutcomePublisher) Close() {
	slog.Info("[KafkaClient] Shutting down Kafka producer...")
	if op.producer != nil {
		_ = op.Flush(context.Background())
		op.producer.Close()
		slog.Info("[KafkaClient] Kafka producer shut down")
	}
}
