package kafka_client

import (
	"encoding/json"
	"testing"

	"github.com/spacesedan/commentflow/internal/models"
)

func TestNewOutcomeMessage_KeysByContentID(t *testing.T) {
	predicted := 1
	outcome := models.ItemOutcome{
		RunID:          "run-1",
		ContentID:      "vid123",
		Status:         models.OUTCOME_EVALUATED,
		PredictedLabel: &predicted,
	}

	msg, err := NewOutcomeMessage("video-evaluations", outcome)
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if string(msg.Key) != "vid123" {
		t.Fatalf("Key=%q", msg.Key)
	}
	if msg.TopicPartition.Topic == nil || *msg.TopicPartition.Topic != "video-evaluations" {
		t.Fatalf("Topic=%v", msg.TopicPartition.Topic)
	}

	var decoded models.ItemOutcome
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Status != models.OUTCOME_EVALUATED || decoded.PredictedLabel == nil || *decoded.PredictedLabel != 1 {
		t.Fatalf("decoded=%+v", decoded)
	}

	headers := map[string]string{}
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	if headers["run_id"] != "run-1" || headers["status"] != "evaluated" {
		t.Fatalf("Headers=%v", headers)
	}
}

func TestKafkaConfig_DefaultTopic(t *testing.T) {
	if got := (KafkaConfig{}).topic(); got != KAFKA_TOPIC_VIDEO_EVALUATIONS {
		t.Fatalf("topic=%q", got)
	}
	if got := (KafkaConfig{Topic: "custom"}).topic(); got != "custom" {
		t.Fatalf("topic=%q", got)
	}
}
