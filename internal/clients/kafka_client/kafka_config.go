package kafka_client

type KafkaConfig struct {
	Broker string
	Topic  string
}

func (c KafkaConfig) topic() string {
	if c.Topic == "" {
		return KAFKA_TOPIC_VIDEO_EVALUATIONS
	}
	return c.Topic
}
