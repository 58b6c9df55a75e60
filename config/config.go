package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

var ErrMissingAPIKey = errors.New("youtube api key is not configured")

// APIKeySource records where the YouTube API key was resolved from.
type APIKeySource string

const (
	APIKeySourceExplicit    APIKeySource = "explicit"
	APIKeySourceEnvironment APIKeySource = "environment"
	APIKeySourceSecretFile  APIKeySource = "secret_file"
)

type YouTubeConfig struct {
	APIKey       string
	APIKeySource APIKeySource
	OAuthToken   string
	BaseURL      string
	Timeout      time.Duration
}

type ClassifierConfig struct {
	Backend          string
	HugotModel       string
	HugotModelDir    string
	HFAnalyzeURL     string
	HFHealthURL      string
	OpenAIAPIKey     string
	OpenAIModel      string
	HealthCheckRetry int
}

type ValkeyConfig struct {
	Address  string
	Password string
	TLS      bool
	TTL      time.Duration
}

type DynamoDBConfig struct {
	Table    string
	Endpoint string
	Region   string
}

type KafkaConfig struct {
	Broker string
	Topic  string
}

// Config is the resolved runtime configuration for the pipeline. Optional
// integrations are disabled when their address/table/broker is empty.
type Config struct {
	Env           string
	LogLevel      string
	SummaryPolicy string
	YouTube       YouTubeConfig
	Classifier    ClassifierConfig
	Valkey        ValkeyConfig
	DynamoDB      DynamoDBConfig
	Kafka         KafkaConfig
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

// Load builds a Config from the process environment. LoadEnv should run first
// so values from the env file are visible.
func Load() Config {
	timeout := time.Duration(getEnvInt("HTTP_TIMEOUT_SECONDS", 30)) * time.Second

	return Config{
		Env:           AppEnv(),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		SummaryPolicy: getEnv("SUMMARY_POLICY", "signed"),
		YouTube: YouTubeConfig{
			OAuthToken: os.Getenv("YOUTUBE_OAUTH_TOKEN"),
			BaseURL:    getEnv("YOUTUBE_API_URL", "https://www.googleapis.com/youtube/v3"),
			Timeout:    timeout,
		},
		Classifier: ClassifierConfig{
			Backend:          getEnv("SENTIMENT_BACKEND", "vader"),
			HugotModel:       getEnv("HUGOT_MODEL", "KnightsAnalytics/distilbert-base-uncased-finetuned-sst-2-english"),
			HugotModelDir:    getEnv("HUGOT_MODEL_DIR", "./models"),
			HFAnalyzeURL:     getEnv("HF_ANALYZE_ENDPOINT", "https://spacesedan-sentiment-analyzer.hf.space/analyze_batch"),
			HFHealthURL:      getEnv("HF_HEALTH_ENDPOINT", "https://spacesedan-sentiment-analyzer.hf.space/health"),
			OpenAIAPIKey:     os.Getenv("OPENAI_API_KEY"),
			OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			HealthCheckRetry: getEnvInt("HEALTHCHECK_ATTEMPTS", 3),
		},
		Valkey: ValkeyConfig{
			Address:  os.Getenv("VALKEY_INIT_ADDRESS"),
			Password: os.Getenv("VALKEY_PASSWORD"),
			TLS:      os.Getenv("VALKEY_TLS") == "true",
			TTL:      time.Duration(getEnvInt("COMMENT_CACHE_TTL_SECONDS", 86400)) * time.Second,
		},
		DynamoDB: DynamoDBConfig{
			Table:    os.Getenv("DYNAMODB_TABLE"),
			Endpoint: os.Getenv("AWS_ENDPOINT"),
			Region:   getEnv("AWS_REGION", "us-west-2"),
		},
		Kafka: KafkaConfig{
			Broker: os.Getenv("KAFKA_BROKER"),
			Topic:  getEnv("KAFKA_EVALUATION_TOPIC", "video-evaluations"),
		},
	}
}

// ResolveAPIKey picks the YouTube API key from, in order, the explicit value,
// YOUTUBE_API_KEY, and the secret file named by YOUTUBE_API_KEY_FILE.
func ResolveAPIKey(explicit string) (string, APIKeySource, error) {
	if key := strings.TrimSpace(explicit); key != "" {
		return key, APIKeySourceExplicit, nil
	}

	if key := strings.TrimSpace(os.Getenv("YOUTUBE_API_KEY")); key != "" {
		return key, APIKeySourceEnvironment, nil
	}

	if path := os.Getenv("YOUTUBE_API_KEY_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", "", fmt.Errorf("read api key secret file: %w", err)
		}
		if key := strings.TrimSpace(string(data)); key != "" {
			return key, APIKeySourceSecretFile, nil
		}
	}

	return "", "", ErrMissingAPIKey
}
