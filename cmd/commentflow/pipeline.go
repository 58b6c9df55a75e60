package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spacesedan/commentflow/config"
	"github.com/spacesedan/commentflow/internal/clients"
	"github.com/spacesedan/commentflow/internal/clients/kafka_client"
	"github.com/spacesedan/commentflow/internal/comments"
	"github.com/spacesedan/commentflow/internal/db"
	"github.com/spacesedan/commentflow/internal/evaluation"
	"github.com/spacesedan/commentflow/internal/monitoring"
	"github.com/spacesedan/commentflow/internal/sentiment"
)

const (
	BACKEND_VADER       = "vader"
	BACKEND_HUGOT       = "hugot"
	BACKEND_HUGGINGFACE = "huggingface"
	BACKEND_OPENAI      = "openai"
)

var errUnknownBackend = errors.New("unknown sentiment backend")

// pipeline holds the components shared by analyze and evaluate. close
// releases everything that was opened.
type pipeline struct {
	source     comments.CommentSource
	scorer     *sentiment.Scorer
	summarizer *sentiment.Summarizer
	sinks      []evaluation.OutcomeSink
	closers    []func()
}

func (p *pipeline) close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		p.closers[i]()
	}
}

func buildPipeline(ctx context.Context, cfg *config.Config, apiKeyFlag string, withSinks bool) (*pipeline, error) {
	policy, err := sentiment.ParseSummaryPolicy(cfg.SummaryPolicy)
	if err != nil {
		return nil, err
	}

	p := &pipeline{summarizer: sentiment.NewSummarizer(policy)}

	source, err := buildCommentSource(cfg, apiKeyFlag, p)
	if err != nil {
		p.close()
		return nil, err
	}
	p.source = source

	classifier, err := buildClassifier(ctx, cfg, p)
	if err != nil {
		p.close()
		return nil, err
	}
	p.scorer = sentiment.NewScorer(classifier, cfg.Classifier.Backend)

	if withSinks {
		if err := buildSinks(ctx, cfg, p); err != nil {
			p.close()
			return nil, err
		}
	}

	slog.Info("[Pipeline] Components ready",
		slog.String("backend", cfg.Classifier.Backend),
		slog.String("policy", string(policy)),
		slog.Int("sinks", len(p.sinks)))
	return p, nil
}

func buildCommentSource(cfg *config.Config, apiKeyFlag string, p *pipeline) (comments.CommentSource, error) {
	if err := resolveYouTubeAuth(cfg, apiKeyFlag); err != nil {
		return nil, err
	}

	youtube := clients.NewYouTubeClient(clients.YouTubeClientOptions{
		APIKey:     cfg.YouTube.APIKey,
		OAuthToken: cfg.YouTube.OAuthToken,
		BaseURL:    cfg.YouTube.BaseURL,
		Timeout:    cfg.YouTube.Timeout,
	})
	var source comments.CommentSource = comments.NewFetcher(youtube)

	if cfg.Valkey.Address == "" {
		return source, nil
	}
	cache, err := clients.NewValkeyClient(cfg.Valkey.Address, cfg.Valkey.Password, cfg.Valkey.TLS, cfg.Valkey.TTL)
	if err != nil {
		slog.Warn("[Pipeline] Comment cache unavailable, fetching directly",
			slog.String("error", err.Error()))
		return source, nil
	}
	p.closers = append(p.closers, cache.Close)
	return comments.NewCachedFetcher(source, cache), nil
}

// resolveYouTubeAuth fills the API key into cfg. With an OAuth token
// configured a missing or unreadable key is not fatal.
func resolveYouTubeAuth(cfg *config.Config, apiKeyFlag string) error {
	apiKey, keySource, err := config.ResolveAPIKey(apiKeyFlag)
	if err != nil {
		if cfg.YouTube.OAuthToken == "" {
			return err
		}
		if !errors.Is(err, config.ErrMissingAPIKey) {
			slog.Warn("[Config] Ignoring API key error, using OAuth token",
				slog.String("error", err.Error()))
		}
		return nil
	}

	cfg.YouTube.APIKey = apiKey
	cfg.YouTube.APIKeySource = keySource
	slog.Info("[Config] Resolved YouTube API key", slog.String("source", string(keySource)))
	return nil
}

func buildClassifier(ctx context.Context, cfg *config.Config, p *pipeline) (sentiment.Classifier, error) {
	cc := cfg.Classifier
	switch strings.ToLower(cc.Backend) {
	case BACKEND_VADER:
		return sentiment.NewVaderClassifier(), nil
	case BACKEND_HUGOT:
		h, err := sentiment.NewHugotClassifier(cc.HugotModel, cc.HugotModelDir)
		if err != nil {
			return nil, err
		}
		p.closers = append(p.closers, func() {
			if err := h.Close(); err != nil {
				slog.Warn("[Pipeline] Failed to close hugot session", slog.String("error", err.Error()))
			}
		})
		return h, nil
	case BACKEND_HUGGINGFACE:
		client := clients.NewHuggingFaceClient(cc.HFAnalyzeURL, cc.HFHealthURL, cfg.YouTube.Timeout)
		if err := monitoring.CheckClassifierHealth(ctx, client, cc.HealthCheckRetry, monitoring.HEALTHCHECK_INTERVAL); err != nil {
			return nil, err
		}
		return sentiment.NewHuggingFaceClassifier(client), nil
	case BACKEND_OPENAI:
		if cc.OpenAIAPIKey == "" {
			return nil, errors.New("OPENAI_API_KEY is required for the openai backend")
		}
		client := clients.NewOpenAIClient(cc.OpenAIAPIKey, cc.OpenAIModel, "")
		return sentiment.NewOpenAIClassifier(client.Client, client.Model), nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnknownBackend, cc.Backend)
	}
}

func buildSinks(ctx context.Context, cfg *config.Config, p *pipeline) error {
	if cfg.DynamoDB.Table != "" {
		awsCfg, err := clients.GetAWSConfig(ctx, cfg.DynamoDB.Region)
		if err != nil {
			return err
		}
		dynamo := clients.GetDynamoDBClient(awsCfg, cfg.DynamoDB.Endpoint)
		p.sinks = append(p.sinks, db.NewOutcomeStore(dynamo, cfg.DynamoDB.Table))
	}

	if cfg.Kafka.Broker != "" {
		publisher, err := kafka_client.NewOutcomePublisher(kafka_client.KafkaConfig{
			Broker: cfg.Kafka.Broker,
			Topic:  cfg.Kafka.Topic,
		})
		if err != nil {
			return err
		}
		p.closers = append(p.closers, publisher.Close)
		p.sinks = append(p.sinks, publisher)
	}
	return nil
}
