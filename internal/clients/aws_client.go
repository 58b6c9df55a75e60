package clients

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

func GetAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	slog.Info("[AWSClient] Initializing AWS Config...", slog.String("region", region))

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		slog.Error("[AWSClient] Failed to load AWS config")
		return aws.Config{}, fmt.Errorf("[AWSClient] load config: %w", err)
	}

	slog.Info("[AWSClient] AWS Config Initialized")
	return cfg, nil
}

// GetDynamoDBClient returns a DynamoDB client; endpoint overrides the default
// resolver for local DynamoDB.
func GetDynamoDBClient(cfg aws.Config, endpoint string) *dynamodb.Client {
	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
}
