// internal/common/aws/dynamodb.go
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
)

type DynamoDBClient struct {
	client *dynamodb.Client
}

// NewDynamoDBClient creates a DynamoDB client. An optional endpoint overrides
// the resolved one for local stacks.
func NewDynamoDBClient(ctx context.Context, region, endpoint string) (*DynamoDBClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}

	var optFns []func(*dynamodb.Options)
	if endpoint != "" {
		optFns = append(optFns, func(o *dynamodb.Options) {
			o.BaseEndpoint = aws.String(endpoint)
		})
	}

	return &DynamoDBClient{client: dynamodb.NewFromConfig(cfg, optFns...)}, nil
}

func (d *DynamoDBClient) BatchGetItem(ctx context.Context, input *dynamodb.BatchGetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchGetItemOutput, error) {
	return d.client.BatchGetItem(ctx, input, optFns...)
}

func (d *DynamoDBClient) BatchWriteItem(ctx context.Context, input *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	return d.client.BatchWriteItem(ctx, input, optFns...)
}
