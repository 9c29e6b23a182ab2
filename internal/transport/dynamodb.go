package transport

import (
	"context"
	"log"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/eventbook/api/internal/helpers"
	internal_types "github.com/eventbook/api/internal/types"
)

var (
	db     internal_types.DynamoDBAPI
	once   sync.Once
	testDB internal_types.DynamoDBAPI
)

// CreateDbClient builds the process-wide DynamoDB client. When
// DYNAMODB_ENDPOINT is set (local container) it points the client there with
// static credentials; otherwise the default AWS resolution chain applies.
func CreateDbClient() internal_types.DynamoDBAPI {
	ctx := context.TODO()

	if helpers.IsRemoteDB() {
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			log.Fatalf("ERR: loading DynamoDB client config: %v", err)
		}
		return dynamodb.NewFromConfig(cfg)
	}

	endpoint := os.Getenv("DYNAMODB_ENDPOINT")
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.StaticCredentialsProvider{
			Value: aws.Credentials{
				AccessKeyID: "test", SecretAccessKey: "test", SessionToken: "test",
				Source: "Hard-coded credentials; values are irrelevant for local dynamo",
			},
		}),
	)
	if err != nil {
		log.Fatalf("ERR: loading local DynamoDB client config: %v", err)
	}

	return dynamodb.NewFromConfig(cfg, func(o *dynamodb.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})
}

// SetTestDB swaps in a mock client; only honored when GO_ENV=test.
func SetTestDB(mock internal_types.DynamoDBAPI) {
	testDB = mock
}

// GetDB returns the shared store client, creating it on first use.
func GetDB() internal_types.DynamoDBAPI {
	if os.Getenv("GO_ENV") == "test" {
		return testDB
	}
	once.Do(func() {
		db = CreateDbClient()
	})
	return db
}
