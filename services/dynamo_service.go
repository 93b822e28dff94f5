package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// ErrItemNotFound is returned by GetItem when the key has no item.
var ErrItemNotFound = errors.New("item not found")

// DynamoAPI is the subset of *dynamodb.Client the services use.
type DynamoAPI interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

type DynamoService struct {
	Client DynamoAPI
}

// LoadAWSConfig loads the default AWS configuration for region
func LoadAWSConfig(ctx context.Context, region string) (aws.Config, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewDynamoService builds a DynamoService from an AWS config
func NewDynamoService(cfg aws.Config) *DynamoService {
	return &DynamoService{Client: dynamodb.NewFromConfig(cfg)}
}

// GetItem retrieves an item from DynamoDB
func (ds *DynamoService) GetItem(ctx context.Context, tableName string, key map[string]types.AttributeValue) (map[string]types.AttributeValue, error) {
	output, err := ds.Client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(tableName),
		Key:            key,
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get item from table '%s': %w", tableName, err)
	}

	if output.Item == nil {
		return nil, ErrItemNotFound
	}

	return output.Item, nil
}

// UpdateInput describes one UpdateItem call.
type UpdateInput struct {
	Key                       map[string]types.AttributeValue
	UpdateExpression          string
	ConditionExpression       string
	ExpressionAttributeValues map[string]types.AttributeValue
	ExpressionAttributeNames  map[string]string
}

// UpdateItem applies an update expression, optionally guarded by a condition.
// A failed condition is returned as *types.ConditionalCheckFailedException.
func (ds *DynamoService) UpdateItem(ctx context.Context, tableName string, in UpdateInput) error {
	if len(in.Key) == 0 {
		return errors.New("update failed: key cannot be empty")
	}
	if in.UpdateExpression == "" {
		return errors.New("update failed: updateExpression cannot be empty")
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(tableName),
		Key:                       in.Key,
		UpdateExpression:          aws.String(in.UpdateExpression),
		ExpressionAttributeValues: in.ExpressionAttributeValues,
		ReturnValues:              types.ReturnValueNone,
	}
	if len(in.ExpressionAttributeNames) > 0 {
		input.ExpressionAttributeNames = in.ExpressionAttributeNames
	}
	if in.ConditionExpression != "" {
		input.ConditionExpression = aws.String(in.ConditionExpression)
	}

	if _, err := ds.Client.UpdateItem(ctx, input); err != nil {
		return fmt.Errorf("failed to update item in table '%s': %w", tableName, err)
	}
	return nil
}

// IsConditionFailed reports whether err came from a failed ConditionExpression.
func IsConditionFailed(err error) bool {
	var ccf *types.ConditionalCheckFailedException
	return errors.As(err, &ccf)
}

// QueryItemsWithIndex queries items from DynamoDB using a Global Secondary Index (GSI)
func (ds *DynamoService) QueryItemsWithIndex(
	ctx context.Context,
	tableName string,
	indexName string,
	keyConditionExpression string,
	expressionAttributeValues map[string]types.AttributeValue,
	limit int32,
) ([]map[string]types.AttributeValue, error) {
	output, err := ds.Client.Query(ctx, &dynamodb.QueryInput{
		TableName:                 aws.String(tableName),
		IndexName:                 aws.String(indexName),
		KeyConditionExpression:    aws.String(keyConditionExpression),
		ExpressionAttributeValues: expressionAttributeValues,
		Limit:                     aws.Int32(limit),
	})
	if err != nil {
		log.Printf("❌ Error querying GSI %s: %v", indexName, err)
		return nil, fmt.Errorf("failed to query GSI '%s': %w", indexName, err)
	}
	return output.Items, nil
}

// ScanWithFilter scans tableName page by page with a FilterExpression, passing
// every returned item through keep, until maxItems items are kept or the table
// is exhausted.
func (ds *DynamoService) ScanWithFilter(
	ctx context.Context,
	tableName string,
	filterExpression string,
	expressionAttributeNames map[string]string,
	expressionAttributeValues map[string]types.AttributeValue,
	keep func(map[string]types.AttributeValue) bool,
	maxItems int,
) ([]map[string]types.AttributeValue, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(tableName),
	}
	if filterExpression != "" {
		input.FilterExpression = aws.String(filterExpression)
		input.ExpressionAttributeNames = expressionAttributeNames
		input.ExpressionAttributeValues = expressionAttributeValues
	}

	var kept []map[string]types.AttributeValue
	for {
		output, err := ds.Client.Scan(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("failed to scan table '%s': %w", tableName, err)
		}
		for _, item := range output.Items {
			if keep == nil || keep(item) {
				kept = append(kept, item)
				if maxItems > 0 && len(kept) >= maxItems {
					return kept, nil
				}
			}
		}
		if len(output.LastEvaluatedKey) == 0 {
			return kept, nil
		}
		input.ExclusiveStartKey = output.LastEvaluatedKey
	}
}
