package registrations

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"

	"github.com/jornageo/registration/internal/models"
)

// DynamoAPI is the subset of the DynamoDB client the store uses.
type DynamoAPI interface {
	GetItem(ctx context.Context, in *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, in *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Scan(ctx context.Context, in *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
}

// DynamoStore keeps registrations in a DynamoDB table whose hash key is "email".
type DynamoStore struct {
	client DynamoAPI
	table  string
}

// NewDynamoStore creates a DynamoDB-backed store for table.
func NewDynamoStore(client DynamoAPI, table string) *DynamoStore {
	return &DynamoStore{client: client, table: table}
}

// Put overwrites any existing item with the same email.
func (s *DynamoStore) Put(ctx context.Context, reg *models.Registration) error {
	item, err := attributevalue.MarshalMap(reg)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	if err != nil {
		return fmt.Errorf("put item: %w", err)
	}
	return nil
}

// PutIfAbsent writes with attribute_not_exists(email), closing the check-then-write race.
func (s *DynamoStore) PutIfAbsent(ctx context.Context, reg *models.Registration) error {
	item, err := attributevalue.MarshalMap(reg)
	if err != nil {
		return fmt.Errorf("marshal registration: %w", err)
	}
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(s.table),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(email)"),
	})
	if err != nil {
		var ccf *types.ConditionalCheckFailedException
		if errors.As(err, &ccf) {
			return ErrDuplicate
		}
		return fmt.Errorf("conditional put item: %w", err)
	}
	return nil
}

// Get reads the item keyed by email with a consistent read.
func (s *DynamoStore) Get(ctx context.Context, email string) (*models.Registration, error) {
	out, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.table),
		Key:            map[string]types.AttributeValue{"email": &types.AttributeValueMemberS{Value: email}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, fmt.Errorf("get item: %w", err)
	}
	if len(out.Item) == 0 {
		return nil, nil
	}
	var reg models.Registration
	if err := attributevalue.UnmarshalMap(out.Item, &reg); err != nil {
		return nil, fmt.Errorf("unmarshal registration: %w", err)
	}
	return &reg, nil
}

// Scan walks every page of the table with strongly consistent reads and returns all items.
func (s *DynamoStore) Scan(ctx context.Context) ([]models.Registration, error) {
	p := dynamodb.NewScanPaginator(s.client, &dynamodb.ScanInput{
		TableName:      aws.String(s.table),
		ConsistentRead: aws.Bool(true),
	})
	list := make([]models.Registration, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		var regs []models.Registration
		if err := attributevalue.UnmarshalListOfMaps(page.Items, &regs); err != nil {
			return nil, fmt.Errorf("unmarshal scan page: %w", err)
		}
		list = append(list, regs...)
	}
	return list, nil
}
