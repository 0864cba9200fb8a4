package registrations

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/require"

	"github.com/jornageo/registration/internal/models"
)

// fakeDynamo keeps items in memory and serves scans in pages of pageSize.
type fakeDynamo struct {
	items    map[string]map[string]types.AttributeValue
	order    []string
	pageSize int
	err      error

	lastPut *dynamodb.PutItemInput
	lastGet  *dynamodb.GetItemInput
	lastScan *dynamodb.ScanInput
	scans    int
}

func newFakeDynamo(pageSize int) *fakeDynamo {
	return &fakeDynamo{items: map[string]map[string]types.AttributeValue{}, pageSize: pageSize}
}

func emailOf(item map[string]types.AttributeValue) string {
	if s, ok := item["email"].(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func (f *fakeDynamo) GetItem(_ context.Context, in *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	f.lastGet = in
	if f.err != nil {
		return nil, f.err
	}
	return &dynamodb.GetItemOutput{Item: f.items[emailOf(in.Key)]}, nil
}

func (f *fakeDynamo) PutItem(_ context.Context, in *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	f.lastPut = in
	if f.err != nil {
		return nil, f.err
	}
	key := emailOf(in.Item)
	_, exists := f.items[key]
	if in.ConditionExpression != nil && exists {
		return nil, &types.ConditionalCheckFailedException{Message: aws.String("The conditional request failed")}
	}
	if !exists {
		f.order = append(f.order, key)
	}
	f.items[key] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) Scan(_ context.Context, in *dynamodb.ScanInput, _ ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
	f.scans++
	f.lastScan = in
	if f.err != nil {
		return nil, f.err
	}
	start := 0
	if in.ExclusiveStartKey != nil {
		last := emailOf(in.ExclusiveStartKey)
		for i, k := range f.order {
			if k == last {
				start = i + 1
			}
		}
	}
	end := start + f.pageSize
	if end > len(f.order) {
		end = len(f.order)
	}
	out := &dynamodb.ScanOutput{}
	for _, k := range f.order[start:end] {
		out.Items = append(out.Items, f.items[k])
	}
	if end < len(f.order) {
		out.LastEvaluatedKey = map[string]types.AttributeValue{"email": &types.AttributeValueMemberS{Value: f.order[end-1]}}
	}
	return out, nil
}

func sampleRegistration(email string) *models.Registration {
	return &models.Registration{
		Email:          email,
		RegistrationID: "id-" + email,
		Name:           "Ana",
		HandsOn:        true,
		Timestamp:      "2026-10-15T12:30:00.000000Z",
		CreatedAt:      "2026-10-15T12:30:00.000000Z",
		Status:         models.StatusConfirmed,
	}
}

func TestDynamoStore_PutAndGet(t *testing.T) {
	fake := newFakeDynamo(10)
	store := NewDynamoStore(fake, "jornageo-registrations")
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, sampleRegistration("ana@example.com")))
	require.Equal(t, "jornageo-registrations", aws.ToString(fake.lastPut.TableName))
	require.Nil(t, fake.lastPut.ConditionExpression)

	var stored models.Registration
	require.NoError(t, attributevalue.UnmarshalMap(fake.lastPut.Item, &stored))
	require.Equal(t, *sampleRegistration("ana@example.com"), stored)

	got, err := store.Get(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, sampleRegistration("ana@example.com"), got)
	require.True(t, aws.ToBool(fake.lastGet.ConsistentRead))

	missing, err := store.Get(ctx, "nobody@example.com")
	require.NoError(t, err)
	require.Nil(t, missing)
}

// TestDynamoStore_PutOverwrites verifies plain Put is last-write-wins.
func TestDynamoStore_PutOverwrites(t *testing.T) {
	fake := newFakeDynamo(10)
	store := NewDynamoStore(fake, "t")
	ctx := context.Background()

	first := sampleRegistration("ana@example.com")
	second := sampleRegistration("ana@example.com")
	second.RegistrationID = "second"
	require.NoError(t, store.Put(ctx, first))
	require.NoError(t, store.Put(ctx, second))

	got, err := store.Get(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, "second", got.RegistrationID)
}

// TestDynamoStore_PutIfAbsent verifies the conditional write maps a failed condition to ErrDuplicate.
func TestDynamoStore_PutIfAbsent(t *testing.T) {
	fake := newFakeDynamo(10)
	store := NewDynamoStore(fake, "t")
	ctx := context.Background()

	require.NoError(t, store.PutIfAbsent(ctx, sampleRegistration("ana@example.com")))
	require.Equal(t, "attribute_not_exists(email)", aws.ToString(fake.lastPut.ConditionExpression))

	dup := sampleRegistration("ana@example.com")
	dup.RegistrationID = "other"
	require.ErrorIs(t, store.PutIfAbsent(ctx, dup), ErrDuplicate)

	got, err := store.Get(ctx, "ana@example.com")
	require.NoError(t, err)
	require.Equal(t, "id-ana@example.com", got.RegistrationID)
}

// TestDynamoStore_ScanDrainsAllPages verifies the caller gets one complete result set.
func TestDynamoStore_ScanDrainsAllPages(t *testing.T) {
	fake := newFakeDynamo(2)
	store := NewDynamoStore(fake, "t")
	ctx := context.Background()

	emails := []string{"a@x.com", "b@x.com", "c@x.com", "d@x.com", "e@x.com"}
	for _, e := range emails {
		require.NoError(t, store.Put(ctx, sampleRegistration(e)))
	}

	list, err := store.Scan(ctx)
	require.NoError(t, err)
	require.Len(t, list, len(emails))
	require.Equal(t, 3, fake.scans)
	require.True(t, aws.ToBool(fake.lastScan.ConsistentRead), "a listing right after a write must include it")

	var got []string
	for _, r := range list {
		got = append(got, r.Email)
	}
	require.ElementsMatch(t, emails, got)
}

func TestDynamoStore_EmptyScanIsNotNil(t *testing.T) {
	list, err := NewDynamoStore(newFakeDynamo(2), "t").Scan(context.Background())
	require.NoError(t, err)
	require.NotNil(t, list)
	require.Empty(t, list)
}

func TestDynamoStore_Errors(t *testing.T) {
	fake := newFakeDynamo(2)
	fake.err = errors.New("throttled")
	store := NewDynamoStore(fake, "t")
	ctx := context.Background()

	require.ErrorContains(t, store.Put(ctx, sampleRegistration("a@x.com")), "throttled")
	err := store.PutIfAbsent(ctx, sampleRegistration("a@x.com"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrDuplicate)
	_, err = store.Get(ctx, "a@x.com")
	require.Error(t, err)
	_, err = store.Scan(ctx)
	require.Error(t, err)
}
