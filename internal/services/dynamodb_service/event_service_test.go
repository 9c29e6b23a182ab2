package dynamodb_service

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodb_types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventbook/api/internal/test_helpers"
	internal_types "github.com/eventbook/api/internal/types"
)

func validInsert() internal_types.EventInsert {
	return internal_types.EventInsert{
		EventID:   101,
		EventName: "Annual Gala",
		Client:    "Acme Corp",
		Type:      "corporate",
		Venue:     "Grand Ballroom",
		Month:     5,
		Day:       20,
		Year:      2026,
		StartTime: "18:00",
		Pax:       150,
	}
}

func marshalEvent(t *testing.T, event internal_types.Event) map[string]dynamodb_types.AttributeValue {
	t.Helper()
	item, err := attributevalue.MarshalMap(&event)
	require.NoError(t, err)
	return item
}

func TestInsertEvent(t *testing.T) {
	var captured *dynamodb.PutItemInput
	mockDB := &test_helpers.MockDynamoDBClient{
		PutItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			captured = params
			return &dynamodb.PutItemOutput{}, nil
		},
	}

	service := NewEventService()
	res, err := service.InsertEvent(context.Background(), mockDB, validInsert())
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, 101, res.EventID)
	assert.False(t, res.CreatedAt.IsZero(), "createdAt must be assigned on insert")
	assert.Equal(t, res.CreatedAt, res.UpdatedAt)

	require.NotNil(t, captured)
	require.NotNil(t, captured.ConditionExpression)
	assert.Contains(t, *captured.ConditionExpression, "attribute_not_exists")
	assert.Contains(t, captured.ExpressionAttributeNames, "#0")
	assert.Equal(t, "eventId", captured.ExpressionAttributeNames["#0"])
}

func TestInsertEventDuplicateID(t *testing.T) {
	mockDB := &test_helpers.MockDynamoDBClient{
		PutItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			return nil, &dynamodb_types.ConditionalCheckFailedException{}
		},
	}

	service := NewEventService()
	res, err := service.InsertEvent(context.Background(), mockDB, validInsert())
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrEventIDExists)
}

func TestInsertEventValidation(t *testing.T) {
	called := false
	mockDB := &test_helpers.MockDynamoDBClient{
		PutItemFunc: func(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
			called = true
			return &dynamodb.PutItemOutput{}, nil
		},
	}

	insert := validInsert()
	insert.Venue = ""

	service := NewEventService()
	res, err := service.InsertEvent(context.Background(), mockDB, insert)
	assert.Nil(t, res)
	assert.Error(t, err)
	assert.False(t, called, "store must not be hit when validation fails")
}

func TestGetEventByID(t *testing.T) {
	stored := internal_types.Event{EventID: 101, Client: "Acme Corp", Venue: "Grand Ballroom"}
	mockDB := &test_helpers.MockDynamoDBClient{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			key, ok := params.Key["eventId"].(*dynamodb_types.AttributeValueMemberN)
			require.True(t, ok)
			assert.Equal(t, "101", key.Value)
			return &dynamodb.GetItemOutput{Item: marshalEvent(t, stored)}, nil
		},
	}

	service := NewEventService()
	res, err := service.GetEventByID(context.Background(), mockDB, 101)
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "Acme Corp", res.Client)
}

func TestGetEventByIDNotFound(t *testing.T) {
	mockDB := &test_helpers.MockDynamoDBClient{
		GetItemFunc: func(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
			return &dynamodb.GetItemOutput{}, nil
		},
	}

	service := NewEventService()
	res, err := service.GetEventByID(context.Background(), mockDB, 999)
	require.NoError(t, err)
	assert.Nil(t, res)
}

func TestListEventsSortedByDate(t *testing.T) {
	items := []map[string]dynamodb_types.AttributeValue{
		marshalEvent(t, internal_types.Event{EventID: 1, Year: 2026, Month: 1, Day: 10, StartTime: "10:00"}),
		marshalEvent(t, internal_types.Event{EventID: 2, Year: 2025, Month: 5, Day: 1, StartTime: "14:00"}),
		marshalEvent(t, internal_types.Event{EventID: 3, Year: 2025, Month: 5, Day: 1, StartTime: "8:00 AM"}),
	}
	mockDB := &test_helpers.MockDynamoDBClient{
		ScanFunc: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			return &dynamodb.ScanOutput{Items: items}, nil
		},
	}

	service := NewEventService()
	events, err := service.ListEvents(context.Background(), mockDB)
	require.NoError(t, err)
	require.Len(t, events, 3)

	assert.Equal(t, 3, events[0].EventID, "earlier clock time on the same day sorts first")
	assert.Equal(t, 2, events[1].EventID)
	assert.Equal(t, 1, events[2].EventID)
}

func TestListEventsPaginates(t *testing.T) {
	page1 := []map[string]dynamodb_types.AttributeValue{
		marshalEvent(t, internal_types.Event{EventID: 1, Year: 2025, Month: 1, Day: 1, StartTime: "09:00"}),
	}
	page2 := []map[string]dynamodb_types.AttributeValue{
		marshalEvent(t, internal_types.Event{EventID: 2, Year: 2025, Month: 1, Day: 2, StartTime: "09:00"}),
	}

	calls := 0
	mockDB := &test_helpers.MockDynamoDBClient{
		ScanFunc: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			calls++
			if calls == 1 {
				return &dynamodb.ScanOutput{
					Items:            page1,
					LastEvaluatedKey: map[string]dynamodb_types.AttributeValue{"eventId": &dynamodb_types.AttributeValueMemberN{Value: "1"}},
				}, nil
			}
			assert.NotNil(t, params.ExclusiveStartKey)
			return &dynamodb.ScanOutput{Items: page2}, nil
		},
	}

	service := NewEventService()
	events, err := service.ListEvents(context.Background(), mockDB)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, 2, calls)
}

func TestGetEventsByMonthBuildsFilter(t *testing.T) {
	mockDB := &test_helpers.MockDynamoDBClient{
		ScanFunc: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			require.NotNil(t, params.FilterExpression)
			assert.Contains(t, params.ExpressionAttributeNames, "#0")
			assert.Equal(t, "month", params.ExpressionAttributeNames["#0"])
			return &dynamodb.ScanOutput{
				Items: []map[string]dynamodb_types.AttributeValue{
					marshalEvent(t, internal_types.Event{EventID: 5, Month: 6}),
				},
			}, nil
		},
	}

	service := NewEventService()
	events, err := service.GetEventsByMonth(context.Background(), mockDB, 6)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 6, events[0].Month)
}

func TestGetEventsByClientBuildsFilter(t *testing.T) {
	mockDB := &test_helpers.MockDynamoDBClient{
		ScanFunc: func(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error) {
			require.NotNil(t, params.FilterExpression)
			assert.Equal(t, "client", params.ExpressionAttributeNames["#0"])
			return &dynamodb.ScanOutput{}, nil
		},
	}

	service := NewEventService()
	events, err := service.GetEventsByClient(context.Background(), mockDB, "Acme Corp")
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestUpdateEventOnlySetsProvidedFields(t *testing.T) {
	venue := "New Hall"
	updated := internal_types.Event{EventID: 101, Venue: venue}

	mockDB := &test_helpers.MockDynamoDBClient{
		UpdateItemFunc: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			names := make([]string, 0, len(params.ExpressionAttributeNames))
			for _, name := range params.ExpressionAttributeNames {
				names = append(names, name)
			}
			assert.Contains(t, names, "venue")
			assert.Contains(t, names, "updatedAt")
			assert.NotContains(t, names, "client")
			assert.NotContains(t, names, "pax")
			return &dynamodb.UpdateItemOutput{Attributes: marshalEvent(t, updated)}, nil
		},
	}

	service := NewEventService()
	res, err := service.UpdateEvent(context.Background(), mockDB, 101, internal_types.EventUpdate{Venue: &venue})
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "New Hall", res.Venue)
}

func TestUpdateEventNotFound(t *testing.T) {
	mockDB := &test_helpers.MockDynamoDBClient{
		UpdateItemFunc: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			return nil, &dynamodb_types.ConditionalCheckFailedException{}
		},
	}

	venue := "New Hall"
	service := NewEventService()
	res, err := service.UpdateEvent(context.Background(), mockDB, 999, internal_types.EventUpdate{Venue: &venue})
	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestReplaceEventKeepsKeyOutOfUpdate(t *testing.T) {
	replaced := internal_types.Event{EventID: 101, Client: "Acme Corp"}

	mockDB := &test_helpers.MockDynamoDBClient{
		UpdateItemFunc: func(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
			key, ok := params.Key["eventId"].(*dynamodb_types.AttributeValueMemberN)
			require.True(t, ok)
			assert.Equal(t, "101", key.Value)

			require.NotNil(t, params.ConditionExpression)
			assert.Contains(t, *params.ConditionExpression, "attribute_exists")

			// every mutable field plus updatedAt, never eventId
			fields := map[string]bool{}
			for _, name := range params.ExpressionAttributeNames {
				fields[name] = true
			}
			for _, want := range []string{"eventName", "client", "type", "venue", "month", "day", "year", "startTime", "pax", "updatedAt"} {
				assert.True(t, fields[want], "missing %s in update expression", want)
			}
			return &dynamodb.UpdateItemOutput{Attributes: marshalEvent(t, replaced)}, nil
		},
	}

	service := NewEventService()
	res, err := service.ReplaceEvent(context.Background(), mockDB, 101, validInsert())
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, 101, res.EventID)
}

func TestDeleteEvent(t *testing.T) {
	mockDB := &test_helpers.MockDynamoDBClient{
		DeleteItemFunc: func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
			assert.Equal(t, dynamodb_types.ReturnValueAllOld, params.ReturnValues)
			return &dynamodb.DeleteItemOutput{
				Attributes: marshalEvent(t, internal_types.Event{EventID: 101}),
			}, nil
		},
	}

	service := NewEventService()
	err := service.DeleteEvent(context.Background(), mockDB, 101)
	assert.NoError(t, err)
}

func TestDeleteEventNotFound(t *testing.T) {
	mockDB := &test_helpers.MockDynamoDBClient{
		DeleteItemFunc: func(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
			return &dynamodb.DeleteItemOutput{}, nil
		},
	}

	service := NewEventService()
	err := service.DeleteEvent(context.Background(), mockDB, 999)
	assert.ErrorIs(t, err, ErrEventNotFound)
}
