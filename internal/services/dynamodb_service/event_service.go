package dynamodb_service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	dynamodb_types "github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/go-playground/validator"

	"github.com/eventbook/api/internal/helpers"
	internal_types "github.com/eventbook/api/internal/types"
)

// Store outcomes surfaced to handlers, decoupled from the DynamoDB error
// encoding. ErrEventIDExists is the unique-constraint violation on create;
// ErrEventNotFound covers update/delete against a missing eventId.
var (
	ErrEventIDExists = errors.New("event ID already exists")
	ErrEventNotFound = errors.New("event not found")
)

var validate *validator.Validate = validator.New()

var eventsTableName = helpers.GetDbTableName()

type EventService struct{}

func NewEventService() internal_types.EventServiceInterface {
	return &EventService{}
}

func (s *EventService) ListEvents(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI) ([]internal_types.Event, error) {
	return s.scanEvents(ctx, dynamodbClient, nil)
}

func (s *EventService) GetEventByID(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int) (*internal_types.Event, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(eventsTableName),
		Key:       eventKey(eventID),
	}

	result, err := dynamodbClient.GetItem(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(result.Item) == 0 {
		return nil, nil
	}

	var event internal_types.Event
	err = attributevalue.UnmarshalMap(result.Item, &event)
	if err != nil {
		return nil, err
	}

	return &event, nil
}

func (s *EventService) GetEventsByMonth(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, month int) ([]internal_types.Event, error) {
	filter := expression.Name("month").Equal(expression.Value(month))
	return s.scanEvents(ctx, dynamodbClient, &filter)
}

func (s *EventService) GetEventsByClient(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, client string) ([]internal_types.Event, error) {
	filter := expression.Name("client").Equal(expression.Value(client))
	return s.scanEvents(ctx, dynamodbClient, &filter)
}

func (s *EventService) InsertEvent(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, event internal_types.EventInsert) (*internal_types.Event, error) {
	if err := validate.Struct(&event); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now

	item, err := attributevalue.MarshalMap(&event)
	if err != nil {
		return nil, err
	}

	cond := expression.AttributeNotExists(expression.Name("eventId"))
	expr, err := expression.NewBuilder().WithCondition(cond).Build()
	if err != nil {
		return nil, err
	}

	input := &dynamodb.PutItemInput{
		TableName:                aws.String(eventsTableName),
		Item:                     item,
		ConditionExpression:      expr.Condition(),
		ExpressionAttributeNames: expr.Names(),
	}

	_, err = dynamodbClient.PutItem(ctx, input)
	if err != nil {
		var conditionFailed *dynamodb_types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, ErrEventIDExists
		}
		return nil, err
	}

	inserted := toEvent(event)
	return &inserted, nil
}

func (s *EventService) ReplaceEvent(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int, event internal_types.EventInsert) (*internal_types.Event, error) {
	// eventId never appears in the update expression, so the stored key is
	// immutable regardless of the body.
	update := expression.
		Set(expression.Name("eventName"), expression.Value(event.EventName)).
		Set(expression.Name("client"), expression.Value(event.Client)).
		Set(expression.Name("type"), expression.Value(event.Type)).
		Set(expression.Name("venue"), expression.Value(event.Venue)).
		Set(expression.Name("month"), expression.Value(event.Month)).
		Set(expression.Name("day"), expression.Value(event.Day)).
		Set(expression.Name("year"), expression.Value(event.Year)).
		Set(expression.Name("startTime"), expression.Value(event.StartTime)).
		Set(expression.Name("pax"), expression.Value(event.Pax)).
		Set(expression.Name("updatedAt"), expression.Value(time.Now().UTC()))

	return s.updateEvent(ctx, dynamodbClient, eventID, update)
}

func (s *EventService) UpdateEvent(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int, event internal_types.EventUpdate) (*internal_types.Event, error) {
	update := expression.Set(expression.Name("updatedAt"), expression.Value(time.Now().UTC()))

	if event.EventName != nil {
		update = update.Set(expression.Name("eventName"), expression.Value(*event.EventName))
	}
	if event.Client != nil {
		update = update.Set(expression.Name("client"), expression.Value(*event.Client))
	}
	if event.Type != nil {
		update = update.Set(expression.Name("type"), expression.Value(*event.Type))
	}
	if event.Venue != nil {
		update = update.Set(expression.Name("venue"), expression.Value(*event.Venue))
	}
	if event.Month != nil {
		update = update.Set(expression.Name("month"), expression.Value(*event.Month))
	}
	if event.Day != nil {
		update = update.Set(expression.Name("day"), expression.Value(*event.Day))
	}
	if event.Year != nil {
		update = update.Set(expression.Name("year"), expression.Value(*event.Year))
	}
	if event.StartTime != nil {
		update = update.Set(expression.Name("startTime"), expression.Value(*event.StartTime))
	}
	if event.Pax != nil {
		update = update.Set(expression.Name("pax"), expression.Value(*event.Pax))
	}

	return s.updateEvent(ctx, dynamodbClient, eventID, update)
}

func (s *EventService) DeleteEvent(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int) error {
	input := &dynamodb.DeleteItemInput{
		TableName:    aws.String(eventsTableName),
		Key:          eventKey(eventID),
		ReturnValues: dynamodb_types.ReturnValueAllOld,
	}

	result, err := dynamodbClient.DeleteItem(ctx, input)
	if err != nil {
		return err
	}
	if len(result.Attributes) == 0 {
		return ErrEventNotFound
	}

	return nil
}

// updateEvent runs a conditional UpdateItem shared by full and partial
// updates; the condition turns "no such record" into ErrEventNotFound.
func (s *EventService) updateEvent(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int, update expression.UpdateBuilder) (*internal_types.Event, error) {
	cond := expression.AttributeExists(expression.Name("eventId"))
	expr, err := expression.NewBuilder().WithUpdate(update).WithCondition(cond).Build()
	if err != nil {
		return nil, err
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(eventsTableName),
		Key:                       eventKey(eventID),
		UpdateExpression:          expr.Update(),
		ConditionExpression:       expr.Condition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
		ReturnValues:              dynamodb_types.ReturnValueAllNew,
	}

	res, err := dynamodbClient.UpdateItem(ctx, input)
	if err != nil {
		var conditionFailed *dynamodb_types.ConditionalCheckFailedException
		if errors.As(err, &conditionFailed) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	var updated internal_types.Event
	err = attributevalue.UnmarshalMap(res.Attributes, &updated)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// scanEvents pages through the table, optionally filtered, and returns the
// results ordered ascending by (year, month, day, startTime).
func (s *EventService) scanEvents(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, filter *expression.ConditionBuilder) ([]internal_types.Event, error) {
	input := &dynamodb.ScanInput{
		TableName: aws.String(eventsTableName),
	}
	if filter != nil {
		expr, err := expression.NewBuilder().WithFilter(*filter).Build()
		if err != nil {
			return nil, err
		}
		input.FilterExpression = expr.Filter()
		input.ExpressionAttributeNames = expr.Names()
		input.ExpressionAttributeValues = expr.Values()
	}

	events := make([]internal_types.Event, 0)
	for {
		result, err := dynamodbClient.Scan(ctx, input)
		if err != nil {
			return nil, err
		}

		var fetched []internal_types.Event
		err = attributevalue.UnmarshalListOfMaps(result.Items, &fetched)
		if err != nil {
			return nil, err
		}
		events = append(events, fetched...)

		if result.LastEvaluatedKey == nil {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	SortEventsByDate(events)
	return events, nil
}

// SortEventsByDate orders events ascending by (year, month, day, startTime).
func SortEventsByDate(events []internal_types.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		a, b := events[i], events[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return helpers.LessByStartTime(a.StartTime, b.StartTime)
	})
}

func eventKey(eventID int) map[string]dynamodb_types.AttributeValue {
	return map[string]dynamodb_types.AttributeValue{
		"eventId": &dynamodb_types.AttributeValueMemberN{Value: strconv.Itoa(eventID)},
	}
}

func toEvent(insert internal_types.EventInsert) internal_types.Event {
	return internal_types.Event{
		EventID:   insert.EventID,
		EventName: insert.EventName,
		Client:    insert.Client,
		Type:      insert.Type,
		Venue:     insert.Venue,
		Month:     insert.Month,
		Day:       insert.Day,
		Year:      insert.Year,
		StartTime: insert.StartTime,
		Pax:       insert.Pax,
		CreatedAt: insert.CreatedAt,
		UpdatedAt: insert.UpdatedAt,
	}
}

// MockEventService backs handler tests; each func field overrides one
// operation.
type MockEventService struct {
	ListEventsFunc        func(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI) ([]internal_types.Event, error)
	GetEventByIDFunc      func(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int) (*internal_types.Event, error)
	GetEventsByMonthFunc  func(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, month int) ([]internal_types.Event, error)
	GetEventsByClientFunc func(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, client string) ([]internal_types.Event, error)
	InsertEventFunc       func(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, event internal_types.EventInsert) (*internal_types.Event, error)
	ReplaceEventFunc      func(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int, event internal_types.EventInsert) (*internal_types.Event, error)
	UpdateEventFunc       func(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int, event internal_types.EventUpdate) (*internal_types.Event, error)
	DeleteEventFunc       func(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int) error
}

func (m *MockEventService) ListEvents(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI) ([]internal_types.Event, error) {
	return m.ListEventsFunc(ctx, dynamodbClient)
}

func (m *MockEventService) GetEventByID(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int) (*internal_types.Event, error) {
	return m.GetEventByIDFunc(ctx, dynamodbClient, eventID)
}

func (m *MockEventService) GetEventsByMonth(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, month int) ([]internal_types.Event, error) {
	return m.GetEventsByMonthFunc(ctx, dynamodbClient, month)
}

func (m *MockEventService) GetEventsByClient(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, client string) ([]internal_types.Event, error) {
	return m.GetEventsByClientFunc(ctx, dynamodbClient, client)
}

func (m *MockEventService) InsertEvent(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, event internal_types.EventInsert) (*internal_types.Event, error) {
	return m.InsertEventFunc(ctx, dynamodbClient, event)
}

func (m *MockEventService) ReplaceEvent(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int, event internal_types.EventInsert) (*internal_types.Event, error) {
	return m.ReplaceEventFunc(ctx, dynamodbClient, eventID, event)
}

func (m *MockEventService) UpdateEvent(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int, event internal_types.EventUpdate) (*internal_types.Event, error) {
	return m.UpdateEventFunc(ctx, dynamodbClient, eventID, event)
}

func (m *MockEventService) DeleteEvent(ctx context.Context, dynamodbClient internal_types.DynamoDBAPI, eventID int) error {
	return m.DeleteEventFunc(ctx, dynamodbClient, eventID)
}
