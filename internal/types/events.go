package types

import (
	"context"
	"time"
)

// Event is a booking record. eventId is caller-supplied and immutable after
// creation; the table enforces its uniqueness.
type Event struct {
	EventID   int       `json:"eventID" dynamodbav:"eventId"`
	EventName string    `json:"eventName" dynamodbav:"eventName"`
	Client    string    `json:"client" dynamodbav:"client"`
	Type      string    `json:"type" dynamodbav:"type"`
	Venue     string    `json:"venue" dynamodbav:"venue"`
	Month     int       `json:"month" dynamodbav:"month"`
	Day       int       `json:"day" dynamodbav:"day"`
	Year      int       `json:"year" dynamodbav:"year"`
	StartTime string    `json:"startTime" dynamodbav:"startTime"`
	Pax       int       `json:"pax" dynamodbav:"pax"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// EventInsert is the payload for create and for full (replace-all) updates.
type EventInsert struct {
	EventID   int       `json:"eventID" validate:"required" dynamodbav:"eventId"`
	EventName string    `json:"eventName" validate:"required" dynamodbav:"eventName"`
	Client    string    `json:"client" validate:"required" dynamodbav:"client"`
	Type      string    `json:"type" validate:"required" dynamodbav:"type"`
	Venue     string    `json:"venue" validate:"required" dynamodbav:"venue"`
	Month     int       `json:"month" validate:"required" dynamodbav:"month"`
	Day       int       `json:"day" validate:"required" dynamodbav:"day"`
	Year      int       `json:"year" validate:"required" dynamodbav:"year"`
	StartTime string    `json:"startTime" validate:"required" dynamodbav:"startTime"`
	Pax       int       `json:"pax" validate:"required" dynamodbav:"pax"`
	CreatedAt time.Time `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" dynamodbav:"updatedAt"`
}

// EventUpdate is the payload for partial updates. Nil means "not supplied";
// eventId is deliberately absent so it can never be patched.
type EventUpdate struct {
	EventName *string `json:"eventName,omitempty"`
	Client    *string `json:"client,omitempty"`
	Type      *string `json:"type,omitempty"`
	Venue     *string `json:"venue,omitempty"`
	Month     *int    `json:"month,omitempty"`
	Day       *int    `json:"day,omitempty"`
	Year      *int    `json:"year,omitempty"`
	StartTime *string `json:"startTime,omitempty"`
	Pax       *int    `json:"pax,omitempty"`
}

// HasDate reports whether the payload carries a complete month/day/year date.
func (u EventUpdate) HasDate() bool {
	return u.Month != nil && u.Day != nil && u.Year != nil
}

// EventResponse is the envelope for single-record responses.
type EventResponse struct {
	Message string `json:"message"`
	Event   *Event `json:"event,omitempty"`
}

// EventsResponse is the envelope for list responses.
type EventsResponse struct {
	Message string  `json:"message"`
	Events  []Event `json:"events"`
}

// EventServiceInterface defines the store operations for Event records.
type EventServiceInterface interface {
	ListEvents(ctx context.Context, dynamodbClient DynamoDBAPI) ([]Event, error)
	GetEventByID(ctx context.Context, dynamodbClient DynamoDBAPI, eventID int) (*Event, error)
	GetEventsByMonth(ctx context.Context, dynamodbClient DynamoDBAPI, month int) ([]Event, error)
	GetEventsByClient(ctx context.Context, dynamodbClient DynamoDBAPI, client string) ([]Event, error)
	InsertEvent(ctx context.Context, dynamodbClient DynamoDBAPI, event EventInsert) (*Event, error)
	ReplaceEvent(ctx context.Context, dynamodbClient DynamoDBAPI, eventID int, event EventInsert) (*Event, error)
	UpdateEvent(ctx context.Context, dynamodbClient DynamoDBAPI, eventID int, event EventUpdate) (*Event, error)
	DeleteEvent(ctx context.Context, dynamodbClient DynamoDBAPI, eventID int) error
}
