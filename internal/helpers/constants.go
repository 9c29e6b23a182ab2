package helpers

const (
	// EventsTableDefault is used unless EVENTS_TABLE_NAME overrides it.
	EventsTableDefault = "Events"

	EVENT_ID_KEY = "id"
	MONTH_KEY    = "month"
	CLIENT_KEY   = "client"
)
