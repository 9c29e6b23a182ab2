package helpers

import "os"

// GetDbTableName resolves the Events table name, letting deployed stages
// override the local default via the environment.
func GetDbTableName() string {
	if name := os.Getenv("EVENTS_TABLE_NAME"); name != "" {
		return name
	}
	return EventsTableDefault
}

// IsRemoteDB reports whether the service should talk to a real AWS endpoint
// instead of a local DynamoDB container.
func IsRemoteDB() bool {
	return os.Getenv("DYNAMODB_ENDPOINT") == ""
}

// PatchRequiresDate enables the stricter PATCH mode that insists on a full
// month/day/year date or a startTime in every partial update.
func PatchRequiresDate() bool {
	return os.Getenv("PATCH_REQUIRE_DATE") == "true"
}
