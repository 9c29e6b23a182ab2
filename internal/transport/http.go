package transport

import (
	"encoding/json"
	"log"
	"net/http"
)

// SendServerRes writes a JSON response. For statuses >= 400 the body is
// treated as a human-readable message, logged with an ERR prefix, and
// rendered as {"message": "..."} so internals never leak to the caller.
// err carries the underlying failure for the log line only.
func SendServerRes(w http.ResponseWriter, body []byte, status int, err error) {
	if status >= 400 {
		msg := string(body)
		internalMsg := "ERR: " + msg
		if err != nil {
			internalMsg += " || Internal error msg: " + err.Error()
		}
		log.Println(internalMsg)
		body, _ = json.Marshal(map[string]string{"message": msg})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, writeErr := w.Write(body); writeErr != nil {
		log.Println("ERR: Error writing response:", writeErr)
	}
}
