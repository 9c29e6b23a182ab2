package handlers

import "net/http"

// GetHome is the plain-text liveness probe.
func GetHome(w http.ResponseWriter, r *http.Request) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("Event Record Service is up and running"))
	}
}
