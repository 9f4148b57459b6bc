// Package server exposes the manual trigger and health endpoints used in
// daemon mode.
package server

import (
	"net/http"

	log "github.com/sirupsen/logrus"
)

// Trigger starts a digest run in the background, reporting false when one is
// already active
type Trigger interface {
	Trigger() bool
}

// CreateRESTHandler handles POST /api/digest/run
func CreateRESTHandler(trigger Trigger, apiKey string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, `{"error": "method not allowed"}`, http.StatusMethodNotAllowed)
			return
		}
		if apiKey == "" {
			http.Error(w, `{"error": "DIGEST_API_KEY not configured on server"}`, http.StatusServiceUnavailable)
			return
		}
		if r.Header.Get("X-API-Key") != apiKey {
			http.Error(w, `{"error": "unauthorized - invalid or missing X-API-Key header"}`, http.StatusUnauthorized)
			return
		}

		if !trigger.Trigger() {
			log.Warn("[REST] Digest run requested while another is active")
			http.Error(w, `{"error": "digest run already in progress"}`, http.StatusConflict)
			return
		}

		log.Info("[REST] Digest run accepted")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte(`{"status": "accepted", "message": "Digest run started in background"}`))
	}
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status": "ok"}`))
}
