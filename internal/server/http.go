package server

import (
	"net/http"
	"runtime/debug"

	log "github.com/sirupsen/logrus"
)

// CreateHTTPHandler routes the daemon's HTTP surface
func CreateHTTPHandler(trigger Trigger, apiKey string) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/api/digest/run", CreateRESTHandler(trigger, apiKey))
	return CreateRecoveryHandler(mux)
}

// CreateRecoveryHandler wraps handler with panic recovery
func CreateRecoveryHandler(handler http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Errorf("[PANIC RECOVERED] %v\n%s", err, debug.Stack())
				w.Header().Set("Content-Type", "application/json")
				http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
			}
		}()
		handler.ServeHTTP(w, r)
	}
}
