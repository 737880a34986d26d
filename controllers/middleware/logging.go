package middleware

import (
	"log"
	"net/http"

	"github.com/felixge/httpsnoop"
)

// Logging logs one line per request with status, size and duration.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m := httpsnoop.CaptureMetrics(next, w, r)
		log.Printf("[http] %s %s - %d %dB %v", r.Method, r.URL.Path, m.Code, m.Written, m.Duration)
	})
}
