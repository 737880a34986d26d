// Package respond writes JSON responses and maps service errors to HTTP
// status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"playlist-courses-backend/services"
)

func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[http] encode response: %v", err)
	}
}

func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Error writes err with the status matching its class. Unclassified errors
// are logged and reported as 500 without details.
func Error(w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		log.Printf("[http] internal error: %v", err)
		Message(w, status, "internal server error")
		return
	}
	Message(w, status, err.Error())
}

func StatusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidPlaylistURL), errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrExternalProvider):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
