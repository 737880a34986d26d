package controllers

import (
	"net/http"

	"playlist-courses-backend/controllers/respond"
)

// Root handles GET /api/
func Root(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Playlist Courses API"})
}

// StatusHandler reports whether the metadata provider is configured.
func StatusHandler(youtubeConfigured bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]interface{}{
			"message":                "API is working!",
			"youtube_api_configured": youtubeConfigured,
		})
	}
}
