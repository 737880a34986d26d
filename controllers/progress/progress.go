package progress

import (
	"encoding/json"
	"net/http"

	"playlist-courses-backend/controllers/authentication"
	"playlist-courses-backend/controllers/courses"
	"playlist-courses-backend/controllers/respond"
	"playlist-courses-backend/services"
)

type ProgressHandler struct {
	progress *services.ProgressService
}

func NewProgressHandler(progressService *services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progressService}
}

// UpdateProgress handles POST /api/progress
func (h *ProgressHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}

	var report services.ProgressReport
	if err := json.NewDecoder(r.Body).Decode(&report); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid input")
		return
	}

	p, err := h.progress.Record(r.Context(), userID, report)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, p)
}

// GetCourseProgress handles GET /api/progress/{course_id}
func (h *ProgressHandler) GetCourseProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}
	courseID, err := courses.PathID(r, "course_id")
	if err != nil {
		respond.Error(w, err)
		return
	}

	byVideo, err := h.progress.ForCourse(r.Context(), userID, courseID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, byVideo)
}
