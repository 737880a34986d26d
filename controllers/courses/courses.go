package courses

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"playlist-courses-backend/controllers/authentication"
	"playlist-courses-backend/controllers/respond"
	coursesModels "playlist-courses-backend/models/courses"
	"playlist-courses-backend/services"
)

// Importer creates a course from a playlist URL.
type Importer interface {
	Import(ctx context.Context, userID uint, playlistURL string) (*coursesModels.Course, error)
}

type CourseHandler struct {
	importer Importer
	courses  *services.CourseService
}

func NewCourseHandler(importer Importer, courseService *services.CourseService) *CourseHandler {
	return &CourseHandler{importer: importer, courses: courseService}
}

type createCourseRequest struct {
	PlaylistURL string `json:"playlist_url"`
}

// CreateCourse handles POST /api/courses
func (h *CourseHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}

	var req createCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid input")
		return
	}

	course, err := h.importer.Import(r.Context(), userID, req.PlaylistURL)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, course)
}

// ListCourses handles GET /api/courses
func (h *CourseHandler) ListCourses(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}

	list, err := h.courses.List(r.Context(), userID)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// GetCourse handles GET /api/courses/{id}
func (h *CourseHandler) GetCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}
	id, err := PathID(r, "id")
	if err != nil {
		respond.Error(w, err)
		return
	}

	course, err := h.courses.Get(r.Context(), userID, id)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, course)
}

// UpdateCourse handles PUT /api/courses/{id}
func (h *CourseHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}
	id, err := PathID(r, "id")
	if err != nil {
		respond.Error(w, err)
		return
	}

	var upd services.CourseUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid input")
		return
	}

	course, err := h.courses.Update(r.Context(), userID, id, upd)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, course)
}

// DeleteCourse handles DELETE /api/courses/{id}
func (h *CourseHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}
	id, err := PathID(r, "id")
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := h.courses.Delete(r.Context(), userID, id); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// PathID parses a numeric path variable.
func PathID(r *http.Request, name string) (uint, error) {
	raw := mux.Vars(r)[name]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", services.ErrInvalidInput, name, raw)
	}
	return uint(id), nil
}
