package notes

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"playlist-courses-backend/controllers/authentication"
	"playlist-courses-backend/controllers/courses"
	"playlist-courses-backend/controllers/respond"
	"playlist-courses-backend/services"
)

type NoteHandler struct {
	notes *services.NoteService
}

func NewNoteHandler(noteService *services.NoteService) *NoteHandler {
	return &NoteHandler{notes: noteService}
}

// CreateNote handles POST /api/notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}

	var in services.NoteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid input")
		return
	}

	note, err := h.notes.Create(r.Context(), userID, in)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusCreated, note)
}

// ListVideoNotes handles GET /api/notes/{video_id}. ?course_id=N limits the
// list to one course, ?sort=timestamp orders by position in the video
// instead of creation order.
func (h *NoteHandler) ListVideoNotes(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}

	videoID := mux.Vars(r)["video_id"]
	filter := services.NoteFilter{ByTimestamp: r.URL.Query().Get("sort") == "timestamp"}
	if raw := r.URL.Query().Get("course_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || id == 0 {
			respond.Message(w, http.StatusBadRequest, "invalid course_id")
			return
		}
		filter.CourseID = uint(id)
	}

	list, err := h.notes.ListForVideo(r.Context(), userID, videoID, filter)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

type updateNoteRequest struct {
	Content string `json:"content"`
}

// UpdateNote handles PUT /api/notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}
	id, err := courses.PathID(r, "id")
	if err != nil {
		respond.Error(w, err)
		return
	}

	var req updateNoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Message(w, http.StatusBadRequest, "Invalid input")
		return
	}

	note, err := h.notes.Update(r.Context(), userID, id, req.Content)
	if err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, note)
}

// DeleteNote handles DELETE /api/notes/{id}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := authentication.CurrentUserID(w, r)
	if !ok {
		return
	}
	id, err := courses.PathID(r, "id")
	if err != nil {
		respond.Error(w, err)
		return
	}

	if err := h.notes.Delete(r.Context(), userID, id); err != nil {
		respond.Error(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
