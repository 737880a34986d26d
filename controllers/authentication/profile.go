package authentication

import (
	"net/http"
	"strings"

	"playlist-courses-backend/controllers/respond"
	"playlist-courses-backend/services"
)

// GetProfile returns the authenticated user.
func GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		respond.Error(w, services.ErrUnauthorized)
		return
	}
	respond.JSON(w, http.StatusOK, user)
}

// Logout revokes the session named by the X-Session-ID header. Bearer
// tokens are issued elsewhere and cannot be revoked here.
func (s *SessionStore) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := strings.TrimSpace(r.Header.Get(SessionHeader)); sid != "" {
		if err := s.Revoke(r.Context(), sid); err != nil {
			respond.Error(w, err)
			return
		}
	}
	respond.JSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
