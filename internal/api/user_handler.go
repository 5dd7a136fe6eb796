package api

import (
	"net/http"

	"github.com/blokmap/blokmap-api/internal/api/shared"
)

// UserHandler serves the authenticated user's own record.
type UserHandler struct{}

// NewUserHandler creates a new UserHandler.
func NewUserHandler() *UserHandler {
	return &UserHandler{}
}

// Me handles GET /user/me. It must run behind the auth middleware.
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, user)
}
