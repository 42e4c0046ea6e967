package handler

import (
	"net/http"
	"strconv"

	"go-account-portal/internal/model"
	"go-account-portal/internal/service"
	"go-account-portal/internal/session"
	"go-account-portal/internal/token"
	"go-account-portal/pkg/apierror"
)

// UserHandler serves the authenticated profile endpoints. API routes verify
// the session themselves; the route guard never gates /api.
type UserHandler struct {
	service  *service.AuthService
	avatars  *service.AvatarService
	sessions *session.Carrier
	tokens   *token.Codec
}

func NewUserHandler(service *service.AuthService, avatars *service.AvatarService, sessions *session.Carrier, tokens *token.Codec) *UserHandler {
	return &UserHandler{service: service, avatars: avatars, sessions: sessions, tokens: tokens}
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authenticate(r)
	if !ok {
		writeError(w, apierror.Unauthorized("not authenticated"))
		return
	}

	profile, err := h.service.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, model.ProfileResponse{User: profile})
}

func (h *UserHandler) Avatar(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.authenticate(r)
	if !ok {
		writeError(w, apierror.Unauthorized("not authenticated"))
		return
	}

	profile, err := h.service.Profile(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	data, err := h.avatars.Render(profile.FirstName, profile.LastName, profile.FavoriteColor)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "private, max-age=300")
	_, _ = w.Write(data)
}

func (h *UserHandler) authenticate(r *http.Request) (model.AuthClaims, bool) {
	raw, ok := h.sessions.Read(r)
	if !ok {
		return model.AuthClaims{}, false
	}

	return h.tokens.Verify(raw)
}
