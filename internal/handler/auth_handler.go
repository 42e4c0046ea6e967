package handler

import (
	"encoding/json"
	"net/http"

	"go-account-portal/internal/model"
	"go-account-portal/internal/service"
	"go-account-portal/internal/session"
	"go-account-portal/pkg/apierror"
)

type AuthHandler struct {
	service  *service.AuthService
	sessions *session.Carrier
}

func NewAuthHandler(service *service.AuthService, sessions *session.Carrier) *AuthHandler {
	return &AuthHandler{service: service, sessions: sessions}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	userID, err := h.service.Register(r.Context(), payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, model.RegisterResponse{UserID: userID})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var payload model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apierror.BadRequest("invalid JSON body", ""))
		return
	}

	if err := payload.Validate(); err != nil {
		writeError(w, err)
		return
	}

	user, minted, err := h.service.Login(r.Context(), payload.Username, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	h.sessions.Attach(w, minted)
	writeSuccess(w, http.StatusOK, model.LoginResponse{User: user})
}

// Logout clears the session cookie and always succeeds. The token itself is
// not revoked; it stays valid until natural expiry if replayed.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Clear(w)
	writeSuccess(w, http.StatusOK, map[string]any{"logged_out": true})
}
