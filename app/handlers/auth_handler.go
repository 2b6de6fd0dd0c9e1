package handlers

import (
	"log"
	"net/http"

	"github.com/Rakhulsr/e-agri/app/helpers"
	"github.com/Rakhulsr/e-agri/app/services"
	"github.com/Rakhulsr/e-agri/app/utils/sessions"
	"github.com/unrolled/render"
)

const msgNoActiveSession = "No active session"

type AuthHandler struct {
	render   *render.Render
	auth     *services.AuthService
	sessions *sessions.Manager
}

func NewAuthHandler(r *render.Render, auth *services.AuthService, sessionManager *sessions.Manager) *AuthHandler {
	return &AuthHandler{
		render:   r,
		auth:     auth,
		sessions: sessionManager,
	}
}

func (h *AuthHandler) CSRFToken(w http.ResponseWriter, r *http.Request) {
	token, err := h.sessions.CSRFToken(w, r)
	if err != nil {
		helpers.RespondError(h.render, w, r, helpers.NewStorageUnavailable(err))
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "CSRF token generated", map[string]string{"csrf_token": token})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input services.RegisterInput
	if err := helpers.DecodeJSON(r, &input); err != nil {
		helpers.Fail(h.render, w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	result, err := h.auth.Register(r.Context(), input)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	helpers.Success(h.render, w, http.StatusCreated, "Registration successful", result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input services.LoginInput
	if err := helpers.DecodeJSON(r, &input); err != nil {
		helpers.Fail(h.render, w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	input.IP = helpers.ClientIP(r)

	result, err := h.auth.Login(r.Context(), input)
	if err != nil {
		helpers.RespondError(h.render, w, r, err)
		return
	}

	sessionID, err := h.sessions.Establish(w, r, sessions.Identity{
		UserID:   result.UserID,
		Email:    result.Email,
		Role:     result.Role,
		FullName: result.FullName,
	})
	if err != nil {
		helpers.RespondError(h.render, w, r, helpers.NewStorageUnavailable(err))
		return
	}
	result.SessionID = sessionID

	log.Printf("Login: user %s signed in from %s", result.UserID, input.IP)
	helpers.Success(h.render, w, http.StatusOK, "Login successful", result)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(w, r); err != nil {
		helpers.RespondError(h.render, w, r, helpers.NewStorageUnavailable(err))
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "Logout successful", nil)
}

func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	identity := helpers.IdentityFrom(r.Context())
	if identity == nil {
		helpers.Fail(h.render, w, http.StatusUnauthorized, msgNoActiveSession, nil)
		return
	}
	helpers.Success(h.render, w, http.StatusOK, "Session active", identity)
}
