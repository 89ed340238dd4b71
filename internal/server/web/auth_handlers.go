package web

import (
	"net/http"

	"github.com/gorilla/mux"

	"boardchat/internal/server/services"
)

type registerRequest struct {
	Username    string  `json:"username"`
	Password    string  `json:"password"`
	Email       *string `json:"email,omitempty"`
	IsAnonymous bool    `json:"is_anonymous,omitempty"`
}

func (h *Handlers) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, issued, err := h.identity.Register(r.Context(), services.RegisterRequest{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{
		User:      toUserResponse(user),
		Token:     issued.Token,
		ExpiresAt: issued.Session.ExpiresAt,
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, issued, err := h.identity.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{
		User:      toUserResponse(user),
		Token:     issued.Token,
		ExpiresAt: issued.Session.ExpiresAt,
	})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.Logout(r.Context(), bearerToken(r)); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.GetUser(r.Context(), userIDFrom(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (h *Handlers) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	issued, err := h.identity.ChangePassword(r.Context(), userIDFrom(r), req.OldPassword, req.NewPassword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		Token:     issued.Token,
		ExpiresAt: issued.Session.ExpiresAt,
	})
}

func (h *Handlers) handleGetUser(w http.ResponseWriter, r *http.Request) {
	user, err := h.identity.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toUserResponse(user))
}
