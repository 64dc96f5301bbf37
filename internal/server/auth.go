package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
)

const (
	minUsernameLength = 3
	minPasswordLength = 8
)

// AuthHandler serves the /auth endpoints.
type AuthHandler struct {
	users  *userStore
	tokens *tokenIssuer
	logger *log.Logger
}

// Routes returns the HTTP routes this handler serves.
func (h *AuthHandler) Routes() []string {
	return []string{
		"/auth/register",
		"/auth/token",
		"/auth/profile",
		"/auth/change-password",
		"/auth/reset-password",
		"/auth/delete-account",
	}
}

// ServeHTTP dispatches on path, enforcing each route's method.
func (h *AuthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var method string
	var next http.HandlerFunc

	switch r.URL.Path {
	case "/auth/register":
		method, next = http.MethodPost, h.register
	case "/auth/token":
		method, next = http.MethodPost, h.token
	case "/auth/profile":
		method, next = http.MethodGet, h.profile
	case "/auth/change-password":
		method, next = http.MethodPost, h.changePassword
	case "/auth/reset-password":
		method, next = http.MethodPost, h.resetPassword
	case "/auth/delete-account":
		method, next = http.MethodDelete, h.deleteAccount
	default:
		writeDetail(w, http.StatusNotFound, "Not Found")
		return
	}

	MethodOnly(method, next).ServeHTTP(w, r)
}

func (h *AuthHandler) register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	username := r.PostForm.Get("username")
	password := r.PostForm.Get("password")
	role := r.PostForm.Get("role")
	if role == "" {
		role = "user"
	}

	if len(username) < minUsernameLength {
		writeDetail(w, http.StatusBadRequest, "Username must be at least 3 characters long")
		return
	}
	if len(password) < minPasswordLength {
		writeDetail(w, http.StatusBadRequest, "Password must be at least 8 characters long")
		return
	}

	acct, err := h.users.create(username, password, r.PostForm.Get("email"), r.PostForm.Get("full_name"), role)
	switch {
	case errors.Is(err, errUsernameTaken), errors.Is(err, errEmailTaken):
		writeDetail(w, http.StatusBadRequest, detailFor(err))
		return
	case err != nil:
		h.logger.Error("failed to create user", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	h.logger.Info("registered user", "username", acct.Username, "id", acct.ID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "User registered successfully", "user_id": acct.ID})
}

func (h *AuthHandler) token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	if gt := r.PostForm.Get("grant_type"); gt != "" && gt != "password" {
		writeDetail(w, http.StatusBadRequest, "Unsupported grant type")
		return
	}

	acct, err := h.users.authenticate(r.PostForm.Get("username"), r.PostForm.Get("password"))
	if err != nil {
		writeDetail(w, http.StatusBadRequest, detailFor(err))
		return
	}

	signed, err := h.tokens.issue(acct.Username)
	if err != nil {
		h.logger.Error("failed to issue token", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"access_token": signed, "token_type": "bearer"})
}

func (h *AuthHandler) profile(w http.ResponseWriter, r *http.Request) {
	acct, ok := authenticate(w, r, h.users, h.tokens)
	if !ok {
		return
	}

	var email *string
	if acct.Email != "" {
		email = &acct.Email
	}
	writeJSON(w, http.StatusOK, map[string]any{"username": acct.Username, "email": email})
}

func (h *AuthHandler) changePassword(w http.ResponseWriter, r *http.Request) {
	acct, ok := authenticate(w, r, h.users, h.tokens)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	if _, err := h.users.authenticate(acct.Username, r.PostForm.Get("current_password")); err != nil {
		writeDetail(w, http.StatusBadRequest, "Incorrect current password")
		return
	}
	next := r.PostForm.Get("new_password")
	if len(next) < minPasswordLength {
		writeDetail(w, http.StatusBadRequest, "New password must be at least 8 characters long")
		return
	}

	if err := h.users.setPassword(acct.Username, next); err != nil {
		h.logger.Error("failed to change password", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}
	writeJSON(w, http.StatusOK, message{Message: "Password successfully changed"})
}

func (h *AuthHandler) resetPassword(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeDetail(w, http.StatusBadRequest, "Invalid form body")
		return
	}

	username, ok := h.users.usernameByEmail(r.PostForm.Get("email"))
	if !ok {
		writeDetail(w, http.StatusNotFound, detailFor(errNoSuchUser))
		return
	}

	temp, err := tempPassword()
	if err == nil {
		err = h.users.setPassword(username, temp)
	}
	if err != nil {
		h.logger.Error("failed to reset password", "error", err)
		writeDetail(w, http.StatusInternalServerError, "Internal Server Error")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Temporary password generated", "temp_password": temp})
}

func (h *AuthHandler) deleteAccount(w http.ResponseWriter, r *http.Request) {
	acct, ok := authenticate(w, r, h.users, h.tokens)
	if !ok {
		return
	}

	h.users.delete(acct.Username)
	h.logger.Info("deleted user", "username", acct.Username)
	writeJSON(w, http.StatusOK, message{Message: "Account deleted successfully"})
}
