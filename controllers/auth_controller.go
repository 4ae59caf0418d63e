package controllers

import (
	"net/http"

	"item-audit-api/auth"
	"item-audit-api/repositories"
	"item-audit-api/userctx"
)

// AuthController handles authentication requests
type AuthController struct {
	users  repositories.UserRepository
	tokens *auth.TokenService
}

// NewAuthController creates a new auth controller
func NewAuthController(users repositories.UserRepository, tokens *auth.TokenService) *AuthController {
	return &AuthController{users: users, tokens: tokens}
}

// Token handles POST /token. It takes form-encoded credentials and issues
// a bearer access token.
func (c *AuthController) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data")
		return
	}

	username := r.FormValue("username")
	password := r.FormValue("password")

	user, err := auth.Authenticate(r.Context(), c.users, username, password)
	if err != nil {
		// Same message for unknown user and wrong password
		writeError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := c.tokens.Issue(map[string]any{"username": user.Username})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"access_token": token,
		"token_type":   "bearer",
	})
}

// Me handles GET /users/me, returning the authenticated caller's identity
func (c *AuthController) Me(w http.ResponseWriter, r *http.Request) {
	user := userctx.GetUser(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Invalid token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"username": user.Username})
}
