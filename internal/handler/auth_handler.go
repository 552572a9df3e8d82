package handler

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"os"

	"github.com/nprevot/hitman/internal/auth"
)

// AuthHandler handles OAuth2 login and token refresh for run callers.
// Unlike a persisted-account system, a caller identity here is just the
// email address Google hands back: there is no caller profile to store.
type AuthHandler struct {
	google *auth.OAuthProvider
	jwtMgr *auth.JWTManager
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(google *auth.OAuthProvider, jwtMgr *auth.JWTManager) *AuthHandler {
	return &AuthHandler{google: google, jwtMgr: jwtMgr}
}

// GoogleLogin redirects to Google's OAuth2 consent screen.
func (h *AuthHandler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	state := randomState()
	http.Redirect(w, r, h.google.LoginURL(state), http.StatusTemporaryRedirect)
}

// GoogleCallback handles the OAuth2 callback from Google and mints a token
// pair for the caller's email.
func (h *AuthHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "missing code parameter")
		return
	}

	identity, err := h.google.Exchange(r.Context(), code)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "oauth exchange failed: "+err.Error())
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(identity.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// RefreshToken exchanges a refresh token for a new token pair.
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	claims, err := h.jwtMgr.ValidateToken(req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(claims.CallerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

// DevLogin mints a token pair for an arbitrary caller ID. Only available
// when DEV_MODE=true.
func (h *AuthHandler) DevLogin(w http.ResponseWriter, r *http.Request) {
	if os.Getenv("DEV_MODE") != "true" {
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	callerID := r.URL.Query().Get("caller_id")
	if callerID == "" {
		writeError(w, http.StatusBadRequest, "missing caller_id parameter")
		return
	}

	tokens, err := h.jwtMgr.GenerateTokenPair(callerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to generate tokens")
		return
	}
	writeJSON(w, http.StatusOK, tokens)
}

func randomState() string {
	b := make([]byte, 16)
	rand.Read(b)
	return hex.EncodeToString(b)
}
