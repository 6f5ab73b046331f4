package handlers

import (
	"log"
	"net/http"

	"github.com/cloudshop/uisuite/internal/config"
)

// SessionCookie carries the sandbox session token
const SessionCookie = "cs_session"

// SessionStore opens and checks sandbox sessions
type SessionStore interface {
	Login(email, password string) (string, error)
	Authenticated(token string) bool
	Logout(token string)
}

func sessionToken(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookie)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// RequireSession redirects visitors without a session to the login form
func RequireSession(sessions SessionStore, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessions.Authenticated(sessionToken(r)) {
			http.Redirect(w, r, config.LoginPath, http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// LogoutHandler closes the session and returns to the login form
type LogoutHandler struct {
	sessions SessionStore
}

// NewLogoutHandler creates a new logout handler
func NewLogoutHandler(sessions SessionStore) *LogoutHandler {
	return &LogoutHandler{sessions: sessions}
}

// ServeHTTP handles GET /anonymous/logout/
func (h *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if token := sessionToken(r); token != "" {
		h.sessions.Logout(token)
		log.Printf("Session closed")
	}
	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: "", Path: "/", MaxAge: -1})
	http.Redirect(w, r, config.LoginPath, http.StatusSeeOther)
}
