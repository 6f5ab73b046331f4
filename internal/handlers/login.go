package handlers

import (
	"html/template"
	"log"
	"net/http"
	"net/url"

	"github.com/cloudshop/uisuite/internal/config"
)

// LoginHandler serves the anonymous login form
type LoginHandler struct {
	template *template.Template
	sessions SessionStore
}

// LoginData represents the data for the login template
type LoginData struct {
	SignedIn bool
	Email    string
	Error    string
}

// NewLoginHandler creates a new login handler
func NewLoginHandler(sessions SessionStore) (*LoginHandler, error) {
	tmpl, err := parsePage("login.html")
	if err != nil {
		return nil, err
	}

	return &LoginHandler{
		template: tmpl,
		sessions: sessions,
	}, nil
}

// ServeHTTP renders the form on GET and checks the credentials on POST
func (h *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.render(w, LoginData{Email: r.URL.Query().Get("email"), Error: loginError(r.URL.Query().Get("error"))})
	case http.MethodPost:
		h.login(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

func (h *LoginHandler) login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}

	email := r.PostForm.Get("email")
	token, err := h.sessions.Login(email, r.PostForm.Get("password"))
	if err != nil {
		log.Printf("Login rejected for %q: %v", email, err)
		// stay on the login address so the client can tell the attempt failed
		http.Redirect(w, r, config.LoginPath+"?error=credentials&email="+url.QueryEscape(email), http.StatusSeeOther)
		return
	}

	http.SetCookie(w, &http.Cookie{Name: SessionCookie, Value: token, Path: "/", HttpOnly: true})
	http.Redirect(w, r, config.CatalogPath, http.StatusSeeOther)
}

func (h *LoginHandler) render(w http.ResponseWriter, data LoginData) {
	if err := h.template.ExecuteTemplate(w, "layout", data); err != nil {
		log.Printf("Error rendering template: %v", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
	}
}

func loginError(code string) string {
	switch code {
	case "":
		return ""
	case "credentials":
		return "Неверный email или пароль"
	default:
		return "Не удалось войти. Попробуйте ещё раз"
	}
}
