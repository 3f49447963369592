package web

import (
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/erazemk/najdeno/internal/auth"
	"github.com/erazemk/najdeno/internal/store"
)

// LoginPage handles GET /login.
func (s *Server) LoginPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "login.html", &PageData{Title: "Admin Login"})
}

// LoginSubmit handles POST /login.
func (s *Server) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	username := r.FormValue("username")
	password := r.FormValue("password")

	if username == "" || password == "" {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Admin Login",
			Error: "Enter a username and password.",
		})
		return
	}

	user, err := store.GetUserByUsername(r.Context(), s.DB, username)
	if err != nil || user == nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Admin Login",
			Error: "Wrong username or password.",
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Admin Login",
			Error: "Wrong username or password.",
		})
		return
	}

	token, err := auth.GenerateToken(s.JWTSecret, user.ID, user.Username)
	if err != nil {
		s.Templates.Render(w, "login.html", &PageData{
			Title: "Admin Login",
			Error: "Login failed, try again.",
		})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   86400, // 24 hours
	})

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Logout handles POST /logout. The session token is revoked server-side,
// not just dropped from the browser.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie("token"); err == nil && cookie.Value != "" {
		if claims, err := auth.ValidateToken(s.JWTSecret, cookie.Value); err == nil {
			if claims.ID != "" && claims.ExpiresAt != nil {
				store.RevokeToken(r.Context(), s.DB, claims.ID, claims.ExpiresAt.Time)
			}
		}
	}

	clearAuthCookie(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
