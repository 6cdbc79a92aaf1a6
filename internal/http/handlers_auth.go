package http

import (
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/csrf"

	"kopilka/internal/auth"
	"kopilka/internal/core"
)

// handleHome routes the bare domain to the dashboard or the login page.
func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if _, ok := s.currentUserID(r); ok {
		http.Redirect(w, r, "/index", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request, userID int64) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, "GET")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard user lookup failed", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	if user == nil {
		// Session points at a user that no longer exists.
		s.signOut(w, r)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	counts, err := s.store.LedgerCounts(r.Context(), userID)
	if err != nil {
		slog.ErrorContext(r.Context(), "Dashboard counts failed", "error", err, "user_id", userID)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	s.render(w, r, "index.html", struct {
		Username string
		Counts   core.LedgerCounts
		Flashes  []flashMessage
	}{
		Username: user.Username,
		Counts:   counts,
		Flashes:  s.popFlashes(w, r),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	type loginPage struct {
		Email   string
		Error   string
		Flashes []flashMessage
	}

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "login.html", loginPage{Flashes: s.popFlashes(w, r)})

	case http.MethodPost:
		email := strings.TrimSpace(r.PostFormValue("email"))
		password := r.PostFormValue("password")

		user, err := s.authn.Authenticate(r.Context(), email, password)
		if err != nil {
			if !errors.Is(err, auth.ErrInvalidCredentials) {
				slog.ErrorContext(r.Context(), "Login lookup failed", "error", err)
			}
			s.render(w, r, "login.html", loginPage{
				Email: email,
				Error: "Неверный email или пароль",
			})
			return
		}

		if err := s.signIn(w, r, user.ID); err != nil {
			slog.ErrorContext(r.Context(), "Failed to establish session", "error", err, "user_id", user.ID)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		slog.InfoContext(r.Context(), "User logged in", "user_id", user.ID, "username", user.Username)
		http.Redirect(w, r, "/index", http.StatusSeeOther)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	type registerPage struct {
		Username  string
		Email     string
		Error     string
		CSRFField template.HTML
	}

	switch r.Method {
	case http.MethodGet:
		s.render(w, r, "register.html", registerPage{CSRFField: csrf.TemplateField(r)})

	case http.MethodPost:
		form, msg := parseRegisterForm(r)
		if msg != "" {
			s.render(w, r, "register.html", registerPage{
				Username:  form.Username,
				Email:     form.Email,
				Error:     msg,
				CSRFField: csrf.TemplateField(r),
			})
			return
		}

		user, err := s.authn.Register(r.Context(), form.Username, form.Email, form.Password)
		if err != nil {
			text := flashText(err)
			if text == "" {
				slog.ErrorContext(r.Context(), "Registration failed", "error", err, "username", form.Username)
				text = "Ошибка при регистрации: " + err.Error()
			}
			s.render(w, r, "register.html", registerPage{
				Username:  form.Username,
				Email:     form.Email,
				Error:     text,
				CSRFField: csrf.TemplateField(r),
			})
			return
		}

		if err := s.signIn(w, r, user.ID); err != nil {
			slog.ErrorContext(r.Context(), "Failed to establish session", "error", err, "user_id", user.ID)
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}
		slog.InfoContext(r.Context(), "User registered", "user_id", user.ID, "username", user.Username)
		s.addFlash(w, r, flashSuccess, "Регистрация прошла успешно!")
		http.Redirect(w, r, "/index", http.StatusSeeOther)

	default:
		methodNotAllowed(w, "GET, POST")
	}
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request, userID int64) {
	s.signOut(w, r)
	slog.InfoContext(r.Context(), "User logged out", "user_id", userID)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
