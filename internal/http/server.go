// Package http wires the route table: the session gate in front of the
// ledger handlers, the public login/register pages, and health endpoints.
package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"

	"kopilka/internal/auth"
	"kopilka/internal/config"
	"kopilka/internal/core"
	"kopilka/internal/ratelimit"
	"kopilka/internal/storage"
	"kopilka/web"
)

type Server struct {
	http.Server
	templates  *template.Template
	store      *storage.SQLiteRepository
	authn      *auth.PasswordAuthenticator
	sessions   *sessions.CookieStore
	limiter    *ratelimit.Limiter
	trustProxy bool
}

// NewServer configures routes and templates, returning a ready-to-run
// http.Server. The embedded templates are fixed at build time, so a parse
// failure is a broken build and fails construction.
func NewServer(cfg *config.Config, store *storage.SQLiteRepository, authn *auth.PasswordAuthenticator) (*Server, error) {
	mux := http.NewServeMux()

	cookies := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	cookies.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}

	s := &Server{
		Server: http.Server{
			Addr:           ":" + cfg.Port,
			Handler:        mux,
			ReadTimeout:    cfg.ReadTimeout,
			WriteTimeout:   cfg.WriteTimeout,
			IdleTimeout:    cfg.IdleTimeout,
			MaxHeaderBytes: 1 << 16, // 64KB
		},
		store:      store,
		authn:      authn,
		sessions:   cookies,
		limiter:    ratelimit.NewLimiter(cfg.AuthAttemptsPerMinute),
		trustProxy: cfg.TrustProxyHeaders,
	}
	s.RegisterOnShutdown(s.limiter.Stop)

	// Parse embedded templates at startup.
	t, err := template.New("").Funcs(template.FuncMap{
		"monthName": core.MonthName,
		"seq": func(from, to int) []int {
			out := make([]int, 0, to-from+1)
			for i := from; i <= to; i++ {
				out = append(out, i)
			}
			return out
		},
	}).ParseFS(web.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	s.templates = t

	// Only the registration form carries a CSRF token.
	protect := csrf.Protect(
		[]byte(cfg.CSRFSecret),
		csrf.Secure(cfg.SecureCookies),
		csrf.Path("/"),
	)
	register := protect(s.withMiddleware(s.throttled(s.handleRegister)))
	if !cfg.SecureCookies {
		// Without TLS the csrf middleware rejects same-origin POSTs unless
		// the request is marked as plaintext HTTP first.
		inner := register
		register = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			inner.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
		})
	}

	mux.Handle("/static/", http.FileServer(http.FS(web.StaticFS)))

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	mux.HandleFunc("/", s.withMiddleware(s.handleHome))
	mux.HandleFunc("/login", s.withMiddleware(s.throttled(s.handleLogin)))
	mux.Handle("/register", register)
	mux.HandleFunc("/index", s.withMiddleware(s.requireUser(s.handleIndex)))
	mux.HandleFunc("/logout", s.withMiddleware(s.requireUser(s.handleLogout)))
	mux.HandleFunc("/income", s.withMiddleware(s.requireUser(s.handleIncome)))
	mux.HandleFunc("/expenses", s.withMiddleware(s.requireUser(s.handleExpenses)))
	mux.HandleFunc("/account", s.withMiddleware(s.requireUser(s.handleAccount)))
	mux.HandleFunc("/budget", s.withMiddleware(s.requireUser(s.handleBudget)))

	return s, nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		slog.ErrorContext(r.Context(), "Readiness check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("not ready"))
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
