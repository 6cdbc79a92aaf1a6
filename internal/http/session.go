package http

import (
	"encoding/gob"
	"log/slog"
	"net/http"
)

const (
	sessionName = "kopilka_session"
	userIDKey   = "user_id"

	flashError   = "error"
	flashSuccess = "success"
)

// flashMessage is a transient, user-visible notification carried in the
// session across one redirect.
type flashMessage struct {
	Kind string
	Text string
}

func init() {
	gob.Register(flashMessage{})
}

// currentUserID resolves the acting user from the request's session cookie.
func (s *Server) currentUserID(r *http.Request) (int64, bool) {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil {
		// A stale or tampered cookie is treated as no session at all.
		return 0, false
	}
	id, ok := sess.Values[userIDKey].(int64)
	return id, ok && id > 0
}

// requireUser is the auth gate in front of every protected route: it
// resolves the acting user and threads the id explicitly into the handler,
// or redirects to the login page.
func (s *Server) requireUser(next func(http.ResponseWriter, *http.Request, int64)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := s.currentUserID(r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r, userID)
	}
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request, userID int64) error {
	sess, _ := s.sessions.Get(r, sessionName)
	sess.Values[userIDKey] = userID
	return sess.Save(r, w)
}

func (s *Server) signOut(w http.ResponseWriter, r *http.Request) {
	sess, _ := s.sessions.Get(r, sessionName)
	delete(sess.Values, userIDKey)
	sess.Options.MaxAge = -1
	if err := sess.Save(r, w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to clear session", "error", err)
	}
}

// addFlash queues a notification for the next rendered page.
func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, kind, text string) {
	sess, _ := s.sessions.Get(r, sessionName)
	sess.AddFlash(flashMessage{Kind: kind, Text: text})
	if err := sess.Save(r, w); err != nil {
		slog.ErrorContext(r.Context(), "Failed to save flash", "error", err)
	}
}

// popFlashes drains queued notifications for rendering.
func (s *Server) popFlashes(w http.ResponseWriter, r *http.Request) []flashMessage {
	sess, _ := s.sessions.Get(r, sessionName)
	raw := sess.Flashes()
	if len(raw) > 0 {
		if err := sess.Save(r, w); err != nil {
			slog.ErrorContext(r.Context(), "Failed to drain flashes", "error", err)
		}
	}
	var flashes []flashMessage
	for _, f := range raw {
		if m, ok := f.(flashMessage); ok {
			flashes = append(flashes, m)
		}
	}
	return flashes
}
