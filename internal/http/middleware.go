package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// withMiddleware adds security headers and request logging with status
// capture to a handler.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := generateRequestID()
		clientIP := s.clientAddr(r)

		slog.InfoContext(r.Context(), "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP)

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'; style-src 'self' 'unsafe-inline'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(rw, r)

		slog.InfoContext(r.Context(), "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.status,
			"duration_ms", time.Since(start).Milliseconds())
	}
}

// throttled limits credential submissions per client address. Page loads
// pass through untouched.
func (s *Server) throttled(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && !s.limiter.Allow(s.clientAddr(r)) {
			slog.WarnContext(r.Context(), "Throttled credential request",
				"client_ip", s.clientAddr(r), "url", r.URL.Path)
			http.Error(w, "too many requests", http.StatusTooManyRequests)
			return
		}
		next(w, r)
	}
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// clientAddr extracts the client IP. Proxy headers are client-controlled
// on a directly exposed listener, so they are only honored when the
// deployment declares a trusted proxy in front; otherwise the connection's
// own address wins. The port is dropped so one client keeps one key across
// connections.
func (s *Server) clientAddr(r *http.Request) string {
	if s.trustProxy {
		if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
			return ip
		}
		if ip := r.Header.Get("X-Real-IP"); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
