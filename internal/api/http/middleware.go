package http

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"hazel-marketplace/internal/config"
	"hazel-marketplace/internal/domain"
	"hazel-marketplace/internal/logger"
	"hazel-marketplace/internal/security"
)

// AuthMiddleware enforces the security level configured for each route.
type AuthMiddleware struct {
	tokens security.TokenManager
}

func NewAuthMiddleware(tokens security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	// browsers cannot set headers on a websocket handshake
	if websocket.IsWebSocketUpgrade(r) {
		return r.URL.Query().Get("access_token")
	}
	return ""
}

func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return r.URL.Path
}

func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.LevelFor(r.Method, routeTemplate(r))
		token := bearerToken(r)

		if level == config.SecurityPublic {
			// a valid access token still identifies the caller
			if token != "" {
				if claims, err := m.tokens.ValidateToken(token, security.TokenTypeAccess); err == nil {
					r = r.WithContext(withClaims(r.Context(), claims, token))
				}
			}
			next.ServeHTTP(w, r)
			return
		}

		if token == "" {
			writeError(w, http.StatusUnauthorized, "unauthenticated", "authorization token is not provided", nil)
			return
		}

		expected := security.TokenTypeAccess
		if level == config.SecurityRefresh {
			expected = security.TokenTypeRefresh
		}
		claims, err := m.tokens.ValidateToken(token, expected)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		if level == config.SecurityAdmin && claims.Role != domain.UserRoleAdmin {
			writeError(w, http.StatusForbidden, "forbidden", "admin access required", nil)
			return
		}

		next.ServeHTTP(w, r.WithContext(withClaims(r.Context(), claims, token)))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := s.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("response writer does not support hijacking")
	}
	s.status = http.StatusSwitchingProtocols
	return h.Hijack()
}

// LoggingMiddleware writes one access log line per request.
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		logger.HTTPRequest(r.Method, r.URL.Path, rec.status, time.Since(start), "route", routeTemplate(r))
	})
}

// RecoveryMiddleware turns a handler panic into a 500 response.
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.Error("Panic while serving request", "method", r.Method, "path", r.URL.Path, "panic", p, "stack", string(debug.Stack()))
				writeError(w, http.StatusInternalServerError, "internal_error", "An unexpected error occurred.", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
