package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/shopcore/backend/internal/auth"
	"github.com/shopcore/backend/internal/model"
)

// logRequests emits one line per request with status and latency.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.log.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

type contextKey int

const userKey contextKey = iota

// UserFromContext returns the authenticated user placed by RequireAuth.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

// RequireAuth resolves the access cookie into a user and stores it on the
// request context. An expired access token gets a distinct message so
// clients know to hit the refresh endpoint instead of re-logging in.
func (s *Server) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		accessToken := s.cookies.ReadAccess(r)
		if accessToken == "" {
			writeMessage(w, http.StatusUnauthorized, "No access token provided")
			return
		}

		user, err := s.auth.Authenticate(r.Context(), accessToken)
		switch {
		case errors.Is(err, auth.ErrAccessExpired):
			writeMessage(w, http.StatusUnauthorized, "Access token expired")
			return
		case err != nil:
			writeMessage(w, http.StatusUnauthorized, "Invalid access token")
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), userKey, user)))
	})
}

// RequireAdmin layers an admin role check on top of RequireAuth. Mount it
// inside a RequireAuth group.
func (s *Server) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user.Role != model.RoleAdmin {
			writeMessage(w, http.StatusForbidden, "Admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
