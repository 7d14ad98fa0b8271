package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"launchpad/internal/auth"
	"launchpad/internal/users"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Flush forwards to the wrapped writer so streaming handlers still see an
// http.Flusher through the logging middleware.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func newSlogMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(recorder, r)
			duration := time.Since(start)
			logger.Info("http request", "method", r.Method, "path", r.URL.Path, "status", recorder.status, "duration", duration.String())
		})
	}
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const sessionContextKey contextKey = "session"

// sessionState records the outcome of session resolution for the request.
// A nil user with a nil err means the caller presented no credentials.
type sessionState struct {
	user *users.User
	err  error
}

// UserFromContext extracts the authenticated user from the request context.
// Returns nil when the request carries no valid session.
func UserFromContext(ctx context.Context) *users.User {
	state, _ := ctx.Value(sessionContextKey).(*sessionState)
	if state == nil {
		return nil
	}
	return state.user
}

// newSessionMiddleware resolves the caller's session, if any, and records the
// result in the request context. It never rejects the request itself; the
// requireUser middleware does that for protected routes, and optional-auth
// handlers such as the profile read inspect the state directly.
func newSessionMiddleware(authService *auth.Service, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := &sessionState{}

			token := sessionTokenFromRequest(r)
			if token != "" {
				user, err := authService.ValidateSession(r.Context(), token)
				switch {
				case err == nil:
					state.user = user
				case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrUserNotFound):
					state.err = err
				default:
					logger.Error("session validation error", "error", err)
					state.err = auth.ErrUnauthenticated
				}
			}

			ctx := context.WithValue(r.Context(), sessionContextKey, state)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// sessionTokenFromRequest prefers the browser cookie and falls back to a
// bearer token, which is how the SDK authenticates.
func sessionTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(sessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

// requireUser rejects requests without a resolved user. The two failure
// conditions map to distinct statuses: 401 means "log in", 404 means the
// session is valid but the profile record is missing.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		state, _ := r.Context().Value(sessionContextKey).(*sessionState)
		if state == nil || state.user == nil {
			if state != nil && errors.Is(state.err, auth.ErrUserNotFound) {
				writeError(w, http.StatusNotFound, "user record not found")
				return
			}
			unauthorized(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	writeError(w, http.StatusUnauthorized, "authentication required")
}

func newSecurityHeadersMiddleware(environment string) func(http.Handler) http.Handler {
	isDev := strings.EqualFold(environment, "development")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-XSS-Protection", "1; mode=block")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Permissions-Policy", "geolocation=(), camera=(), microphone=()")

			if !isDev {
				w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// newRateLimitMiddleware applies a per-IP token bucket, used on the sign-in
// endpoints to slow credential-stuffing attempts.
func newRateLimitMiddleware(rps rate.Limit, burst int) func(http.Handler) http.Handler {
	var (
		mu       sync.Mutex
		limiters = make(map[string]*rate.Limiter)
	)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		limiter, ok := limiters[ip]
		if !ok {
			limiter = rate.NewLimiter(rps, burst)
			limiters[ip] = limiter
		}
		return limiter
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiterFor(clientIPFromRequest(r)).Allow() {
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
