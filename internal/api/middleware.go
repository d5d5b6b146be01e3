package api

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/akazakov/cookbook/internal/models"
)

type contextKey string

const userContextKey contextKey = "current_user"

// currentUser returns the authenticated user stored by requireAuth.
func currentUser(r *http.Request) *models.User {
	user, _ := r.Context().Value(userContextKey).(*models.User)
	return user
}

// requireAuth resolves the acting user from the Authorization header and
// injects it into the request context. Requests without a valid token get a
// 401 before the handler runs.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			s.respondError(w, http.StatusUnauthorized, "authorization token is required")
			return
		}

		userID, err := s.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := s.svc.GetUser(r.Context(), userID)
		if err != nil {
			s.respondError(w, http.StatusUnauthorized, "unknown user")
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// LoggingMiddleware tags every request with an id and logs method, path,
// status and duration.
func LoggingMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", requestID)

			rec := &loggingResponseWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.WithFields(logrus.Fields{
				"request_id": requestID,
				"method":     r.Method,
				"path":       r.URL.Path,
				"status":     rec.status,
				"duration":   time.Since(start).String(),
			}).Info("HTTP request")
		})
	}
}

type loggingResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *loggingResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// RateLimitMiddleware keeps a token bucket per client IP. Buckets idle for
// over an hour are dropped on the next sweep.
func RateLimitMiddleware(rps rate.Limit, burst int) func(http.Handler) http.Handler {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}

	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	sweep := func(now time.Time) {
		for ip, c := range clients {
			if now.Sub(c.lastSeen) > time.Hour {
				delete(clients, ip)
			}
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			mu.Lock()
			c, ok := clients[ip]
			if !ok {
				c = &client{limiter: rate.NewLimiter(rps, burst)}
				clients[ip] = c
				sweep(time.Now())
			}
			c.lastSeen = time.Now()
			allowed := c.limiter.Allow()
			mu.Unlock()

			if !allowed {
				http.Error(w, "too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
