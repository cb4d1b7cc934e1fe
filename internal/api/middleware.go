package api

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
)

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.size += n
	return n, err
}

type contextKey string

const loggerContextKey contextKey = "logger"

// loggerFrom returns the request-scoped logger.
func loggerFrom(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerContextKey).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

// loggingMiddleware tags each request with an ID, stores a request-scoped
// logger in the context and logs the completed request.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		log := s.logger.With(
			"request_id", requestID,
			"method", r.Method,
			"path", r.URL.Path,
		)
		r = r.WithContext(context.WithValue(r.Context(), loggerContextKey, log))
		w.Header().Set("X-Request-ID", requestID)

		wrapped := &responseWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)

		attrs := []any{
			"status", wrapped.status,
			"size", wrapped.size,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		switch {
		case wrapped.status >= 500:
			log.Error("request completed with server error", attrs...)
		case wrapped.status >= 400:
			log.Warn("request completed with client error", attrs...)
		default:
			log.Info("request completed", attrs...)
		}
	})
}

// recoveryMiddleware turns panics into 500 responses.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				loggerFrom(r.Context()).Error("panic recovered", "panic", rec, "stack", string(debug.Stack()))
				writeError(w, r, &AppError{
					Code:    ErrCodeInternal,
					Message: "internal server error",
					Status:  http.StatusInternalServerError,
				})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
