package logging

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// statusRecorder captures the status code written by the preview handlers.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rw *statusRecorder) WriteHeader(code int) {
	rw.status = code
	rw.ResponseWriter.WriteHeader(code)
}

// quietPath reports requests that are not worth a log line: wasm assets are
// refetched on every reload and /health is polled.
func quietPath(path string) bool {
	return strings.HasPrefix(path, "/widget/") || path == "/health"
}

// RequestLogger returns middleware that logs each preview request along with
// attrs, typically the thread the preview page is rendering. The chi request
// id is included when middleware.RequestID runs first.
func RequestLogger(attrs ...any) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if quietPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= 500:
				level = slog.LevelError
			case rec.status >= 400:
				level = slog.LevelWarn
			}

			args := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration", time.Since(start).String(),
			}
			if id := middleware.GetReqID(r.Context()); id != "" {
				args = append(args, "request_id", id)
			}
			args = append(args, attrs...)
			slog.Log(r.Context(), level, "preview request", args...)
		})
	}
}
