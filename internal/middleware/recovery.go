package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"launchit/internal/httputil"
	"launchit/internal/metrics"
)

// headerTracker notes whether the wrapped handler already started its response
type headerTracker struct {
	http.ResponseWriter
	wrote bool
}

func (t *headerTracker) WriteHeader(status int) {
	t.wrote = true
	t.ResponseWriter.WriteHeader(status)
}

func (t *headerTracker) Write(b []byte) (int, error) {
	t.wrote = true
	return t.ResponseWriter.Write(b)
}

// Recovery turns a handler panic into a 500 problem response.
// It must sit inside AuthMiddleware so the log line names the caller, and
// outside RequestLogger so the matched route pattern is known.
// A response that was already started is left as is.
func Recovery(m *metrics.Metrics, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tw := &headerTracker{ResponseWriter: w}
			defer func() {
				rv := recover()
				if rv == nil {
					return
				}
				if rv == http.ErrAbortHandler {
					panic(rv)
				}

				route := r.Pattern
				if route == "" {
					route = "unmatched"
				}
				actorID := httputil.GetActor(r).ID
				if actorID == "" {
					actorID = "anonymous"
				}

				m.PanicRecovered(route)
				logger.Error("panic recovered",
					"panic", fmt.Sprint(rv),
					"method", r.Method,
					"path", r.URL.Path,
					"route", route,
					"actor_id", actorID,
					"response_started", tw.wrote,
					"stack", string(debug.Stack()),
				)

				if !tw.wrote {
					httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(tw, r)
		})
	}
}
