package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"
)

// PanicHandler writes the error response for a recovered panic
type PanicHandler func(w http.ResponseWriter, r *http.Request, err any)

// Recovery creates panic recovery middleware with a custom panic handler.
// The handler only runs if nothing was written yet; a scoreboard stream that
// panics mid-flight is just closed. http.ErrAbortHandler is re-raised.
func Recovery(logger *slog.Logger, handler PanicHandler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tracked := &ResponseWriter{ResponseWriter: w, status: http.StatusOK}

			defer func() {
				err := recover()
				if err == nil {
					return
				}
				if err == http.ErrAbortHandler {
					panic(err)
				}

				logger.Error("panic recovered",
					slog.Any("error", err),
					slog.String("stack", string(debug.Stack())),
					// Logging runs inside Recovery, so the id is only on the response
					slog.String("request_id", tracked.Header().Get(RequestIDHeader)),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.Bool("response_started", tracked.Started()),
				)

				if !tracked.Started() {
					handler(tracked, r, err)
				}
			}()

			next.ServeHTTP(tracked, r)
		})
	}
}
