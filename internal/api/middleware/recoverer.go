package middleware

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/phrazzld/scry-relay/internal/api/shared"
)

// Recoverer turns a panic in a handler into a logged error and, when the
// response has not been committed, a generic 500 JSON response. The server
// keeps serving other requests.
//
// http.ErrAbortHandler is re-raised so net/http can abort the connection
// quietly.
func Recoverer(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := &commitTracker{ResponseWriter: w}

			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
					panic(rec)
				}

				logger.ErrorContext(r.Context(), "panic recovered",
					slog.String("trace_id", shared.GetTraceID(r.Context())),
					slog.String("method", r.Method),
					slog.String("path", r.URL.Path),
					slog.String("panic", fmt.Sprint(rec)),
					slog.String("stack", string(debug.Stack())))

				if rw.committed {
					// Too late for a status code.
					panic(http.ErrAbortHandler)
				}
				shared.RespondWithError(w, r, http.StatusInternalServerError, "An unexpected error occurred")
			}()

			next.ServeHTTP(rw, r)
		})
	}
}

// commitTracker records whether a response has been started.
type commitTracker struct {
	http.ResponseWriter
	committed bool
}

func (c *commitTracker) WriteHeader(code int) {
	c.committed = true
	c.ResponseWriter.WriteHeader(code)
}

func (c *commitTracker) Write(p []byte) (int, error) {
	c.committed = true
	return c.ResponseWriter.Write(p)
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (c *commitTracker) Unwrap() http.ResponseWriter {
	return c.ResponseWriter
}
