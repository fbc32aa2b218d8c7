package middleware

import (
	"net/http"

	"github.com/phrazzld/scry-relay/internal/api/shared"
)

// TraceMiddleware adds a trace ID to the request context and echoes it in the
// X-Trace-ID response header. A well-formed X-Trace-ID sent by the client is
// reused so that a front-end can correlate its own logs.
// Apply it before RequestLogger and Recoverer so both can read the ID.
func TraceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(shared.TraceIDHeader)
		if !shared.ValidTraceID(traceID) {
			traceID = shared.NewTraceID()
		}

		w.Header().Set(shared.TraceIDHeader, traceID)
		next.ServeHTTP(w, r.WithContext(shared.WithTraceID(r.Context(), traceID)))
	})
}
