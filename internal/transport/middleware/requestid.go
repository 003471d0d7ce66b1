package middleware

import (
	"net/http"

	"github.com/cuckooquote/quote-management/pkg/logger"

	"github.com/google/uuid"
)

// TraceID attaches a trace identifier to the request context and echoes it
// back on the response. Clients may supply their own via X-Trace-ID.
func TraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
