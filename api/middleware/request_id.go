package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/davidcastaneda/clubsync/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an id and carries it through the
// logger context, so one UI action can be correlated with the store
// mutations and gateway calls it caused. A frontend that already
// stamps its requests keeps its own id; the header is echoed back
// either way.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if reqID == "" {
				reqID = uuid.NewString()
			}

			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
