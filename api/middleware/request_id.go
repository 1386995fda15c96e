package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/camachodev/puntoventa-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID assigns every request a UUID, honoring a well-formed inbound
// header so upstream proxies can correlate their own traces.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if _, err := uuid.Parse(reqID); err != nil {
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
