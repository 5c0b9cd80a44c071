package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/haletrung/vietmarket-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID tags every request with an identifier. Gateways in front of the
// API may supply their own via the X-Request-Id header; otherwise a fresh
// uuid is minted. The id is echoed back on the response and attached to the
// context logger so order-placement flows can be traced end to end.
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
