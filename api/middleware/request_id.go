package middleware

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"

	"github.com/moonpos/moonpos-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// Inbound ids must be short tokens without whitespace.
var requestIDRe = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// RequestID echoes a well-formed X-Request-Id or issues a new uuid, and
// attaches it to the request logger.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := r.Header.Get(requestIDHeader)
			if !requestIDRe.MatchString(reqID) {
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
