// Package requestid assigns a correlation ID to every request. Incoming
// X-Request-ID headers are honored so IDs survive proxy hops; otherwise a
// fresh UUID is generated.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"trustledger/pkg/requestcontext"
)

const headerName = "X-Request-ID"

// Middleware stores the request ID in the context and echoes it back on the
// response for client-side correlation.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(headerName)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		ctx := requestcontext.WithRequestID(r.Context(), reqID)
		w.Header().Set(headerName, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
