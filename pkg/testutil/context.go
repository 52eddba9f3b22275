package testutil

import (
	"context"
	"net/http"
	"time"

	id "trustledger/pkg/domain"
	"trustledger/pkg/requestcontext"
)

// WithCaller adds an authenticated caller address to the request context,
// simulating what the auth middleware does for valid bearer tokens. Invalid
// addresses are silently skipped so tests can exercise the unauthenticated
// path with malformed input.
func WithCaller(req *http.Request, caller string) *http.Request {
	if addr, err := id.ParseAddress(caller); err == nil {
		return req.WithContext(requestcontext.WithCaller(req.Context(), addr))
	}
	return req
}

// WithTime pins the request-scoped clock, simulating the requesttime
// middleware with a fixed instant.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}

// FixedContext returns a context carrying the given caller and instant, for
// service tests that bypass the HTTP middleware chain.
func FixedContext(caller id.Address, at time.Time) context.Context {
	ctx := requestcontext.WithCaller(context.Background(), caller)
	return requestcontext.WithTime(ctx, at)
}
