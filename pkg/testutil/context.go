package testutil

import (
	"net/http"
	"time"

	"dealeraudit/pkg/requestcontext"
)

// WithUser stamps a request with an authenticated username, simulating
// what the auth middleware does after validating a token.
func WithUser(req *http.Request, user string) *http.Request {
	return req.WithContext(requestcontext.WithUser(req.Context(), user))
}

// WithRequestID stamps a request with a correlation id.
func WithRequestID(req *http.Request, id string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), id))
}

// WithFixedTime pins the request clock so created/updated timestamps are
// deterministic in assertions.
func WithFixedTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
