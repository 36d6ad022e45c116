package testutil

import (
	"net/http"
	"time"

	"doctrace/pkg/requestcontext"
)

// WithActor stamps an acting user onto the request context, simulating what
// the actor middleware does for authenticated requests.
func WithActor(req *http.Request, actor string) *http.Request {
	if actor == "" {
		return req
	}
	return req.WithContext(requestcontext.WithActor(req.Context(), actor))
}

// WithClock pins the request-scoped time so waiting-day computations and
// date fallbacks are deterministic.
func WithClock(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}
