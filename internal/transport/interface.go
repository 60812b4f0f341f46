package transport

import (
	"context"
	"net/http"
)

// Response is the outcome of a successfully transported request. Body holds
// the raw response bytes; it may be empty (some endpoints answer with a bare
// status code).
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// Client performs signed requests against the HAVN api.
//
// A non-nil payload is canonicalized, signed and sent as the request body.
// Retryable failures (429, 5xx, network errors) are retried transparently
// within the configured policy; the error returned after exhaustion, or for
// a terminal status, is one of the typed errors in the apierrors package.
type Client interface {
	Perform(ctx context.Context, method string, path string, payload interface{}) (Response, error)
}
