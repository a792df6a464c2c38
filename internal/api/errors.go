package api

import "fmt"

// Sentinel codes for failures that never reached the server. Real HTTP
// statuses are never 0, and a local fault reads as a 500 would.
const (
	CodeNetworkError = 0
	CodeLocalError   = 500
)

const (
	msgNetwork       = "Network error. Please check your connection and try again."
	msgMisconfigured = "The server returned an unexpected response. Check that the configured API base URL points at the investor API."
	msgLocal         = "Something went wrong. Please try again."
)

// Error is the uniform failure shape every call returns. Callers branch on
// Code and Message only, never on the underlying transport failure mode.
type Error struct {
	Code    int
	Message string
	Errors  map[string][]string
}

func (e *Error) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Message)
}

// httpError, networkError, and localError form the tagged union produced
// once at the transport boundary and consumed by normalize.

type httpError struct {
	status      int
	contentType string
	body        []byte
	url         string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("http %d from %s", e.status, e.url)
}

type networkError struct {
	url string
	err error
}

func (e *networkError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.url, e.err)
}

func (e *networkError) Unwrap() error { return e.err }

type localError struct {
	err error
}

func (e *localError) Error() string {
	return fmt.Sprintf("local error: %v", e.err)
}

func (e *localError) Unwrap() error { return e.err }
