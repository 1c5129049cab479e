package api

import "errors"

// Sentinel errors returned by Client implementations. Callers match them
// with errors.Is; none of them are retried inside the client itself.
var (
	// ErrUnauthenticated means no usable token was present, or the server
	// reported the token invalid/expired. The session must be cleared.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidCredentials means login was rejected by the server.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnavailable covers transport failures and timeouts alike.
	ErrUnavailable = errors.New("server unavailable")

	// ErrForbidden means the operation requires administrator rights.
	ErrForbidden = errors.New("forbidden")

	// ErrServerRejected means the server answered with an unexpected status.
	ErrServerRejected = errors.New("server rejected request")

	// ErrMalformedResponse means the response body did not decode into the
	// expected shape. Treated as a server-side bug, logged, never retried.
	ErrMalformedResponse = errors.New("malformed response")
)
