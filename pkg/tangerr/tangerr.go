// Package tangerr collects the sentinel errors of the client core's
// taxonomy: malformed input, validation failure, transport
// failure, resource exhaustion, and internal/cryptographic failure.
// Components wrap these with fmt.Errorf's %w verb rather than
// inventing ad hoc error strings, so callers can errors.Is against a
// stable set.
package tangerr

import "errors"

var (
	// ErrMalformed covers undecodable DER, unknown OIDs, and off-curve
	// points: reported to the caller, never retried.
	ErrMalformed = errors.New("tang: malformed input")

	// ErrNotFoundKey signals that no key satisfying the request's
	// constraints (strength, algorithm, curve, or named-key match) was
	// found. This is the wire NOTFOUND_KEY value.
	ErrNotFoundKey = errors.New("tang: no suitable key found")

	// ErrVerification signals that an advertisement reply failed
	// signature verification.
	ErrVerification = errors.New("tang: advertisement verification failed")

	// ErrInternal covers allocation failure and cryptographic failure
	// during signing or verification; never leaks partial output.
	ErrInternal = errors.New("tang: internal error")

	// ErrTransport covers socket, connect, send, or receive failure on
	// one address, or overall deadline exceeded.
	ErrTransport = errors.New("tang: transport failure")
)
