// Package bindstate persists a completed bind's state: a recovery
// request together with the host, service, and listen flag
// needed to resolve it later. The record is DER-encoded and written to
// a caller-supplied path as an opaque blob, atomically at the blob
// level.
package bindstate
