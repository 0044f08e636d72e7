// Package skey implements a zeroizing secret-key container: a
// length-prefixed byte buffer holding derived shared-secret material,
// owned exclusively by its caller and zeroed on release.
//
// Skey never copies its backing bytes implicitly; Bytes returns the live
// slice, not a defensive copy, so callers that need to retain material
// past Release must copy it themselves.
package skey
