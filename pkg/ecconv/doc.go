// Package ecconv converts between the wire form of a Tang key (curve OID
// plus octet-string point, see pkg/tangkey) and live crypto/elliptic
// public keys and points.
//
// Conversion is validating: ToPublicKey and OctetToPoint never return a
// key or point that is off-curve or the identity element. Callers may
// rely on anything returned from this package being cryptographically
// well-formed.
package ecconv
