// Package tangkey defines the wire-level key and signature records shared
// by the advertisement and recovery protocols: a Tang key (curve + public
// point + use tag) and a Tang signature (algorithm + DER value).
//
// Types in this package are plain data; they carry no cryptographic
// behavior of their own. Converting a Key to a live EC public key, and
// verifying or producing a Signature, are the responsibility of
// pkg/ecconv and pkg/advertisement respectively.
package tangkey
