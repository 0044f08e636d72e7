// Package advertisement implements the two halves of the advertisement
// protocol: Verify, which checks a received advertisement reply's
// signatures, and a Builder that mirrors
// the server side closely enough to reason about (and test) the
// verifier against a real signer.
package advertisement
