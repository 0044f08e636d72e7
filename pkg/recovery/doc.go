// Package recovery implements the recovery-request builder: selecting
// a REC key from a verified advertisement, generating an ephemeral
// keypair on its curve, performing the blinding scalar multiplication,
// and emitting both the persistable recovery request and the derived
// shared secret.
package recovery
