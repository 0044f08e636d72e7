// Package wire defines the ASN.1 DER wire format for the key-escrow
// protocol: the outer message choice (advertisement request/reply,
// recovery request/reply, error) and the codec that serializes it to
// and from a bounded UDP datagram buffer.
//
// # Message choice
//
// ASN.1 CHOICE has no direct encoding/asn1 equivalent, so each
// alternative is carried as an OPTIONAL, context-tagged field of a
// single outer SEQUENCE (Message); exactly one field is present on the
// wire, and Kind reports which.
//
// # Signed region
//
// The advertisement Body is the signed region: signing and verification
// operate over the DER encoding of Body alone, never over the outer
// Reply or Message envelope.
package wire
