package tangkey

import "encoding/asn1"

// Use tags a Tang key's role. A key is either used to sign advertisements
// or to recover a secret; a key is never both.
type Use int

const (
	// UseSig marks a key used to sign advertisement bodies.
	UseSig Use = 1
	// UseRec marks a key used for the recovery blinding exchange.
	UseRec Use = 2
)

// String returns the use tag name.
func (u Use) String() string {
	switch u {
	case UseSig:
		return "SIG"
	case UseRec:
		return "REC"
	default:
		return "UNKNOWN"
	}
}

// Key is the wire record for a Tang key: a curve identifier, the
// octet-string encoding of a public point on that curve, and a use tag.
//
// Key equality is defined byte-wise over Curve and Point, plus the Use
// tag; see Equal.
type Key struct {
	Curve asn1.ObjectIdentifier
	Point []byte
	Use   Use
}

// Equal reports whether two keys carry the same curve, point bytes, and
// use tag.
func (k Key) Equal(o Key) bool {
	if k.Use != o.Use || !k.Curve.Equal(o.Curve) {
		return false
	}
	if len(k.Point) != len(o.Point) {
		return false
	}
	for i := range k.Point {
		if k.Point[i] != o.Point[i] {
			return false
		}
	}
	return true
}

// SigAlg identifies an ECDSA signature algorithm by the hash it pairs
// with. Unknown values never appear on the wire as anything but a
// rejected signature.
type SigAlg uint8

const (
	SigAlgUnknown SigAlg = iota
	SigAlgECDSASHA224
	SigAlgECDSASHA256
	SigAlgECDSASHA384
	SigAlgECDSASHA512
)

// ecdsa-with-SHAxxx OIDs, RFC 5758 §3.2.
var (
	oidECDSASHA224 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 1}
	oidECDSASHA256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 2}
	oidECDSASHA384 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 3}
	oidECDSASHA512 = asn1.ObjectIdentifier{1, 2, 840, 10045, 4, 3, 4}
)

var sigAlgByOID = map[string]SigAlg{
	oidECDSASHA224.String(): SigAlgECDSASHA224,
	oidECDSASHA256.String(): SigAlgECDSASHA256,
	oidECDSASHA384.String(): SigAlgECDSASHA384,
	oidECDSASHA512.String(): SigAlgECDSASHA512,
}

var oidBySigAlg = map[SigAlg]asn1.ObjectIdentifier{
	SigAlgECDSASHA224: oidECDSASHA224,
	SigAlgECDSASHA256: oidECDSASHA256,
	SigAlgECDSASHA384: oidECDSASHA384,
	SigAlgECDSASHA512: oidECDSASHA512,
}

// SigAlgByOID maps a wire OID to a known algorithm. An unrecognized OID
// yields SigAlgUnknown, never an error: the caller (the verifier) treats
// an unknown algorithm as a failing signature, not a malformed message.
func SigAlgByOID(oid asn1.ObjectIdentifier) SigAlg {
	return sigAlgByOID[oid.String()]
}

// OID returns the wire OID for a known algorithm, or nil for
// SigAlgUnknown.
func (a SigAlg) OID() asn1.ObjectIdentifier {
	return oidBySigAlg[a]
}

// String returns the algorithm name.
func (a SigAlg) String() string {
	switch a {
	case SigAlgECDSASHA224:
		return "ECDSA-SHA224"
	case SigAlgECDSASHA256:
		return "ECDSA-SHA256"
	case SigAlgECDSASHA384:
		return "ECDSA-SHA384"
	case SigAlgECDSASHA512:
		return "ECDSA-SHA512"
	default:
		return "UNKNOWN"
	}
}

// Signature is the wire record for a Tang signature: the algorithm OID
// and the DER-encoded (r, s) ECDSA value.
type Signature struct {
	Alg   asn1.ObjectIdentifier
	Value []byte
}
