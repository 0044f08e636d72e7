package tangkey

import (
	"crypto/elliptic"
	"encoding/asn1"
	"errors"
)

// ErrUnknownCurve is returned when an OID does not name a curve in the
// built-in registry.
var ErrUnknownCurve = errors.New("tangkey: unknown curve OID")

// Standard NIST prime-field curve OIDs (SEC 2 / RFC 5480).
var (
	OIDP224 = asn1.ObjectIdentifier{1, 3, 132, 0, 33}
	OIDP256 = asn1.ObjectIdentifier{1, 2, 840, 10045, 3, 1, 7}
	OIDP384 = asn1.ObjectIdentifier{1, 3, 132, 0, 34}
	OIDP521 = asn1.ObjectIdentifier{1, 3, 132, 0, 35}
)

// curveByOID is the built-in registry of prime-field curves, keyed by
// their canonical string form so lookups don't allocate a fresh
// ObjectIdentifier for comparison.
var curveByOID = map[string]elliptic.Curve{
	OIDP224.String(): elliptic.P224(),
	OIDP256.String(): elliptic.P256(),
	OIDP384.String(): elliptic.P384(),
	OIDP521.String(): elliptic.P521(),
}

var oidByCurve = map[elliptic.Curve]asn1.ObjectIdentifier{
	elliptic.P224(): OIDP224,
	elliptic.P256(): OIDP256,
	elliptic.P384(): OIDP384,
	elliptic.P521(): OIDP521,
}

// CurveByOID looks up a curve in the registry. Unknown OIDs fail closed.
func CurveByOID(oid asn1.ObjectIdentifier) (elliptic.Curve, error) {
	c, ok := curveByOID[oid.String()]
	if !ok {
		return nil, ErrUnknownCurve
	}
	return c, nil
}

// OIDForCurve returns the registry OID for a live curve. Only curves
// produced by this package's registry are recognized.
func OIDForCurve(curve elliptic.Curve) (asn1.ObjectIdentifier, error) {
	oid, ok := oidByCurve[curve]
	if !ok {
		return nil, ErrUnknownCurve
	}
	return oid, nil
}

// Degree returns the bit-length of the field a curve is defined over,
// the strength proxy used by recovery-key selection.
func Degree(curve elliptic.Curve) int {
	return curve.Params().BitSize
}
