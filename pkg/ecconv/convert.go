package ecconv

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"errors"
	"math/big"

	"github.com/tang-go/tang/pkg/tangkey"
)

// Conversion errors.
var (
	ErrOffCurve       = errors.New("ecconv: point is not on the curve")
	ErrIdentity       = errors.New("ecconv: point is the identity element")
	ErrInvalidEncoding = errors.New("ecconv: invalid point octet string")
)

// ToPublicKey converts a Tang key to a live EC public key and its group.
// It fails if the curve OID is unknown (tangkey.ErrUnknownCurve) or the
// point octet string does not decode to a point on the curve; see
// OctetToPoint for which error that yields.
func ToPublicKey(k tangkey.Key) (*ecdsa.PublicKey, error) {
	curve, err := tangkey.CurveByOID(k.Curve)
	if err != nil {
		return nil, err
	}

	x, y, err := OctetToPoint(curve, k.Point)
	if err != nil {
		return nil, err
	}

	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

// FromPublicKey converts a live EC public key to a Tang key tagged with
// the given use. It fails only if the key's curve is not in the
// built-in registry.
func FromPublicKey(pub *ecdsa.PublicKey, use tangkey.Use) (tangkey.Key, error) {
	oid, err := tangkey.OIDForCurve(pub.Curve)
	if err != nil {
		return tangkey.Key{}, err
	}

	return tangkey.Key{
		Curve: oid,
		Point: PointToOctet(pub.Curve, pub.X, pub.Y),
		Use:   use,
	}, nil
}

// PointToOctet encodes a curve point in SEC1 uncompressed octet-string
// form: 0x04 || X || Y, each field element left-padded to the curve's
// byte size.
func PointToOctet(curve elliptic.Curve, x, y *big.Int) []byte {
	return elliptic.Marshal(curve, x, y)
}

// OctetToPoint decodes a SEC1 uncompressed octet string back into curve
// coordinates, validating that the result is on the curve and is not
// the identity element. For the registry curves elliptic.Unmarshal
// already rejects off-curve and identity encodings, so those are
// reported as ErrInvalidEncoding; ErrIdentity and ErrOffCurve are only
// returned for coordinates that elliptic.Unmarshal accepted.
// PointToOctet and OctetToPoint round-trip bit-exactly for any curve in
// the registry.
func OctetToPoint(curve elliptic.Curve, octet []byte) (*big.Int, *big.Int, error) {
	x, y := elliptic.Unmarshal(curve, octet)
	if x == nil {
		return nil, nil, ErrInvalidEncoding
	}
	if x.Sign() == 0 && y.Sign() == 0 {
		return nil, nil, ErrIdentity
	}
	if !curve.IsOnCurve(x, y) {
		return nil, nil, ErrOffCurve
	}
	return x, y, nil
}
