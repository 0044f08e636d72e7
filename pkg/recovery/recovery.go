package recovery

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"

	"github.com/tang-go/tang/pkg/ecconv"
	"github.com/tang-go/tang/pkg/skey"
	"github.com/tang-go/tang/pkg/tangerr"
	"github.com/tang-go/tang/pkg/tangkey"
	"github.com/tang-go/tang/pkg/wire"
)

// recDegreeFactor is the ratio of required curve degree (bits) to
// minKeySize (bytes): an n-byte symmetric key needs roughly 8*n bits
// of security, and the discrete-log problem on a curve of degree d
// gives only about d/2 bits of security, so the curve must supply
// d >= 16*n bits.
const recDegreeFactor = 16

// SelectKey walks body's keys in wire order and returns the first
// REC-tagged key whose curve degree is at least recDegreeFactor *
// minKeySize bits. Selection never picks the "strongest" available
// curve — only the first that clears the bar — so the server keeps
// control of which key clients converge on.
func SelectKey(body *wire.Body, minKeySize int) (tangkey.Key, error) {
	for _, k := range body.Keys {
		if k.Use != tangkey.UseRec {
			continue
		}
		curve, err := tangkey.CurveByOID(k.Curve)
		if err != nil {
			continue
		}
		if tangkey.Degree(curve) >= recDegreeFactor*minKeySize {
			return k, nil
		}
	}
	return tangkey.Key{}, tangerr.ErrNotFoundKey
}

// Result is the output of Build: the persistable recovery request and
// the derived shared secret. Secret must be released by the caller
// (pkg/skey); it is never returned zeroed and never copied implicitly.
type Result struct {
	Request *wire.RecoveryRequest
	Secret  *skey.Skey
}

// Build selects a REC key from reply's body (requiring a curve degree of
// at least recDegreeFactor*minKeySize bits, see SelectKey), generates an ephemeral keypair on that
// key's curve, computes the shared point P = [l]·R, and returns the
// recovery request record plus the derived secret.
//
// On any failure the ephemeral private scalar is discarded and no
// partial Result is returned.
func Build(reply *wire.Reply, minKeySize int) (*Result, error) {
	recKey, err := SelectKey(&reply.Body, minKeySize)
	if err != nil {
		return nil, err
	}

	serverPub, err := ecconv.ToPublicKey(recKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tangerr.ErrMalformed, err)
	}

	ephemeral, err := ecdsa.GenerateKey(serverPub.Curve, rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("%w: generating ephemeral keypair: %v", tangerr.ErrInternal, err)
	}
	defer ephemeral.D.SetInt64(0)

	px, py := serverPub.Curve.ScalarMult(serverPub.X, serverPub.Y, ephemeral.D.Bytes())
	if px.Sign() == 0 && py.Sign() == 0 {
		return nil, fmt.Errorf("%w: shared point is the identity element", tangerr.ErrInternal)
	}

	req := &wire.RecoveryRequest{
		Key:    recKey,
		XPoint: ecconv.PointToOctet(serverPub.Curve, ephemeral.PublicKey.X, ephemeral.PublicKey.Y),
	}

	return &Result{
		Request: req,
		Secret:  skey.FromPoint(serverPub.Curve, px, py),
	}, nil
}

// FinalizeFromReply completes the recovery round-trip on a previously
// persisted request: given the curve the request was made on and the
// server's reply Y = [r]·L, the result is already the shared secret the
// server computed — no further work is needed, since L = [l]·G and the
// server computes [r]·L = [r]·l·G = [l]·r·G = [l]·R, the same point the
// client derived directly from R during Build. This helper exists for
// the "recover" path (reading back a sealed passphrase), which is not
// part of the core bind operation but is exercised by the
// messenger/codec stack; see DESIGN.md.
func FinalizeFromReply(curve elliptic.Curve, reply *wire.RecoveryReply) (*skey.Skey, error) {
	x, y, err := ecconv.OctetToPoint(curve, reply.YPoint)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tangerr.ErrMalformed, err)
	}
	return skey.FromPoint(curve, x, y), nil
}
