package advertisement

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/tang-go/tang/pkg/ecconv"
	"github.com/tang-go/tang/pkg/tangerr"
	"github.com/tang-go/tang/pkg/tangkey"
	"github.com/tang-go/tang/pkg/wire"
)

// Verify checks that reply is signed, under every attached signature,
// by at least one SIG-tagged key contained in reply's own body. It
// returns nil on acceptance, or a wrapped tangerr.ErrVerification on
// rejection (tangerr.ErrInternal if the body cannot be encoded). A SIG
// key that does not decode is skipped, not reported.
//
// Ordering is significant only for reproducibility in tests: signatures
// are checked in reply order, against keys in body order, and the first
// satisfying key is accepted for a given signature.
func Verify(reply *wire.Reply) error {
	if err := reply.Validate(); err != nil {
		return fmt.Errorf("%w: %v", tangerr.ErrVerification, err)
	}

	bodyDER, err := wire.EncodeBody(&reply.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", tangerr.ErrInternal, err)
	}

	sigKeys := make([]*ecdsa.PublicKey, 0, len(reply.Body.Keys))
	for _, k := range reply.Body.Keys {
		if k.Use != tangkey.UseSig {
			continue
		}
		pub, err := ecconv.ToPublicKey(k)
		if err != nil {
			// A malformed SIG key in the body is not itself a reason to
			// reject the reply outright: it simply can't satisfy any
			// signature. Skip it.
			continue
		}
		sigKeys = append(sigKeys, pub)
	}

	for _, sig := range reply.Signatures {
		if !verifiesUnderAnyKey(bodyDER, sig, sigKeys) {
			return fmt.Errorf("%w: a signature does not verify under any SIG key in the body", tangerr.ErrVerification)
		}
	}
	return nil
}

func verifiesUnderAnyKey(bodyDER []byte, sig tangkey.Signature, keys []*ecdsa.PublicKey) bool {
	alg := tangkey.SigAlgByOID(sig.Alg)
	h := hashForAlg(alg)
	if h == 0 || !h.Available() {
		return false
	}

	hasher := h.New()
	hasher.Write(bodyDER)
	digest := hasher.Sum(nil)

	for _, pub := range keys {
		if ecdsa.VerifyASN1(pub, digest, sig.Value) {
			return true
		}
	}
	return false
}
