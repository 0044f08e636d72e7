package advertisement

import (
	"crypto/ecdsa"
	"crypto/rand"
	"fmt"

	"github.com/tang-go/tang/pkg/ecconv"
	"github.com/tang-go/tang/pkg/tangerr"
	"github.com/tang-go/tang/pkg/tangkey"
	"github.com/tang-go/tang/pkg/wire"
)

// SupportedAlgorithms is the full set of signature algorithms a Builder
// precomputes signatures for.
var SupportedAlgorithms = []tangkey.SigAlg{
	tangkey.SigAlgECDSASHA224,
	tangkey.SigAlgECDSASHA256,
	tangkey.SigAlgECDSASHA384,
	tangkey.SigAlgECDSASHA512,
}

// KeyRecord is one entry of a server's local key database: an EC
// keypair tagged SIG or REC, and whether it should be included in the
// advertisement body.
type KeyRecord struct {
	Private   *ecdsa.PrivateKey
	Use       tangkey.Use
	Advertise bool
}

type sigRecord struct {
	signerAdvertised bool
	signerKey        tangkey.Key
	alg              tangkey.SigAlg
	sig              tangkey.Signature
}

// Builder mirrors the server side of the advertisement protocol closely
// enough to test the Verifier against a real signer. A
// Builder is not safe for concurrent use; callers needing concurrent
// access should guard it themselves.
type Builder struct {
	body    wire.Body
	bodyDER []byte
	sigs    []sigRecord
}

// NewBuilder builds the advertisement body from every key marked
// Advertise, DER-encodes it once, and precomputes the Cartesian product
// of (signing key × SupportedAlgorithms) signatures over that encoding.
func NewBuilder(keys []KeyRecord) (*Builder, error) {
	b := &Builder{}

	for _, kr := range keys {
		if !kr.Advertise {
			continue
		}
		k, err := ecconv.FromPublicKey(&kr.Private.PublicKey, kr.Use)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", tangerr.ErrInternal, err)
		}
		b.body.Keys = append(b.body.Keys, k)
	}

	bodyDER, err := wire.EncodeBody(&b.body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tangerr.ErrInternal, err)
	}
	b.bodyDER = bodyDER

	for _, kr := range keys {
		if kr.Use != tangkey.UseSig {
			continue
		}
		signerKey, err := ecconv.FromPublicKey(&kr.Private.PublicKey, tangkey.UseSig)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", tangerr.ErrInternal, err)
		}
		for _, alg := range SupportedAlgorithms {
			sigVal, err := sign(kr.Private, bodyDER, alg)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", tangerr.ErrInternal, err)
			}
			b.sigs = append(b.sigs, sigRecord{
				signerAdvertised: kr.Advertise,
				signerKey:        signerKey,
				alg:              alg,
				sig:              tangkey.Signature{Alg: alg.OID(), Value: sigVal},
			})
		}
	}

	return b, nil
}

func sign(priv *ecdsa.PrivateKey, bodyDER []byte, alg tangkey.SigAlg) ([]byte, error) {
	h := hashForAlg(alg)
	if h == 0 || !h.Available() {
		return nil, fmt.Errorf("advertisement: unsupported signature algorithm %s", alg)
	}
	hasher := h.New()
	hasher.Write(bodyDER)
	digest := hasher.Sum(nil)
	return ecdsa.SignASN1(rand.Reader, priv, digest)
}

// Build selects, from the precomputed signature set, the subset whose
// algorithm is in req's accepted algorithms and whose signing key
// satisfies req's KEYS/GRPS constraint, attaches them to the cached
// body, and returns the reply. The selection is recomputed fresh for
// every call — nothing about the previous request's selection survives
// between calls. Returns tangerr.ErrNotFoundKey if the selection is empty.
func (b *Builder) Build(req *wire.AdvRequest) (*wire.Reply, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", tangerr.ErrMalformed, err)
	}

	algSet := make(map[string]bool, len(req.Algorithms))
	for _, oid := range req.Algorithms {
		algSet[oid.String()] = true
	}

	var selected []tangkey.Signature
	for _, rec := range b.sigs {
		if !algSet[rec.alg.OID().String()] {
			continue
		}
		// A GRPS request is answered from the advertisement body alone,
		// so only signatures from advertised keys can ever verify
		// against it; a KEYS request names the signer explicitly and so
		// is exempt from this restriction.
		if req.Kind == wire.AdvRequestGrps && !rec.signerAdvertised {
			continue
		}
		if !matchesRequest(rec.signerKey, req) {
			continue
		}
		selected = append(selected, rec.sig)
	}

	if len(selected) == 0 {
		return nil, tangerr.ErrNotFoundKey
	}

	return &wire.Reply{Body: b.body, Signatures: selected}, nil
}

func matchesRequest(signer tangkey.Key, req *wire.AdvRequest) bool {
	switch req.Kind {
	case wire.AdvRequestGrps:
		for _, oid := range req.Groups {
			if signer.Curve.Equal(oid) {
				return true
			}
		}
		return false
	case wire.AdvRequestKeys:
		for _, k := range req.Keys {
			if signer.Equal(k) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
