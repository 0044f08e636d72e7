package advertisement

import (
	"crypto"
	_ "crypto/sha256" // register SHA-224/256
	_ "crypto/sha512" // register SHA-384/512

	"github.com/tang-go/tang/pkg/tangkey"
)

// hashForAlg maps a signature algorithm to the hash function its OID
// names. An unknown
// algorithm maps to the zero crypto.Hash, which callers must treat as a
// failing signature, not a panic.
func hashForAlg(alg tangkey.SigAlg) crypto.Hash {
	switch alg {
	case tangkey.SigAlgECDSASHA224:
		return crypto.SHA224
	case tangkey.SigAlgECDSASHA256:
		return crypto.SHA256
	case tangkey.SigAlgECDSASHA384:
		return crypto.SHA384
	case tangkey.SigAlgECDSASHA512:
		return crypto.SHA512
	default:
		return 0
	}
}
