package wire

import (
	"encoding/asn1"
	"errors"

	"github.com/tang-go/tang/pkg/tangkey"
)

// MsgKind identifies which alternative of the outer message choice is
// present.
type MsgKind int

const (
	MsgKindUnknown       MsgKind = 0
	MsgKindAdvRequest    MsgKind = 1
	MsgKindAdvReply      MsgKind = 2
	MsgKindRecoveryReq   MsgKind = 3
	MsgKindRecoveryReply MsgKind = 4
	MsgKindError         MsgKind = 5
)

// String returns the message kind name.
func (k MsgKind) String() string {
	switch k {
	case MsgKindAdvRequest:
		return "ADV_REQUEST"
	case MsgKindAdvReply:
		return "ADV_REPLY"
	case MsgKindRecoveryReq:
		return "RECOVERY_REQUEST"
	case MsgKindRecoveryReply:
		return "RECOVERY_REPLY"
	case MsgKindError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// AdvRequestKind distinguishes the two AdvRequest alternatives: KEYS
// names specific server keys by value, GRPS lists acceptable curves.
type AdvRequestKind int

const (
	AdvRequestKeys AdvRequestKind = 1
	AdvRequestGrps AdvRequestKind = 2
)

// AdvRequest is an advertisement request. Exactly one of Keys or Groups
// is populated, selected by Kind; Algorithms lists the signature
// algorithms the requester will accept in the reply.
type AdvRequest struct {
	Kind       AdvRequestKind
	Keys       []tangkey.Key           `asn1:"optional,omitempty"`
	Groups     []asn1.ObjectIdentifier `asn1:"optional,omitempty"`
	Algorithms []asn1.ObjectIdentifier
}

// Validate checks the structural well-formedness of a decoded request.
func (r *AdvRequest) Validate() error {
	switch r.Kind {
	case AdvRequestKeys:
		if len(r.Keys) == 0 {
			return errors.New("wire: KEYS request names no keys")
		}
	case AdvRequestGrps:
		if len(r.Groups) == 0 {
			return errors.New("wire: GRPS request names no groups")
		}
	default:
		return errors.New("wire: unknown advertisement request kind")
	}
	if len(r.Algorithms) == 0 {
		return errors.New("wire: advertisement request names no accepted algorithms")
	}
	return nil
}

// Body is the signed region of an advertisement reply: an ordered
// sequence of Tang keys. The same DER bytes must be produced for the
// same Body on both signer and verifier, which is why Body carries no
// field that is not itself canonically DER-encodable.
type Body struct {
	Keys []tangkey.Key
}

// Validate checks the minimum-key and tag-coverage invariants: at
// least two keys, with at least one SIG-tagged and at least one
// REC-tagged.
func (b *Body) Validate() error {
	if len(b.Keys) < 2 {
		return errors.New("wire: advertisement body has fewer than two keys")
	}
	var haveSig, haveRec bool
	for _, k := range b.Keys {
		switch k.Use {
		case tangkey.UseSig:
			haveSig = true
		case tangkey.UseRec:
			haveRec = true
		}
	}
	if !haveSig || !haveRec {
		return errors.New("wire: advertisement body lacks a SIG or REC key")
	}
	return nil
}

// Reply pairs a signed Body with the signatures over it. Signatures is
// ordered; each element must verify against some SIG-tagged key inside
// Body.
type Reply struct {
	Body       Body
	Signatures []tangkey.Signature
}

// Validate checks the minimum-signature invariant and delegates to
// Body.Validate for the key invariants.
func (r *Reply) Validate() error {
	if len(r.Signatures) == 0 {
		return errors.New("wire: advertisement reply carries no signatures")
	}
	return r.Body.Validate()
}

// RecoveryRequest carries the server's selected REC key (echoed
// verbatim) and the client's ephemeral public point, encoded as an
// octet string.
type RecoveryRequest struct {
	Key    tangkey.Key
	XPoint []byte
}

// RecoveryReply carries the server's contribution to the blinding
// exchange when a previously-persisted recovery request is later
// resolved (the "recover" path; the client core's bind operation never
// sends this message, since the client already holds the server's
// public point directly from the advertisement — see DESIGN.md for why
// this type exists despite not appearing in the core API list).
type RecoveryReply struct {
	YPoint []byte
}

// ErrorMsg is the wire error reply.
type ErrorMsg struct {
	Code ErrVal
}

// Message is the outer CHOICE: exactly one field is populated on the
// wire, selected by Kind.
type Message struct {
	AdvRequest      *AdvRequest      `asn1:"optional,tag:0"`
	AdvReply        *Reply           `asn1:"optional,tag:1"`
	RecoveryRequest *RecoveryRequest `asn1:"optional,tag:2"`
	RecoveryReply   *RecoveryReply   `asn1:"optional,tag:3"`
	Error           *ErrorMsg        `asn1:"optional,tag:4"`
}

// Kind reports which alternative is populated, or MsgKindUnknown if
// none (or more than one, which Validate rejects) is set.
func (m *Message) Kind() MsgKind {
	switch {
	case m.AdvRequest != nil:
		return MsgKindAdvRequest
	case m.AdvReply != nil:
		return MsgKindAdvReply
	case m.RecoveryRequest != nil:
		return MsgKindRecoveryReq
	case m.RecoveryReply != nil:
		return MsgKindRecoveryReply
	case m.Error != nil:
		return MsgKindError
	default:
		return MsgKindUnknown
	}
}

// Validate checks that exactly one alternative is populated and that it
// is itself well-formed.
func (m *Message) Validate() error {
	set := 0
	for _, present := range []bool{
		m.AdvRequest != nil,
		m.AdvReply != nil,
		m.RecoveryRequest != nil,
		m.RecoveryReply != nil,
		m.Error != nil,
	} {
		if present {
			set++
		}
	}
	switch set {
	case 0:
		return errors.New("wire: message carries no recognized alternative")
	case 1:
		// fall through to per-alternative validation below
	default:
		return errors.New("wire: message carries more than one alternative")
	}

	switch {
	case m.AdvRequest != nil:
		return m.AdvRequest.Validate()
	case m.AdvReply != nil:
		return m.AdvReply.Validate()
	case m.RecoveryRequest != nil:
		if len(m.RecoveryRequest.XPoint) == 0 {
			return errors.New("wire: recovery request carries no ephemeral point")
		}
	case m.RecoveryReply != nil:
		if len(m.RecoveryReply.YPoint) == 0 {
			return errors.New("wire: recovery reply carries no point")
		}
	}
	return nil
}
