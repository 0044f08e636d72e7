package wire

import (
	"encoding/asn1"
	"fmt"
)

// MaxDatagramSize bounds an encoded message to the UDP payload ceiling.
// Encode rejects any DER form that would not fit.
const MaxDatagramSize = 65507

// Marshal DER-encodes a message. On failure the returned byte slice is
// always nil: there are no partial results.
func Marshal(m *Message) ([]byte, error) {
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("wire: refusing to encode invalid message: %w", err)
	}
	data, err := asn1.Marshal(*m)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal: %w", err)
	}
	if len(data) > MaxDatagramSize {
		return nil, fmt.Errorf("wire: encoded message is %d bytes, exceeds %d-byte datagram ceiling", len(data), MaxDatagramSize)
	}
	return data, nil
}

// Unmarshal decodes DER bytes into a message. It fails if the input is
// not valid DER, is not of the expected outer SEQUENCE tag, carries
// trailing bytes, or its alternative cannot be determined.
func Unmarshal(data []byte) (*Message, error) {
	if len(data) > MaxDatagramSize {
		return nil, fmt.Errorf("wire: input is %d bytes, exceeds %d-byte datagram ceiling", len(data), MaxDatagramSize)
	}
	var m Message
	rest, err := asn1.Unmarshal(data, &m)
	if err != nil {
		return nil, fmt.Errorf("wire: unmarshal: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("wire: %d trailing bytes after message", len(rest))
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("wire: decoded message is invalid: %w", err)
	}
	return &m, nil
}

// EncodeAdvRequest encodes an advertisement request.
func EncodeAdvRequest(req *AdvRequest) ([]byte, error) {
	return Marshal(&Message{AdvRequest: req})
}

// DecodeAdvRequest decodes an advertisement request.
func DecodeAdvRequest(data []byte) (*AdvRequest, error) {
	m, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if m.AdvRequest == nil {
		return nil, fmt.Errorf("wire: expected advertisement request, got %s", m.Kind())
	}
	return m.AdvRequest, nil
}

// EncodeAdvReply encodes an advertisement reply.
func EncodeAdvReply(reply *Reply) ([]byte, error) {
	return Marshal(&Message{AdvReply: reply})
}

// DecodeAdvReply decodes an advertisement reply.
func DecodeAdvReply(data []byte) (*Reply, error) {
	m, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if m.AdvReply == nil {
		return nil, fmt.Errorf("wire: expected advertisement reply, got %s", m.Kind())
	}
	return m.AdvReply, nil
}

// EncodeRecoveryRequest encodes a recovery request.
func EncodeRecoveryRequest(req *RecoveryRequest) ([]byte, error) {
	return Marshal(&Message{RecoveryRequest: req})
}

// DecodeRecoveryRequest decodes a recovery request.
func DecodeRecoveryRequest(data []byte) (*RecoveryRequest, error) {
	m, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if m.RecoveryRequest == nil {
		return nil, fmt.Errorf("wire: expected recovery request, got %s", m.Kind())
	}
	return m.RecoveryRequest, nil
}

// EncodeRecoveryReply encodes a recovery reply.
func EncodeRecoveryReply(reply *RecoveryReply) ([]byte, error) {
	return Marshal(&Message{RecoveryReply: reply})
}

// DecodeRecoveryReply decodes a recovery reply.
func DecodeRecoveryReply(data []byte) (*RecoveryReply, error) {
	m, err := Unmarshal(data)
	if err != nil {
		return nil, err
	}
	if m.RecoveryReply == nil {
		return nil, fmt.Errorf("wire: expected recovery reply, got %s", m.Kind())
	}
	return m.RecoveryReply, nil
}

// EncodeError encodes an error reply.
func EncodeError(code ErrVal) ([]byte, error) {
	return Marshal(&Message{Error: &ErrorMsg{Code: code}})
}

// DecodeError decodes an error reply.
func DecodeError(data []byte) (ErrVal, error) {
	m, err := Unmarshal(data)
	if err != nil {
		return ErrUnknown, err
	}
	if m.Error == nil {
		return ErrUnknown, fmt.Errorf("wire: expected error message, got %s", m.Kind())
	}
	return m.Error.Code, nil
}

// EncodeBody canonically DER-encodes an advertisement body. Two
// invocations on structurally equal bodies produce byte-equal output
// because DER itself is a
// canonical encoding and Body carries no field whose canonical form is
// ambiguous.
func EncodeBody(b *Body) ([]byte, error) {
	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("wire: refusing to encode invalid body: %w", err)
	}
	data, err := asn1.Marshal(*b)
	if err != nil {
		return nil, fmt.Errorf("wire: marshal body: %w", err)
	}
	return data, nil
}
