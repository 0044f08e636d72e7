package bindstate

import (
	"encoding/asn1"
	"errors"
	"fmt"

	"github.com/tang-go/tang/pkg/wire"
)

// Record is the persisted form of a completed bind operation: the
// recovery request sent to (or prepared for) the server, the address it
// was sent to, and whether the caller should listen for an unsolicited
// recovery reply rather than poll for one.
type Record struct {
	RecoveryRequest wire.RecoveryRequest
	Host            string `asn1:"utf8"`
	Service         string `asn1:"utf8"`
	Listen          bool
}

// Validate checks the minimum well-formedness of a decoded record.
func (r *Record) Validate() error {
	if len(r.RecoveryRequest.XPoint) == 0 {
		return errors.New("bindstate: record carries no ephemeral point")
	}
	if r.Host == "" {
		return errors.New("bindstate: record carries no host")
	}
	if r.Service == "" {
		return errors.New("bindstate: record carries no service")
	}
	return nil
}

// Encode DER-encodes a record for persistence.
func Encode(r *Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("bindstate: refusing to encode invalid record: %w", err)
	}
	return asn1.Marshal(*r)
}

// Decode reverses Encode.
func Decode(data []byte) (*Record, error) {
	var r Record
	rest, err := asn1.Unmarshal(data, &r)
	if err != nil {
		return nil, fmt.Errorf("bindstate: unmarshal: %w", err)
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("bindstate: %d trailing bytes after record", len(rest))
	}
	if err := r.Validate(); err != nil {
		return nil, fmt.Errorf("bindstate: decoded record is invalid: %w", err)
	}
	return &r, nil
}
