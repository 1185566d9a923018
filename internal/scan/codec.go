package scan

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// Decode parses a CBOR-encoded scan message. Sources call this once per
// received payload; a decode error means the payload should be skipped, not
// that the source should stop.
func Decode(payload []byte) (*Message, error) {
	var m Message
	if err := cbor.Unmarshal(payload, &m); err != nil {
		return nil, fmt.Errorf("failed to decode scan message: %w", err)
	}
	return &m, nil
}

// Encode serialises a scan message to CBOR. Used by the synthetic source,
// replay tooling and tests; live sensors produce their own payloads.
func Encode(m *Message) ([]byte, error) {
	data, err := cbor.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode scan message: %w", err)
	}
	return data, nil
}
