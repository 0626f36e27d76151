package storage

import (
	"encoding/json"
	"fmt"
	"time"
)

// Meta is the unencrypted companion record kept alongside the sealed
// envelope. It lets callers answer "is there saved data, and how long
// until it expires" without a passphrase and without touching the
// ciphertext.
type Meta struct {
	SavedAt   time.Time `json:"savedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Encode serializes the meta record for storage
func (m *Meta) Encode() ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode meta: %w", err)
	}
	return data, nil
}

// DecodeMeta parses a stored meta record
func DecodeMeta(data []byte) (*Meta, error) {
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to decode meta: %w", err)
	}
	return &m, nil
}

// Valid reports whether the record still points at loadable data
func (m *Meta) Valid(now time.Time) bool {
	return now.Before(m.ExpiresAt)
}
