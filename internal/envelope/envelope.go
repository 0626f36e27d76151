package envelope

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/draftlock/draftlock/internal/crypto"
)

// Format versions. Version 1 is the pre-bbolt flat-file format and is
// understood only for migration; version 2 is the current record.
const (
	VersionLegacy  = 1
	VersionCurrent = 2
)

var (
	ErrMalformed          = errors.New("malformed envelope")
	ErrUnsupportedVersion = errors.New("unsupported envelope version")
)

// Envelope is the versioned record persisted for a saved draft. Binary
// fields are base64-encoded by the JSON marshaller, keeping the record
// safe for text-only key-value storage.
type Envelope struct {
	Version    int       `json:"version"`
	Salt       []byte    `json:"salt"`
	Nonce      []byte    `json:"nonce"`
	Ciphertext []byte    `json:"ciphertext"`
	Tag        []byte    `json:"tag"`
	CreatedAt  time.Time `json:"createdAt"`
	ExpiresAt  time.Time `json:"expiresAt"`
}

// New builds a current-version envelope from sealed draft material
func New(salt, nonce, ciphertext, tag []byte, createdAt, expiresAt time.Time) *Envelope {
	return &Envelope{
		Version:    VersionCurrent,
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: ciphertext,
		Tag:        tag,
		CreatedAt:  createdAt,
		ExpiresAt:  expiresAt,
	}
}

// Expired reports whether the envelope's retention window has passed
func (e *Envelope) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}

// Encode serializes the envelope for storage
func (e *Envelope) Encode() ([]byte, error) {
	if err := e.validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to encode envelope: %w", err)
	}
	return data, nil
}

func (e *Envelope) validate() error {
	if e.Version != VersionCurrent {
		return fmt.Errorf("%w: %d", ErrUnsupportedVersion, e.Version)
	}
	if len(e.Salt) != crypto.SaltSize {
		return fmt.Errorf("%w: salt is %d bytes", ErrMalformed, len(e.Salt))
	}
	if len(e.Nonce) != crypto.NonceSize {
		return fmt.Errorf("%w: nonce is %d bytes", ErrMalformed, len(e.Nonce))
	}
	if len(e.Tag) != crypto.TagSize {
		return fmt.Errorf("%w: tag is %d bytes", ErrMalformed, len(e.Tag))
	}
	if len(e.Ciphertext) == 0 {
		return fmt.Errorf("%w: empty ciphertext", ErrMalformed)
	}
	return nil
}

// decoders dispatches on the stored format version. Future format
// changes register a new entry here instead of sniffing the record.
var decoders = map[int]func([]byte) (*Envelope, error){
	VersionCurrent: decodeCurrent,
}

// Decode parses a stored record, dispatching on its version field.
// Legacy (version 1) records live in a different location and shape;
// they are handled by DecodeLegacy during migration, never here.
func Decode(data []byte) (*Envelope, error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	decode, ok := decoders[probe.Version]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, probe.Version)
	}
	return decode(data)
}

func decodeCurrent(data []byte) (*Envelope, error) {
	var e Envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := e.validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
