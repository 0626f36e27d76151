package envelope

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/draftlock/draftlock/internal/crypto"
)

// Legacy is the version 1 record: a single flat file kept next to the
// database by pre-bbolt releases. The sealed field packs
// nonce || ciphertext || tag into one blob and there is no retention
// window.
type Legacy struct {
	Version int       `json:"version"`
	Salt    []byte    `json:"salt"`
	Sealed  []byte    `json:"sealed"`
	SavedAt time.Time `json:"savedAt"`
}

// DecodeLegacy parses a version 1 flat-file record
func DecodeLegacy(data []byte) (*Legacy, error) {
	var l Legacy
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if l.Version != VersionLegacy {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, l.Version)
	}
	if len(l.Salt) != crypto.SaltSize {
		return nil, fmt.Errorf("%w: salt is %d bytes", ErrMalformed, len(l.Salt))
	}
	if len(l.Sealed) < crypto.NonceSize+crypto.TagSize+1 {
		return nil, fmt.Errorf("%w: sealed blob too short", ErrMalformed)
	}
	return &l, nil
}

// Parts splits the packed sealed blob into nonce, ciphertext and tag
func (l *Legacy) Parts() (nonce, ciphertext, tag []byte) {
	nonce = l.Sealed[:crypto.NonceSize]
	ciphertext = l.Sealed[crypto.NonceSize : len(l.Sealed)-crypto.TagSize]
	tag = l.Sealed[len(l.Sealed)-crypto.TagSize:]
	return nonce, ciphertext, tag
}

// EncodeLegacy builds a version 1 record from its parts. Only migration
// tests produce legacy records; current code never writes this format.
func EncodeLegacy(salt, nonce, ciphertext, tag []byte, savedAt time.Time) ([]byte, error) {
	sealed := make([]byte, 0, len(nonce)+len(ciphertext)+len(tag))
	sealed = append(sealed, nonce...)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	data, err := json.Marshal(&Legacy{
		Version: VersionLegacy,
		Salt:    salt,
		Sealed:  sealed,
		SavedAt: savedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode legacy envelope: %w", err)
	}
	return data, nil
}
