package core

import (
	"fmt"
	"os"

	"github.com/draftlock/draftlock/internal/crypto"
	"github.com/draftlock/draftlock/internal/envelope"
)

// migrateIfNeeded upgrades a legacy flat-file draft into the current
// envelope format: open it with the supplied passphrase, re-seal it
// through the normal save path (fresh salt and nonce, current format,
// current retention window) and delete the legacy file. Once migrated,
// the legacy file no longer exists and later calls are no-ops.
//
// A legacy record that cannot be opened is not an error: migration is
// deferred until a load supplies the right passphrase. Only a storage
// write failure during re-sealing is surfaced.
func (m *Manager) migrateIfNeeded(passphrase []byte) error {
	data, err := os.ReadFile(m.legacyPath)
	if err != nil {
		return nil
	}

	legacy, err := envelope.DecodeLegacy(data)
	if err != nil {
		return nil
	}
	nonce, ciphertext, tag := legacy.Parts()

	key, err := crypto.DeriveKey(passphrase, legacy.Salt)
	if err != nil {
		return nil
	}
	defer crypto.ClearBytes(key)

	c, err := crypto.NewCipher(key)
	if err != nil {
		return nil
	}
	defer c.Destroy()

	payload, err := c.Open(nonce, ciphertext, tag)
	if err != nil {
		return nil
	}
	defer crypto.ClearBytes(payload)

	if err := m.persist(payload, passphrase); err != nil {
		return err
	}
	if err := os.Remove(m.legacyPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

// legacyAddressable reports whether a decodable legacy record exists
func (m *Manager) legacyAddressable() bool {
	data, err := os.ReadFile(m.legacyPath)
	if err != nil {
		return false
	}
	_, err = envelope.DecodeLegacy(data)
	return err == nil
}
