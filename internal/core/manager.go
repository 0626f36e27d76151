package core

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/draftlock/draftlock/internal/config"
	"github.com/draftlock/draftlock/internal/crypto"
	"github.com/draftlock/draftlock/internal/envelope"
	"github.com/draftlock/draftlock/internal/storage"
)

var (
	ErrEmptyPayload         = errors.New("empty payload")
	ErrPassphraseTooShort   = errors.New("passphrase too short")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("no saved draft")
	ErrExpired              = errors.New("saved draft expired")
	ErrNoActivePassphrase   = errors.New("no active passphrase")
	ErrStorageWrite         = errors.New("storage write failed")
)

// Manager orchestrates passphrase-protected draft persistence: save,
// load, update, clear, the retention policy and the session passphrase
// cache. Construct one with Open and pass it to whoever needs it; there
// is no package-level instance.
type Manager struct {
	cfg        config.Config
	db         *storage.Store
	legacyPath string

	mu         sync.Mutex
	passphrase []byte // single-slot session cache

	now func() time.Time
}

// Open opens or creates the draft store at path. A successful return is
// the readiness signal: the store is fully usable, no polling needed.
func Open(path string, cfg config.Config) (*Manager, error) {
	db, err := storage.Open(path)
	if err != nil {
		return nil, err
	}

	legacyPath := cfg.LegacyPath
	if legacyPath == "" {
		legacyPath = filepath.Join(filepath.Dir(path), config.DefaultLegacyFile)
	}

	return &Manager{
		cfg:        cfg,
		db:         db,
		legacyPath: legacyPath,
		now:        time.Now,
	}, nil
}

// Close clears the session cache and releases the store
func (m *Manager) Close() error {
	m.forgetPassphrase()
	return m.db.Close()
}

// Save validates, seals and persists a draft under the passphrase,
// replacing any prior envelope wholesale. The passphrase is cached for
// subsequent Update calls in this session.
func (m *Manager) Save(payload, passphrase []byte) error {
	if len(payload) == 0 {
		return ErrEmptyPayload
	}
	if len(passphrase) < m.cfg.MinPassphraseLen {
		return ErrPassphraseTooShort
	}

	if err := m.persist(payload, passphrase); err != nil {
		return err
	}

	m.cachePassphrase(passphrase)
	return nil
}

// Load migrates any legacy record, then reads and opens the current
// envelope. An expired envelope is deleted and reported as ErrExpired;
// a wrong passphrase or corrupted record is reported as
// ErrAuthenticationFailed with the envelope left in place for retry.
func (m *Manager) Load(passphrase []byte) ([]byte, error) {
	if err := m.migrateIfNeeded(passphrase); err != nil {
		return nil, err
	}

	raw, err := m.db.GetEnvelope()
	if err != nil {
		return nil, err
	}
	if raw == nil {
		// A legacy record that would not open above is addressable
		// data behind the wrong passphrase, not missing data.
		if m.legacyAddressable() {
			return nil, ErrAuthenticationFailed
		}
		return nil, ErrNotFound
	}

	env, err := envelope.Decode(raw)
	if err != nil {
		// An unreadable record is indistinguishable from tampering
		return nil, ErrAuthenticationFailed
	}

	if env.Expired(m.now()) {
		if err := m.db.DeleteSlot(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageWrite, err)
		}
		return nil, ErrExpired
	}

	key, err := crypto.DeriveKey(passphrase, env.Salt)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(key)

	c, err := crypto.NewCipher(key)
	if err != nil {
		return nil, err
	}
	defer c.Destroy()

	payload, err := c.Open(env.Nonce, env.Ciphertext, env.Tag)
	if err != nil {
		return nil, ErrAuthenticationFailed
	}

	m.cachePassphrase(passphrase)
	return payload, nil
}

// Update re-saves a draft under the session-cached passphrase, with a
// fresh salt and nonce exactly like Save. Fails with
// ErrNoActivePassphrase if no Save or Load succeeded in this session.
func (m *Manager) Update(payload []byte) error {
	if len(payload) == 0 {
		return ErrEmptyPayload
	}

	m.mu.Lock()
	passphrase := append([]byte(nil), m.passphrase...)
	m.mu.Unlock()
	if len(passphrase) == 0 {
		return ErrNoActivePassphrase
	}
	defer crypto.ClearBytes(passphrase)

	return m.persist(payload, passphrase)
}

// Clear deletes the stored draft, any legacy record and the session
// cache. Idempotent when nothing is stored.
func (m *Manager) Clear() error {
	m.forgetPassphrase()

	if err := m.db.DeleteSlot(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	if err := os.Remove(m.legacyPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

// HasStoredData reports whether a loadable draft exists. Inspects only
// the unencrypted meta record; never decrypts and never deletes
// (expiration cleanup happens only on Load).
func (m *Manager) HasStoredData() (bool, error) {
	raw, err := m.db.GetMeta()
	if err != nil {
		return false, err
	}
	if raw == nil {
		// An un-migrated legacy draft still counts as stored data
		return m.legacyAddressable(), nil
	}

	meta, err := storage.DecodeMeta(raw)
	if err != nil {
		return false, nil
	}
	return meta.Valid(m.now()), nil
}

// RemainingDays reports how many days the stored draft remains
// loadable. The second return is false when no loadable draft exists.
// Metadata-only, like HasStoredData.
func (m *Manager) RemainingDays() (int, bool, error) {
	raw, err := m.db.GetMeta()
	if err != nil {
		return 0, false, err
	}
	if raw == nil {
		return 0, false, nil
	}

	meta, err := storage.DecodeMeta(raw)
	if err != nil {
		return 0, false, nil
	}
	now := m.now()
	if !meta.Valid(now) {
		return 0, false, nil
	}

	days := int(math.Ceil(meta.ExpiresAt.Sub(now).Hours() / 24))
	return days, true, nil
}

// RetentionDays returns the configured retention policy
func (m *Manager) RetentionDays() int {
	return m.cfg.RetentionDays
}

// HasSessionPassphrase reports whether a passphrase is cached for
// Update calls.
func (m *Manager) HasSessionPassphrase() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.passphrase) > 0
}

// StoreID retrieves the store's identity, creating it on first use.
// Keys the OS keyring entry for this store.
func (m *Manager) StoreID() (string, error) {
	return m.db.GetOrCreateStoreID()
}

// persist seals the payload under a fresh salt and nonce and replaces
// the envelope and meta records in one transaction. Save validates
// caller input first; the migration path comes here directly.
func (m *Manager) persist(payload, passphrase []byte) error {
	if len(payload) > m.cfg.MaxPayloadBytes {
		return fmt.Errorf("%w: payload is %d bytes, limit is %d",
			ErrStorageWrite, len(payload), m.cfg.MaxPayloadBytes)
	}

	salt, err := crypto.NewSalt()
	if err != nil {
		return err
	}
	nonce, err := crypto.NewNonce()
	if err != nil {
		return err
	}

	key, err := crypto.DeriveKey(passphrase, salt)
	if err != nil {
		return err
	}
	defer crypto.ClearBytes(key)

	c, err := crypto.NewCipher(key)
	if err != nil {
		return err
	}
	defer c.Destroy()

	ciphertext, tag, err := c.Seal(nonce, payload)
	if err != nil {
		return err
	}

	now := m.now()
	expires := now.Add(time.Duration(m.cfg.RetentionDays) * 24 * time.Hour)

	env := envelope.New(salt, nonce, ciphertext, tag, now, expires)
	envData, err := env.Encode()
	if err != nil {
		return err
	}

	meta := storage.Meta{SavedAt: now, ExpiresAt: expires}
	metaData, err := meta.Encode()
	if err != nil {
		return err
	}

	if err := m.db.ReplaceSlot(envData, metaData); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageWrite, err)
	}
	return nil
}

// cachePassphrase overwrites the session cache with a copy
func (m *Manager) cachePassphrase(passphrase []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	crypto.ClearBytes(m.passphrase)
	m.passphrase = append([]byte(nil), passphrase...)
}

func (m *Manager) forgetPassphrase() {
	m.mu.Lock()
	defer m.mu.Unlock()
	crypto.ClearBytes(m.passphrase)
	m.passphrase = nil
}
