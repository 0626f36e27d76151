package core

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/draftlock/draftlock/internal/config"
	"github.com/draftlock/draftlock/internal/envelope"
)

func openTestManager(t *testing.T) *Manager {
	t.Helper()
	path := filepath.Join(t.TempDir(), config.DefaultStoreFile)

	m, err := Open(path, config.Default())
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := openTestManager(t)
	payload := []byte(`{"title":"Report"}`)
	passphrase := []byte("apple123")

	if err := m.Save(payload, passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := m.Load(passphrase)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(loaded, payload) {
		t.Errorf("Payload mismatch: got %s, want %s", loaded, payload)
	}
}

func TestLoadWrongPassphrase(t *testing.T) {
	m := openTestManager(t)
	payload := []byte(`{"title":"Report"}`)

	if err := m.Save(payload, []byte("apple123")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	if _, err := m.Load([]byte("wrong")); err != ErrAuthenticationFailed {
		t.Errorf("Expected ErrAuthenticationFailed, got %v", err)
	}

	// The envelope survives a failed attempt so the caller can retry
	loaded, err := m.Load([]byte("apple123"))
	if err != nil {
		t.Fatalf("Load after failed attempt failed: %v", err)
	}
	if !bytes.Equal(loaded, payload) {
		t.Error("Payload mismatch after retry")
	}
}

func TestSaveValidation(t *testing.T) {
	m := openTestManager(t)

	if err := m.Save(nil, []byte("apple123")); err != ErrEmptyPayload {
		t.Errorf("Expected ErrEmptyPayload, got %v", err)
	}
	if err := m.Save([]byte("data"), []byte("abc")); err != ErrPassphraseTooShort {
		t.Errorf("Expected ErrPassphraseTooShort, got %v", err)
	}
	if err := m.Save([]byte("data"), nil); err != ErrPassphraseTooShort {
		t.Errorf("Expected ErrPassphraseTooShort for empty passphrase, got %v", err)
	}

	// Nothing was persisted by the rejected saves
	if _, err := m.Load([]byte("apple123")); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestSavePayloadTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), config.DefaultStoreFile)
	cfg := config.Default()
	cfg.MaxPayloadBytes = 64

	m, err := Open(path, cfg)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer m.Close()

	small := []byte("fits")
	if err := m.Save(small, []byte("apple123")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	big := bytes.Repeat([]byte("x"), 65)
	if err := m.Save(big, []byte("apple123")); !errors.Is(err, ErrStorageWrite) {
		t.Errorf("Expected ErrStorageWrite, got %v", err)
	}

	// The rejected save did not corrupt the previous envelope
	loaded, err := m.Load([]byte("apple123"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !bytes.Equal(loaded, small) {
		t.Error("Prior envelope should survive a rejected save")
	}
}

func TestProbabilisticEncryption(t *testing.T) {
	m := openTestManager(t)
	payload := []byte(`{"title":"Report"}`)
	passphrase := []byte("apple123")

	readEnvelope := func() *envelope.Envelope {
		t.Helper()
		raw, err := m.db.GetEnvelope()
		if err != nil || raw == nil {
			t.Fatalf("Failed to read stored envelope: %v", err)
		}
		env, err := envelope.Decode(raw)
		if err != nil {
			t.Fatalf("Failed to decode stored envelope: %v", err)
		}
		return env
	}

	if err := m.Save(payload, passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	first := readEnvelope()

	if err := m.Save(payload, passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	second := readEnvelope()

	if bytes.Equal(first.Salt, second.Salt) {
		t.Error("Two saves should use distinct salts")
	}
	if bytes.Equal(first.Nonce, second.Nonce) {
		t.Error("Two saves should use distinct nonces")
	}
	if bytes.Equal(first.Ciphertext, second.Ciphertext) {
		t.Error("Two saves of the same payload should produce distinct ciphertexts")
	}
}

func TestExpiration(t *testing.T) {
	m := openTestManager(t)
	payload := []byte(`{"title":"Report"}`)
	passphrase := []byte("apple123")

	if err := m.Save(payload, passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Jump past the retention window
	m.now = func() time.Time {
		return time.Now().Add(31 * 24 * time.Hour)
	}

	if _, err := m.Load(passphrase); err != ErrExpired {
		t.Errorf("Expected ErrExpired, got %v", err)
	}

	has, err := m.HasStoredData()
	if err != nil {
		t.Fatalf("HasStoredData failed: %v", err)
	}
	if has {
		t.Error("HasStoredData should be false after expiration cleanup")
	}

	// The envelope is gone; a retry is NotFound, not Expired
	if _, err := m.Load(passphrase); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after cleanup, got %v", err)
	}
}

func TestMetadataInspectionDoesNotDelete(t *testing.T) {
	m := openTestManager(t)
	passphrase := []byte("apple123")

	if err := m.Save([]byte("data"), passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	m.now = func() time.Time {
		return time.Now().Add(31 * 24 * time.Hour)
	}

	// Expired: metadata inspections report no data but must not delete
	if has, _ := m.HasStoredData(); has {
		t.Error("HasStoredData should be false for an expired draft")
	}
	if _, ok, _ := m.RemainingDays(); ok {
		t.Error("RemainingDays should report no loadable draft")
	}

	raw, err := m.db.GetEnvelope()
	if err != nil {
		t.Fatalf("GetEnvelope failed: %v", err)
	}
	if raw == nil {
		t.Error("Metadata inspection must not trigger expiration cleanup")
	}
}

func TestRemainingDays(t *testing.T) {
	m := openTestManager(t)

	if _, ok, err := m.RemainingDays(); err != nil || ok {
		t.Errorf("Expected no remaining days on empty store, got ok=%v err=%v", ok, err)
	}

	if err := m.Save([]byte("data"), []byte("apple123")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	days, ok, err := m.RemainingDays()
	if err != nil {
		t.Fatalf("RemainingDays failed: %v", err)
	}
	if !ok {
		t.Fatal("Expected a remaining-days value after save")
	}
	if days != config.DefaultRetentionDays {
		t.Errorf("RemainingDays: got %d, want %d", days, config.DefaultRetentionDays)
	}

	// Half a day before expiry still counts as one day
	m.now = func() time.Time {
		return time.Now().Add(30*24*time.Hour - 12*time.Hour)
	}
	days, ok, _ = m.RemainingDays()
	if !ok || days != 1 {
		t.Errorf("RemainingDays near expiry: got %d ok=%v, want 1 true", days, ok)
	}
}

func TestUpdate(t *testing.T) {
	m := openTestManager(t)
	passphrase := []byte("apple123")

	// No session passphrase yet
	if err := m.Update([]byte("v2")); err != ErrNoActivePassphrase {
		t.Errorf("Expected ErrNoActivePassphrase, got %v", err)
	}

	if err := m.Save([]byte("v1"), passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !m.HasSessionPassphrase() {
		t.Error("Save should cache the session passphrase")
	}

	if err := m.Update([]byte("v2")); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if err := m.Update(nil); err != ErrEmptyPayload {
		t.Errorf("Expected ErrEmptyPayload, got %v", err)
	}

	loaded, err := m.Load(passphrase)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if string(loaded) != "v2" {
		t.Errorf("Payload mismatch: got %s, want v2", loaded)
	}
}

func TestLoadCachesPassphrase(t *testing.T) {
	m := openTestManager(t)
	passphrase := []byte("apple123")

	if err := m.Save([]byte("v1"), passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	// Fresh manager simulates a new session: no cached passphrase
	m.forgetPassphrase()
	if err := m.Update([]byte("v2")); err != ErrNoActivePassphrase {
		t.Errorf("Expected ErrNoActivePassphrase, got %v", err)
	}

	if _, err := m.Load(passphrase); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := m.Update([]byte("v2")); err != nil {
		t.Errorf("Update after Load should use the cached passphrase: %v", err)
	}
}

func TestClearIdempotent(t *testing.T) {
	m := openTestManager(t)
	passphrase := []byte("apple123")

	// Clear with nothing stored succeeds
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear on empty store failed: %v", err)
	}

	if err := m.Save([]byte("data"), passphrase); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}

	if _, err := m.Load(passphrase); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound after clear, got %v", err)
	}
	if m.HasSessionPassphrase() {
		t.Error("Clear should drop the session passphrase")
	}
	if has, _ := m.HasStoredData(); has {
		t.Error("HasStoredData should be false after clear")
	}

	// Clearing again is still fine
	if err := m.Clear(); err != nil {
		t.Fatalf("Second clear failed: %v", err)
	}
}

func TestLoadCorruptedEnvelope(t *testing.T) {
	m := openTestManager(t)

	if err := m.db.ReplaceSlot([]byte("not an envelope"), []byte("{}")); err != nil {
		t.Fatalf("ReplaceSlot failed: %v", err)
	}

	if _, err := m.Load([]byte("apple123")); err != ErrAuthenticationFailed {
		t.Errorf("Expected ErrAuthenticationFailed for corrupted record, got %v", err)
	}
}

func TestRetentionDays(t *testing.T) {
	m := openTestManager(t)
	if m.RetentionDays() != config.DefaultRetentionDays {
		t.Errorf("RetentionDays: got %d, want %d", m.RetentionDays(), config.DefaultRetentionDays)
	}
}

func TestStoreID(t *testing.T) {
	m := openTestManager(t)

	id1, err := m.StoreID()
	if err != nil {
		t.Fatalf("StoreID failed: %v", err)
	}
	id2, err := m.StoreID()
	if err != nil {
		t.Fatalf("StoreID failed: %v", err)
	}
	if id1 == "" || id1 != id2 {
		t.Errorf("Store ID should be stable and non-empty: got %q and %q", id1, id2)
	}
}
