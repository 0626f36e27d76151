package envelope

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/draftlock/draftlock/internal/crypto"
)

func testParts(t *testing.T) (salt, nonce, ciphertext, tag []byte) {
	t.Helper()
	salt, err := crypto.NewSalt()
	if err != nil {
		t.Fatalf("Failed to generate salt: %v", err)
	}
	nonce, err = crypto.NewNonce()
	if err != nil {
		t.Fatalf("Failed to generate nonce: %v", err)
	}
	ciphertext = []byte("opaque sealed draft bytes")
	tag = bytes.Repeat([]byte{0xAB}, crypto.TagSize)
	return salt, nonce, ciphertext, tag
}

func TestEncodeDecode(t *testing.T) {
	salt, nonce, ciphertext, tag := testParts(t)
	created := time.Now().UTC().Truncate(time.Second)
	expires := created.Add(30 * 24 * time.Hour)

	env := New(salt, nonce, ciphertext, tag, created, expires)
	data, err := env.Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	decoded, err := Decode(data)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	if decoded.Version != VersionCurrent {
		t.Errorf("Version mismatch: got %d, want %d", decoded.Version, VersionCurrent)
	}
	if !bytes.Equal(decoded.Salt, salt) {
		t.Error("Salt mismatch after round trip")
	}
	if !bytes.Equal(decoded.Nonce, nonce) {
		t.Error("Nonce mismatch after round trip")
	}
	if !bytes.Equal(decoded.Ciphertext, ciphertext) {
		t.Error("Ciphertext mismatch after round trip")
	}
	if !bytes.Equal(decoded.Tag, tag) {
		t.Error("Tag mismatch after round trip")
	}
	if !decoded.ExpiresAt.Equal(expires) {
		t.Errorf("ExpiresAt mismatch: got %v, want %v", decoded.ExpiresAt, expires)
	}
}

func TestExpired(t *testing.T) {
	salt, nonce, ciphertext, tag := testParts(t)
	now := time.Now()

	env := New(salt, nonce, ciphertext, tag, now, now.Add(time.Hour))
	if env.Expired(now) {
		t.Error("Envelope should not be expired before expiresAt")
	}
	if !env.Expired(now.Add(time.Hour)) {
		t.Error("Envelope should be expired exactly at expiresAt")
	}
	if !env.Expired(now.Add(2 * time.Hour)) {
		t.Error("Envelope should be expired after expiresAt")
	}
}

func TestDecodeUnsupportedVersion(t *testing.T) {
	if _, err := Decode([]byte(`{"version":99}`)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
	}
	// Legacy records never pass through Decode
	if _, err := Decode([]byte(`{"version":1}`)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion for legacy version, got %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	if _, err := Decode([]byte("not json")); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}

	// Valid JSON but wrong field sizes
	if _, err := Decode([]byte(`{"version":2,"salt":"c2hvcnQ=","nonce":"","ciphertext":"","tag":""}`)); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed for bad field sizes, got %v", err)
	}
}

func TestEncodeRejectsBadEnvelope(t *testing.T) {
	salt, nonce, ciphertext, tag := testParts(t)
	now := time.Now()

	env := New(salt, nonce, ciphertext, tag, now, now.Add(time.Hour))
	env.Salt = []byte("short")
	if _, err := env.Encode(); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestLegacyRoundTrip(t *testing.T) {
	salt, nonce, ciphertext, tag := testParts(t)
	saved := time.Now().UTC().Truncate(time.Second)

	data, err := EncodeLegacy(salt, nonce, ciphertext, tag, saved)
	if err != nil {
		t.Fatalf("EncodeLegacy failed: %v", err)
	}

	legacy, err := DecodeLegacy(data)
	if err != nil {
		t.Fatalf("DecodeLegacy failed: %v", err)
	}

	gotNonce, gotCiphertext, gotTag := legacy.Parts()
	if !bytes.Equal(gotNonce, nonce) {
		t.Error("Nonce mismatch after legacy round trip")
	}
	if !bytes.Equal(gotCiphertext, ciphertext) {
		t.Error("Ciphertext mismatch after legacy round trip")
	}
	if !bytes.Equal(gotTag, tag) {
		t.Error("Tag mismatch after legacy round trip")
	}
	if !bytes.Equal(legacy.Salt, salt) {
		t.Error("Salt mismatch after legacy round trip")
	}
}

func TestDecodeLegacyRejects(t *testing.T) {
	if _, err := DecodeLegacy([]byte("not json")); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
	if _, err := DecodeLegacy([]byte(`{"version":2}`)); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("Expected ErrUnsupportedVersion, got %v", err)
	}
	// Sealed blob shorter than nonce+tag
	if _, err := DecodeLegacy([]byte(`{"version":1,"salt":"AAAAAAAAAAAAAAAAAAAAAA==","sealed":"AAAA"}`)); !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed for short sealed blob, got %v", err)
	}
}
