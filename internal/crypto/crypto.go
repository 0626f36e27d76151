package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	SaltSize   = 16     // Salt size in bytes
	KeySize    = 32     // AES-256 key size
	NonceSize  = 12     // GCM nonce size
	TagSize    = 16     // GCM authentication tag size
	Iterations = 100000 // PBKDF2 iterations
)

var (
	ErrEmptyPassphrase = errors.New("empty passphrase")
	ErrAuthFailed      = errors.New("authentication failed")
)

// NewSalt generates a fresh random salt. Salts are never reused across
// envelopes, even for the same passphrase.
func NewSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// NewNonce generates a fresh random nonce. A nonce must never be reused
// with the same key.
func NewNonce() ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return nonce, nil
}

// DeriveKey derives an encryption key from a passphrase and salt using
// PBKDF2-HMAC-SHA256. Deterministic: identical (passphrase, salt) always
// yields the identical key. Passphrase length policy is enforced by the
// caller; only an empty passphrase is rejected here.
func DeriveKey(passphrase, salt []byte) ([]byte, error) {
	if len(passphrase) == 0 {
		return nil, ErrEmptyPassphrase
	}
	if len(salt) != SaltSize {
		return nil, fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(salt))
	}
	return pbkdf2.Key(passphrase, salt, Iterations, KeySize, sha256.New), nil
}

// Cipher provides authenticated encryption under a fixed key
type Cipher struct {
	key []byte
}

// NewCipher creates a cipher with the given key
func NewCipher(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("key must be %d bytes, got %d", KeySize, len(key))
	}
	return &Cipher{key: key}, nil
}

// Seal encrypts plaintext using AES-256-GCM under the supplied nonce,
// returning ciphertext and authentication tag separately. The caller
// supplies a freshly generated nonce per call.
func (c *Cipher) Seal(nonce, plaintext []byte) (ciphertext, tag []byte, err error) {
	if len(nonce) != NonceSize {
		return nil, nil, fmt.Errorf("nonce must be %d bytes, got %d", NonceSize, len(nonce))
	}

	gcm, err := c.aead()
	if err != nil {
		return nil, nil, err
	}

	// gcm.Seal appends the tag to the ciphertext
	sealed := gcm.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - TagSize
	return sealed[:split], sealed[split:], nil
}

// Open decrypts ciphertext using AES-256-GCM and verifies the tag.
// Fails closed: tampering, truncation and a wrong key all surface as
// the same ErrAuthFailed, never as partial plaintext.
func (c *Cipher) Open(nonce, ciphertext, tag []byte) ([]byte, error) {
	if len(nonce) != NonceSize || len(tag) != TagSize {
		return nil, ErrAuthFailed
	}

	gcm, err := c.aead()
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, len(ciphertext)+len(tag))
	copy(sealed, ciphertext)
	copy(sealed[len(ciphertext):], tag)

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}

func (c *Cipher) aead() (cipher.AEAD, error) {
	block, err := aes.NewCipher(c.key)
	if err != nil {
		return nil, fmt.Errorf("failed to create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}

// Destroy clears the cipher's key from memory
func (c *Cipher) Destroy() {
	ClearBytes(c.key)
}

// ClearBytes securely clears a byte slice
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// ConstantTimeCompare performs a constant-time comparison of two byte slices
func ConstantTimeCompare(a, b []byte) bool {
	return subtle.ConstantTimeCompare(a, b) == 1
}
