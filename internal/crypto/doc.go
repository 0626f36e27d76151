// Package crypto provides cryptographic operations for draftlock.
//
// Encryption uses AES-256-GCM with:
//   - 32-byte key derived from a passphrase via PBKDF2
//   - 12-byte random nonce, generated fresh per encryption call
//   - 16-byte authentication tag, stored alongside the ciphertext
//
// Key derivation uses PBKDF2-HMAC-SHA256 with:
//   - 16-byte random salt (stored unencrypted, fresh on every save)
//   - 100,000 iterations to resist offline brute-force guessing
//
// A wrong passphrase and a tampered ciphertext both fail the tag check
// and surface as the same ErrAuthFailed. This is deliberate: the error
// must not reveal whether the ciphertext was well formed.
//
// Memory safety:
//   - Use ClearBytes() to zero sensitive data after use
//   - Call Cipher.Destroy() when done with encryption operations
package crypto
