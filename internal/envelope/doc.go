// Package envelope defines the versioned record format for saved
// drafts.
//
// Version 2 (current) is a JSON record holding the KDF salt, GCM nonce,
// ciphertext, authentication tag and the createdAt/expiresAt window.
// Binary fields are base64-encoded so the record survives text-only
// key-value stores. Decoding dispatches on the version field; adding a
// format means registering a decoder, not adding sniffing heuristics.
//
// Version 1 (legacy) is the flat-file format of pre-bbolt releases,
// with nonce, ciphertext and tag packed into a single blob and no
// expiry. It is decoded only by the migration path.
package envelope
