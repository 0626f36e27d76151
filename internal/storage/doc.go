// Package storage provides the bbolt database interface for draftlock.
//
// Database structure uses three buckets:
//   - envelope: the sealed draft record (one slot per store)
//   - meta: expiry flag and timestamps (unencrypted, for status)
//   - config: store identity (unencrypted)
//
// The unencrypted meta bucket lets draftlock status answer "is there a
// saved draft and how long until it expires" without a passphrase.
//
// Envelope and meta are always written and deleted together in one
// transaction, so a save either replaces the slot wholesale or leaves
// the prior record untouched. bbolt provides the atomic single-key
// replace semantics, file locking and corruption detection.
package storage
