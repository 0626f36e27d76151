// Package core implements the draft persistence manager.
//
// The Manager orchestrates the full save/load/update/clear lifecycle: it
// validates caller input, derives keys, seals payloads, enforces the
// retention window and owns the single-slot session passphrase cache.
// Legacy flat-file drafts from pre-bbolt releases are migrated
// transparently on load.
//
// Every save and update replaces the stored envelope wholesale with a
// fresh salt and nonce; nothing is ever patched in place. Expiration is
// detected and cleaned up only on load. HasStoredData and RemainingDays
// consult only the unencrypted meta record.
package core
