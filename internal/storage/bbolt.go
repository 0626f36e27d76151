package storage

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	EnvelopeBucket = []byte("envelope") // Sealed draft record
	MetaBucket     = []byte("meta")     // Unencrypted expiry flag for passphrase-less status
	ConfigBucket   = []byte("config")   // Store identity - unencrypted
)

// Keys. A store holds exactly one draft slot.
var (
	slotKey       = []byte("draft")
	configVersion = []byte("version")
	configStoreID = []byte("store_id")
)

// Store provides bbolt-backed persistence for draftlock
type Store struct {
	db *bolt.DB
}

// Open opens or creates a draftlock database and ensures its bucket
// structure exists.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{EnvelopeBucket, MetaBucket, ConfigBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		config := tx.Bucket(ConfigBucket)
		if config.Get(configVersion) == nil {
			return config.Put(configVersion, []byte("1"))
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceSlot writes the envelope and its unencrypted meta record in a
// single transaction. The slot is replaced wholesale: either both
// records land or neither does, so a failed save leaves the prior
// envelope untouched.
func (s *Store) ReplaceSlot(envelope, meta []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(EnvelopeBucket).Put(slotKey, envelope); err != nil {
			return err
		}
		return tx.Bucket(MetaBucket).Put(slotKey, meta)
	})
}

// GetEnvelope retrieves the stored envelope record. Returns nil with no
// error when the slot is empty.
func (s *Store) GetEnvelope() ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(EnvelopeBucket).Get(slotKey)
		if v == nil {
			return nil
		}
		// Copy: the slice is only valid during the transaction
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

// GetMeta retrieves the unencrypted meta record. Returns nil with no
// error when the slot is empty.
func (s *Store) GetMeta() ([]byte, error) {
	var data []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(MetaBucket).Get(slotKey)
		if v == nil {
			return nil
		}
		data = append([]byte(nil), v...)
		return nil
	})
	return data, err
}

// DeleteSlot removes the envelope and its meta record in a single
// transaction. Deleting an empty slot is a no-op.
func (s *Store) DeleteSlot() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(EnvelopeBucket).Delete(slotKey); err != nil {
			return err
		}
		return tx.Bucket(MetaBucket).Delete(slotKey)
	})
}

// GetStoreID retrieves the store ID from the config bucket
func (s *Store) GetStoreID() (string, error) {
	var storeID string
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(ConfigBucket).Get(configStoreID)
		if data == nil {
			return fmt.Errorf("store_id not found")
		}
		storeID = string(data)
		return nil
	})
	return storeID, err
}

// GetOrCreateStoreID retrieves the existing store ID or generates a new
// one. The ID keys the OS keyring entry for this store.
func (s *Store) GetOrCreateStoreID() (string, error) {
	storeID, err := s.GetStoreID()
	if err == nil {
		return storeID, nil
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate store ID: %w", err)
	}
	storeID = hex.EncodeToString(b)

	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(ConfigBucket).Put(configStoreID, []byte(storeID))
	})
	if err != nil {
		return "", err
	}

	return storeID, nil
}
