package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/draftlock/draftlock/internal/core"
	"github.com/draftlock/draftlock/internal/crypto"
)

// Save seals a draft file into the store under a passphrase
func Save(path string) {
	payload, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %s\n", path, err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(payload)

	m := OpenManager()
	defer m.Close()

	passphrase, source, err := GetPassphraseForSave()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(passphrase)

	if err := m.Save(payload, passphrase); err != nil {
		HandleError(err)
	}

	fmt.Printf("saved: %s (%d bytes, expires in %d days)\n", path, len(payload), m.RetentionDays())

	if source == SourcePrompt {
		storeID, err := m.StoreID()
		if err != nil {
			return
		}
		OfferToSavePassphrase(storeID, passphrase)
	}
}

// Update re-saves a draft using the keyring or a fresh passphrase.
// Each CLI invocation is its own session, so an in-process cached
// passphrase is never available here; the keyring stands in for it.
func Update(path string) {
	payload, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %s\n", path, err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(payload)

	m := OpenManager()
	defer m.Close()

	if err := m.Update(payload); err == nil {
		fmt.Printf("updated: %s (%d bytes)\n", path, len(payload))
		return
	} else if !errors.Is(err, core.ErrNoActivePassphrase) {
		HandleError(err)
	}

	// No session passphrase: fall back to an explicit save
	storeID, _ := m.StoreID()
	passphrase, source, err := GetPassphrase("Enter passphrase: ", storeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(passphrase)

	if err := m.Save(payload, passphrase); err != nil {
		HandleError(err)
	}

	fmt.Printf("updated: %s (%d bytes)\n", path, len(payload))

	if source == SourcePrompt {
		OfferToSavePassphrase(storeID, passphrase)
	}
}
