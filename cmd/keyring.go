package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/draftlock/draftlock/internal/core"
	"github.com/draftlock/draftlock/internal/crypto"
	"github.com/draftlock/draftlock/internal/keyring"
)

// KeyringSave stores the passphrase in the OS keyring
func KeyringSave() {
	m := OpenManager()
	defer m.Close()

	passphrase, err := core.ReadPassphrase("Enter passphrase: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(passphrase)

	// Verify against the stored draft when one exists
	if _, err := m.Load(passphrase); err != nil && !errors.Is(err, core.ErrNotFound) {
		HandleError(err)
	}

	storeID, err := m.StoreID()
	if err != nil {
		HandleError(err)
	}

	if err := keyring.SavePassphrase(storeID, string(passphrase)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Passphrase saved to keyring")
}

// KeyringDelete removes the passphrase from the OS keyring
func KeyringDelete() {
	m := OpenManager()
	defer m.Close()

	storeID, err := m.StoreID()
	if err != nil {
		fmt.Println("No passphrase stored in keyring")
		return
	}

	if err := keyring.DeletePassphrase(storeID); err != nil {
		fmt.Println("No passphrase stored in keyring")
		return
	}

	fmt.Println("Passphrase removed from keyring")
}

// KeyringStatus checks if a passphrase is stored in the keyring
func KeyringStatus() {
	m := OpenManager()
	defer m.Close()

	storeID, err := m.StoreID()
	if err != nil {
		fmt.Println("Passphrase: not stored")
		return
	}

	if keyring.HasPassphrase(storeID) {
		fmt.Println("Passphrase: stored in keyring")
	} else {
		fmt.Println("Passphrase: not stored")
	}
}
