package cmd

import (
	"fmt"
	"os"

	"github.com/draftlock/draftlock/internal/core"
	"github.com/draftlock/draftlock/internal/crypto"
)

// Diff compares the saved draft with a local file
func Diff(path string) {
	local, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %s\n", path, err)
		os.Exit(1)
	}

	m := OpenManager()
	defer m.Close()

	storeID, _ := m.StoreID()
	passphrase, _, err := GetPassphrase("Enter passphrase: ", storeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(passphrase)

	stored, err := m.Load(passphrase)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(stored)

	diff, err := core.GenerateUnifiedDiff(path, stored, local)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot generate diff: %s\n", err)
		os.Exit(1)
	}

	if diff == "" {
		fmt.Println("No changes detected")
		return
	}
	fmt.Print(diff)
}
