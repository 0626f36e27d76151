package cmd

import (
	"fmt"
	"os"

	"github.com/draftlock/draftlock/internal/crypto"
)

// Load opens the saved draft and writes it to stdout or a file
func Load(output string) {
	m := OpenManager()
	defer m.Close()

	storeID, _ := m.StoreID()
	passphrase, source, err := GetPassphrase("Enter passphrase: ", storeID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	defer crypto.ClearBytes(passphrase)

	payload, err := m.Load(passphrase)
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(payload)

	if output == "" {
		os.Stdout.Write(payload)
	} else {
		if err := os.WriteFile(output, payload, 0600); err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot write %s: %s\n", output, err)
			os.Exit(1)
		}
		fmt.Printf("loaded: %s (%d bytes)\n", output, len(payload))
	}

	if source == SourcePrompt {
		OfferToSavePassphrase(storeID, passphrase)
	}
}
