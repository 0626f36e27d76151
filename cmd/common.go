package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/draftlock/draftlock/internal/config"
	"github.com/draftlock/draftlock/internal/core"
	"github.com/draftlock/draftlock/internal/keyring"
)

// PassphraseSource records where a passphrase came from, so commands
// can offer to store prompted passphrases in the keyring.
type PassphraseSource int

const (
	SourceEnv PassphraseSource = iota
	SourceKeyring
	SourcePrompt
)

// OpenManager loads the configuration and opens the draft store
func OpenManager() *core.Manager {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}

	m, err := core.Open(config.StorePath(), cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
	return m
}

// GetPassphrase retrieves a passphrase from the environment, the OS
// keyring (when storeID is non-empty), or an interactive prompt.
// The caller is responsible for calling crypto.ClearBytes on the result.
func GetPassphrase(prompt, storeID string) ([]byte, PassphraseSource, error) {
	if passphrase := core.PassphraseFromEnv(); passphrase != nil {
		return passphrase, SourceEnv, nil
	}

	if storeID != "" {
		if stored, err := keyring.GetPassphrase(storeID); err == nil {
			return []byte(stored), SourceKeyring, nil
		}
	}

	passphrase, err := core.ReadPassphrase(prompt)
	if err != nil {
		return nil, SourcePrompt, fmt.Errorf("failed to read passphrase: %w", err)
	}
	return passphrase, SourcePrompt, nil
}

// GetPassphraseForSave retrieves a passphrase for a new save: the
// environment variable if set, otherwise a prompt with confirmation.
func GetPassphraseForSave() ([]byte, PassphraseSource, error) {
	if passphrase := core.PassphraseFromEnv(); passphrase != nil {
		return passphrase, SourceEnv, nil
	}
	passphrase, err := core.ReadPassphraseConfirm()
	return passphrase, SourcePrompt, err
}

// OfferToSavePassphrase asks whether to remember a prompted passphrase
// in the OS keyring.
func OfferToSavePassphrase(storeID string, passphrase []byte) {
	if !Confirm("Remember passphrase in OS keyring? [y/N]: ") {
		return
	}
	if err := keyring.SavePassphrase(storeID, string(passphrase)); err != nil {
		fmt.Fprintf(os.Stderr, "warning: failed to save to keyring: %s\n", err)
		return
	}
	fmt.Println("Passphrase saved to keyring")
}

// Confirm reads a yes/no answer from stdin
func Confirm(prompt string) bool {
	fmt.Print(prompt)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// HandleError reports common errors consistently and exits
func HandleError(err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		fmt.Fprintf(os.Stderr, "Error: no saved draft\n")
		fmt.Fprintf(os.Stderr, "Use 'draftlock save <file>' to create one\n")
	case errors.Is(err, core.ErrExpired):
		fmt.Fprintf(os.Stderr, "Error: the saved draft has expired and was removed\n")
	case errors.Is(err, core.ErrAuthenticationFailed):
		fmt.Fprintf(os.Stderr, "Error: wrong passphrase or corrupted draft\n")
	case errors.Is(err, core.ErrPassphraseTooShort):
		fmt.Fprintf(os.Stderr, "Error: passphrase too short\n")
	case errors.Is(err, core.ErrEmptyPayload):
		fmt.Fprintf(os.Stderr, "Error: nothing to save\n")
	case errors.Is(err, core.ErrNoActivePassphrase):
		fmt.Fprintf(os.Stderr, "Error: no active passphrase in this session\n")
		fmt.Fprintf(os.Stderr, "Use 'draftlock save <file>' with an explicit passphrase\n")
	case errors.Is(err, core.ErrStorageWrite):
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	default:
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
	os.Exit(1)
}
