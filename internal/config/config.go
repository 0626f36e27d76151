package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Defaults
const (
	DefaultRetentionDays    = 30      // How long a saved draft remains loadable
	DefaultMinPassphraseLen = 4       // Validation floor enforced on save
	DefaultMaxPayloadBytes  = 1 << 20 // Store rejects larger drafts
	DefaultStoreFile        = ".draftlock"
	DefaultLegacyFile       = "draft.sealed"

	EnvFile = ".draftlock.env"
)

// Environment variables. Values in the environment override EnvFile,
// which overrides the defaults.
const (
	EnvPath             = "DRAFTLOCK_PATH"
	EnvRetentionDays    = "DRAFTLOCK_RETENTION_DAYS"
	EnvMinPassphraseLen = "DRAFTLOCK_MIN_PASSPHRASE_LEN"
	EnvMaxPayloadBytes  = "DRAFTLOCK_MAX_PAYLOAD_BYTES"
)

// Config carries the recognized storage options
type Config struct {
	RetentionDays    int    // Envelope lifetime in days
	MinPassphraseLen int    // Minimum passphrase length accepted by save
	MaxPayloadBytes  int    // Largest accepted payload
	LegacyPath       string // Override for the legacy flat-file location; empty means next to the store
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		RetentionDays:    DefaultRetentionDays,
		MinPassphraseLen: DefaultMinPassphraseLen,
		MaxPayloadBytes:  DefaultMaxPayloadBytes,
	}
}

// Load returns the configuration with EnvFile and environment overrides
// applied. A missing EnvFile is not an error.
func Load() (Config, error) {
	if err := godotenv.Load(EnvFile); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("failed to load %s: %w", EnvFile, err)
	}

	cfg := Default()
	var err error
	if cfg.RetentionDays, err = intFromEnv(EnvRetentionDays, cfg.RetentionDays); err != nil {
		return Config{}, err
	}
	if cfg.MinPassphraseLen, err = intFromEnv(EnvMinPassphraseLen, cfg.MinPassphraseLen); err != nil {
		return Config{}, err
	}
	if cfg.MaxPayloadBytes, err = intFromEnv(EnvMaxPayloadBytes, cfg.MaxPayloadBytes); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// StorePath returns the database location: DRAFTLOCK_PATH if set,
// otherwise DefaultStoreFile in the current directory.
func StorePath() string {
	if path := os.Getenv(EnvPath); path != "" {
		return path
	}
	return DefaultStoreFile
}

func intFromEnv(name string, fallback int) (int, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, raw)
	}
	if v <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive, got %d", name, v)
	}
	return v, nil
}
