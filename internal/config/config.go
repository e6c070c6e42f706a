package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration loaded from file/env.
type Config struct {
	// WorkerID and DatacenterID form the generator identity. The pair must be
	// unique across every running instance; nothing here enforces that.
	WorkerID     int64        `json:"workerId" yaml:"workerId"`
	DatacenterID int64        `json:"datacenterId" yaml:"datacenterId"`
	Ledger       LedgerConfig `json:"ledger" yaml:"ledger"`
	Retry        RetryConfig  `json:"retry" yaml:"retry"`
}

// LedgerConfig controls the issuance ledger.
type LedgerConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// RetentionMs drops issuances older than this on each trim pass. 0 keeps everything.
	RetentionMs int64 `json:"retentionMs" yaml:"retentionMs"`
	// TrimIntervalMs is how often the server runs a trim pass.
	TrimIntervalMs int64 `json:"trimIntervalMs" yaml:"trimIntervalMs"`
}

// RetryConfig controls how the service layer reacts to clock regressions.
type RetryConfig struct {
	// MaxAttempts is the total number of allocation attempts per request (>= 1).
	MaxAttempts int `json:"maxAttempts" yaml:"maxAttempts"`
	// MaxWaitMs caps how long a single retry waits for the clock to catch up.
	// Regressions larger than this fail immediately.
	MaxWaitMs int64 `json:"maxWaitMs" yaml:"maxWaitMs"`
}

// MaxWait returns MaxWaitMs as a duration.
func (r RetryConfig) MaxWait() time.Duration { return time.Duration(r.MaxWaitMs) * time.Millisecond }

// Default returns built-in defaults.
func Default() Config {
	return Config{
		WorkerID:     1,
		DatacenterID: 1,
		Ledger: LedgerConfig{
			Enabled:        true,
			RetentionMs:    0,
			TrimIntervalMs: 60_000,
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			MaxWaitMs:   50,
		},
	}
}

// Load reads configuration from a JSON or YAML file (by extension). If path is empty, returns defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg := Default()
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return cfg, nil
}
