package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// FromEnv overlays TIXID_* environment variables onto cfg. A malformed
// TIXID_WORKER_ID or TIXID_DATACENTER_ID is an error: falling back to the
// default identity could collide with another instance. Other malformed
// values are ignored.
func FromEnv(cfg *Config) error {
	if err := identityFromEnv("TIXID_WORKER_ID", &cfg.WorkerID); err != nil {
		return err
	}
	if err := identityFromEnv("TIXID_DATACENTER_ID", &cfg.DatacenterID); err != nil {
		return err
	}
	if v := os.Getenv("TIXID_LEDGER_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Ledger.Enabled = b
		}
	}
	if v := os.Getenv("TIXID_LEDGER_RETENTION_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.Ledger.RetentionMs = n
		}
	}
	if v := os.Getenv("TIXID_LEDGER_TRIM_INTERVAL_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Ledger.TrimIntervalMs = n
		}
	}
	if v := os.Getenv("TIXID_RETRY_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Retry.MaxAttempts = n
		}
	}
	if v := os.Getenv("TIXID_RETRY_MAX_WAIT_MS"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n >= 0 {
			cfg.Retry.MaxWaitMs = n
		}
	}
	return nil
}

func identityFromEnv(key string, dst *int64) error {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s=%q is not an integer", key, v)
	}
	*dst = n
	return nil
}
