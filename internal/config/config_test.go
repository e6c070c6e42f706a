package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.WorkerID != 1 || cfg.DatacenterID != 1 {
		t.Fatalf("default identity should be 1/1, got %d/%d", cfg.WorkerID, cfg.DatacenterID)
	}
	if !cfg.Ledger.Enabled {
		t.Fatalf("ledger should be enabled by default")
	}
	if cfg.Retry.MaxAttempts != 3 {
		t.Fatalf("retry attempts default")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tixid.json")
	data := []byte(`{"workerId":7,"datacenterId":3,"ledger":{"enabled":false},"retry":{"maxAttempts":5,"maxWaitMs":20}}`)
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WorkerID != 7 || cfg.DatacenterID != 3 {
		t.Fatalf("identity: %+v", cfg)
	}
	if cfg.Ledger.Enabled {
		t.Fatalf("expected ledger disabled")
	}
	if cfg.Retry.MaxAttempts != 5 || cfg.Retry.MaxWait().Milliseconds() != 20 {
		t.Fatalf("retry: %+v", cfg.Retry)
	}
	// untouched keys keep defaults
	if cfg.Ledger.TrimIntervalMs != 60_000 {
		t.Fatalf("expected default trim interval, got %d", cfg.Ledger.TrimIntervalMs)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "tixid.yaml")
	data := []byte("workerId: 12\ndatacenterId: 30\nledger:\n  retentionMs: 86400000\n")
	if err := os.WriteFile(file, data, 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(file)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.WorkerID != 12 || cfg.DatacenterID != 30 {
		t.Fatalf("identity: %+v", cfg)
	}
	if cfg.Ledger.RetentionMs != 86400000 || !cfg.Ledger.Enabled {
		t.Fatalf("ledger: %+v", cfg.Ledger)
	}
}

func TestLoadInvalid(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(file, []byte("{"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(file); err == nil {
		t.Fatalf("expected parse error")
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatalf("expected read error")
	}
}

func TestFromEnv(t *testing.T) {
	cfg := Default()
	t.Setenv("TIXID_WORKER_ID", "9")
	t.Setenv("TIXID_DATACENTER_ID", "4")
	t.Setenv("TIXID_LEDGER_ENABLED", "false")
	t.Setenv("TIXID_RETRY_MAX_ATTEMPTS", "1")
	t.Setenv("TIXID_RETRY_MAX_WAIT_MS", "not-a-number")
	if err := FromEnv(&cfg); err != nil {
		t.Fatalf("from env: %v", err)
	}
	if cfg.WorkerID != 9 || cfg.DatacenterID != 4 {
		t.Fatalf("env override identity: %+v", cfg)
	}
	if cfg.Ledger.Enabled {
		t.Fatalf("env override bool")
	}
	if cfg.Retry.MaxAttempts != 1 {
		t.Fatalf("env override attempts")
	}
	if cfg.Retry.MaxWaitMs != 50 {
		t.Fatalf("invalid value should be ignored, got %d", cfg.Retry.MaxWaitMs)
	}
}

func TestFromEnvRejectsMalformedIdentity(t *testing.T) {
	for _, key := range []string{"TIXID_WORKER_ID", "TIXID_DATACENTER_ID"} {
		t.Run(key, func(t *testing.T) {
			cfg := Default()
			t.Setenv(key, "7x")
			err := FromEnv(&cfg)
			if err == nil {
				t.Fatalf("expected error for %s=7x", key)
			}
			if !strings.Contains(err.Error(), key) {
				t.Fatalf("error should name %s: %v", key, err)
			}
			if cfg.WorkerID != 1 || cfg.DatacenterID != 1 {
				t.Fatalf("identity should be untouched on error, got %d/%d", cfg.WorkerID, cfg.DatacenterID)
			}
		})
	}
}
