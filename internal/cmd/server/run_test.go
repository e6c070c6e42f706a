package serverrun

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	cfgpkg "github.com/rzbill/tixid/internal/config"
	pebblestore "github.com/rzbill/tixid/internal/storage/pebble"
	"github.com/rzbill/tixid/pkg/snowflake"
)

func TestGetenvDefault(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		def      string
		envValue string
		expected string
	}{
		{"environment variable set", "TIXID_TEST_VAR", "default", "env_value", "env_value"},
		{"environment variable empty", "TIXID_TEST_VAR_EMPTY", "default", "", "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.envValue)
			result := getenvDefault(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("getenvDefault(%s, %s) = %s, expected %s", tt.key, tt.def, result, tt.expected)
			}
		})
	}
}

func TestLogConfigFromEnv(t *testing.T) {
	t.Setenv("TIXID_LOG_LEVEL", "debug")
	t.Setenv("TIXID_LOG_FORMAT", "json")
	t.Setenv("TIXID_LOG_OUTPUTS", "console,null")

	cfg := logConfigFromEnv()
	if cfg.Level != "debug" || cfg.Format != "json" {
		t.Fatalf("unexpected log config %+v", cfg)
	}
	if len(cfg.Outputs) != 2 || cfg.Outputs[1] != "null" {
		t.Fatalf("unexpected outputs %v", cfg.Outputs)
	}
}

func TestDefaultDataDirIntegration(t *testing.T) {
	want := t.TempDir()
	t.Setenv(cfgpkg.DataDirEnv, want)
	if dir := cfgpkg.DefaultDataDir(); dir != filepath.Clean(want) {
		t.Fatalf("DataDir = %q, want %q from %s", dir, want, cfgpkg.DataDirEnv)
	}
}

func TestRunRejectsInvalidIdentity(t *testing.T) {
	t.Setenv("TIXID_LOG_OUTPUTS", "null")
	cfg := cfgpkg.Default()
	cfg.DatacenterID = 99
	err := Run(context.Background(), Options{
		DataDir:  t.TempDir(),
		GRPCAddr: ":0",
		HTTPAddr: ":0",
		Config:   cfg,
	})
	if !errors.Is(err, snowflake.ErrConfiguration) {
		t.Fatalf("want configuration error, got %v", err)
	}
}

// TestRunIntegration starts both servers on ephemeral ports and stops them
// through context cancellation.
func TestRunIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	t.Setenv("TIXID_LOG_OUTPUTS", "null")

	opts := Options{
		DataDir:       t.TempDir(),
		GRPCAddr:      "127.0.0.1:0",
		HTTPAddr:      "127.0.0.1:0",
		Fsync:         pebblestore.FsyncModeNever,
		FsyncInterval: 1 * time.Millisecond,
		Config:        cfgpkg.Default(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := Run(ctx, opts); err != nil {
		t.Errorf("Run returned %v", err)
	}
}
