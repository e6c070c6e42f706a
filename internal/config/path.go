package config

import (
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
)

// DataDirEnv overrides every other data directory choice.
const DataDirEnv = "TIXID_DATA_DIR"

// DefaultDataDir returns where the ledger store lives when --data-dir is not
// given. Resolution order: TIXID_DATA_DIR, $XDG_DATA_HOME/tixid, then a
// per-OS location. Linux uses /var/lib/tixid only when /var/lib is writable
// and otherwise ~/.local/share/tixid. Without a home directory it is ./data.
func DefaultDataDir() string {
	return resolveDataDir(hostDirs{
		goos:     goruntime.GOOS,
		getenv:   os.Getenv,
		home:     os.UserHomeDir,
		writable: canWrite,
	})
}

// hostDirs is the slice of the host that data dir resolution depends on.
type hostDirs struct {
	goos     string
	getenv   func(string) string
	home     func() (string, error)
	writable func(dir string) bool
}

func resolveDataDir(h hostDirs) string {
	if v := strings.TrimSpace(h.getenv(DataDirEnv)); v != "" {
		return filepath.Clean(v)
	}
	if xdg := h.getenv("XDG_DATA_HOME"); xdg != "" && h.goos != "windows" {
		return filepath.Join(xdg, "tixid")
	}

	switch h.goos {
	case "windows":
		if local := h.getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, "tixid")
		}
	case "darwin":
	default:
		if h.writable("/var/lib") {
			return "/var/lib/tixid"
		}
	}

	home, err := h.home()
	if err != nil || home == "" {
		return "./data"
	}
	switch h.goos {
	case "windows":
		return filepath.Join(home, "AppData", "Local", "tixid")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "tixid")
	default:
		return filepath.Join(home, ".local", "share", "tixid")
	}
}

// canWrite reports whether a file can be created in dir.
func canWrite(dir string) bool {
	f, err := os.CreateTemp(dir, ".tixid-write-check-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
