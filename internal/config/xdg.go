package config

import (
	"os"
	"path/filepath"
)

// AppName names the per-user directories.
const AppName = "braingym"

func xdgHome(env string, fallback ...string) string {
	if v := os.Getenv(env); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, fallback...)...)
}

// XDGConfigHome returns the XDG config home or a default fallback.
func XDGConfigHome() string { return xdgHome("XDG_CONFIG_HOME", ".config") }

// XDGStateHome returns the XDG state home or a default fallback.
func XDGStateHome() string { return xdgHome("XDG_STATE_HOME", ".local", "state") }

// DefaultConfigDir is where config.yaml and catalog.toml are looked up.
func DefaultConfigDir() string {
	return filepath.Join(XDGConfigHome(), AppName)
}

// DefaultLogPath is where the TUI writes its log.
func DefaultLogPath() string {
	return filepath.Join(XDGStateHome(), AppName, AppName+".log")
}

// DefaultCatalogPath is the optional user content catalog.
func DefaultCatalogPath() string {
	return filepath.Join(DefaultConfigDir(), "catalog.toml")
}
