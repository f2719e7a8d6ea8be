// Package config provides configuration management for hop.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds the per-user directories hop reads from. Switch history is
// per repository and lives under the git directory, not here.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/hop)
	ConfigDir string
}

// DefaultPaths returns the default paths based on XDG Base Directory spec.
// On Windows, it uses %APPDATA% instead.
func DefaultPaths() *Paths {
	if dir := os.Getenv("HOP_CONFIG_DIR"); dir != "" {
		return &Paths{ConfigDir: dir}
	}

	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		return &Paths{ConfigDir: filepath.Join(appData, "hop")}
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}
	return &Paths{ConfigDir: filepath.Join(configHome, "hop")}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// EnsureDirectories creates the config directory.
func (p *Paths) EnsureDirectories() error {
	return os.MkdirAll(p.ConfigDir, 0755)
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		if runtime.GOOS == "windows" {
			return os.Getenv("USERPROFILE")
		}
		return os.Getenv("HOME")
	}
	return home
}
