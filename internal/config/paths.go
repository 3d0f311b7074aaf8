package config

import (
	"os"
	"path/filepath"
)

const (
	// EnvConfigPath is the environment variable for explicit config path
	EnvConfigPath = "TRANSLATEDTEXT_CONFIG"
	// ConfigFileName is the config file name looked up in the working directory
	ConfigFileName = "translatedtext.yaml"
	// ConfigDirName is the config directory name under XDG and /etc
	ConfigDirName = "translatedtext"
)

// CandidatePaths lists config locations in priority order:
//  1. $TRANSLATEDTEXT_CONFIG
//  2. ./translatedtext.yaml
//  3. $XDG_CONFIG_HOME/translatedtext/config.yaml
//  4. ~/.config/translatedtext/config.yaml
//  5. /etc/translatedtext/config.yaml
func CandidatePaths() []string {
	var paths []string

	if path := os.Getenv(EnvConfigPath); path != "" {
		paths = append(paths, path)
	}

	if abs, err := filepath.Abs(ConfigFileName); err == nil {
		paths = append(paths, abs)
	} else {
		paths = append(paths, ConfigFileName)
	}

	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, ConfigDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		paths = append(paths, filepath.Join(home, ".config", ConfigDirName, "config.yaml"))
	}

	return append(paths, filepath.Join("/etc", ConfigDirName, "config.yaml"))
}

// FindConfigPath returns the first existing candidate, or "" when none exists
func FindConfigPath() string {
	for _, path := range CandidatePaths() {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir(configPath string) error {
	return os.MkdirAll(filepath.Dir(configPath), 0755)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
