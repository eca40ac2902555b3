package app

import (
	"fmt"
	"os"
	"path/filepath"

	"gt-go/internal/config"
)

// Environment variables that override the default locations.
const (
	EnvConfigPath = "GT_CONFIG_PATH" // config file (default ~/.config/gt.toml)
	EnvHome       = "GT_HOME"        // base directory for gt data (default ~/.local/share/gt)
	EnvPassphrase = "GT_PASSPHRASE"  // unlocks the private key without a prompt
)

// Defaults holds the locations gt uses when the config does not say otherwise.
type Defaults struct {
	ConfigPath string
	BaseDir    string
	LogDir     string
}

// GetDefaults returns application default paths, checking environment variables first.
func GetDefaults() (*Defaults, error) {
	configPath, err := envOrHome(EnvConfigPath, ".config", "gt.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := envOrHome(EnvHome, ".local", "share", "gt")
	if err != nil {
		return nil, err
	}

	return &Defaults{
		ConfigPath: configPath,
		BaseDir:    baseDir,
		LogDir:     filepath.Join(baseDir, "log"),
	}, nil
}

// LoadConfig reads the config file named by d, falling back to a default
// config rooted at d.BaseDir when none has been written yet.
func (d *Defaults) LoadConfig() (*config.Config, error) {
	cfg, err := config.ReadOrDefault(d.ConfigPath, d.BaseDir)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// envOrHome returns the value of envVar, or the path rel under the user's home directory.
func envOrHome(envVar string, rel ...string) (string, error) {
	if path := os.Getenv(envVar); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, rel...)...), nil
}
