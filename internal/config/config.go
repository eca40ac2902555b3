package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// DefaultDataFile is the plant data file name, relative to BaseDir.
const DefaultDataFile = "plants.json"

// Config represents the main configuration for gt.
type Config struct {
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	DataFile   string           `toml:"data_file"` // path or locator; relative paths resolve against BaseDir
	Storage    StorageConfig    `toml:"storage"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// StorageConfig selects how plant data is persisted.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type StorageConfig struct {
	Type string    `toml:"type"` // "json" (default), "sqlite" or "memory"
	S3   *S3Config `toml:"s3,omitempty"`
}

// S3Config enables s3://bucket/key locators for the json storage type.
type S3Config struct {
	Region          string `toml:"region"`
	Endpoint        string `toml:"endpoint,omitempty"` // S3-compatible endpoint; implies path-style addressing
	AccessKeyID     string `toml:"access_key_id,omitempty"`
	SecretAccessKey string `toml:"secret_access_key,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used to encrypt the data file.
type EncryptionConfig struct {
	Type           string `toml:"type"` // "" (off), "age" or "test"
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NewConfig creates a new Config rooted at baseDir with default paths.
func NewConfig(baseDir string) *Config {
	return &Config{
		BaseDir:  baseDir,
		LogDir:   filepath.Join(baseDir, "log"),
		DataFile: DefaultDataFile,
		Storage:  StorageConfig{Type: "json"},
		Encryption: EncryptionConfig{
			PublicKeyPath:  filepath.Join(baseDir, "keys", "gt.pub"),
			PrivateKeyPath: filepath.Join(baseDir, "keys", "gt.key"),
		},
	}
}

// DataLocator returns the locator of the default data file. Relative file
// paths are joined to BaseDir; URLs such as s3://bucket/key pass through.
func (c *Config) DataLocator() string {
	if c.DataFile == "" {
		return filepath.Join(c.BaseDir, DefaultDataFile)
	}
	if isURL(c.DataFile) || filepath.IsAbs(c.DataFile) {
		return c.DataFile
	}
	return filepath.Join(c.BaseDir, c.DataFile)
}

func isURL(s string) bool {
	return strings.Contains(s, "://")
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// ReadOrDefault reads the config at path, or returns NewConfig(baseDir) when
// no config file exists yet. Fields left empty in the file take their defaults.
func ReadOrDefault(path, baseDir string) (*Config, error) {
	cfg, err := ReadFromFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewConfig(baseDir), nil
		}
		return nil, err
	}

	defaults := NewConfig(baseDir)
	if cfg.BaseDir == "" {
		cfg.BaseDir = defaults.BaseDir
	}
	if cfg.LogDir == "" {
		cfg.LogDir = filepath.Join(cfg.BaseDir, "log")
	}
	if cfg.DataFile == "" {
		cfg.DataFile = defaults.DataFile
	}
	if cfg.Storage.Type == "" {
		cfg.Storage.Type = defaults.Storage.Type
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
