package encryption

import (
	"fmt"

	"gt-go/internal/config"
	"gt-go/internal/storage"
)

// NewEncryptorFromConfig creates an Encryptor based on the configuration type.
// An empty type or "none" disables encryption and returns a nil Encryptor.
func NewEncryptorFromConfig(cfg config.EncryptionConfig) (storage.Encryptor, error) {
	switch cfg.Type {
	case "", "none":
		return nil, nil
	case "age":
		return NewAgeEncryptor(cfg), nil
	case "test":
		return NewTestEncryptor(), nil
	default:
		return nil, fmt.Errorf("unknown encryption type: %q", cfg.Type)
	}
}
