package testutil

import (
	"gt-go/internal/encryption"
	"gt-go/internal/storage"
)

// NewTestEncryptor creates a new test encryptor for testing.
func NewTestEncryptor() storage.Encryptor {
	return encryption.NewTestEncryptor()
}

// NewTestDecryptor returns the unlocked counterpart of NewTestEncryptor.
func NewTestDecryptor() storage.DecryptionContext {
	return &encryption.TestDecryptionContext{}
}
