package storage

// Encryptor seals plant documents before they reach a Backend. Sealing needs
// only the public key; opening needs the private key, unlocked once per
// session into a DecryptionContext.
type Encryptor interface {
	// Setup generates the key pair. Called by `gt config init --encrypt`.
	Setup(passphrase string) error

	// Seal returns the stored form of an encoded plant document.
	Seal(doc []byte) ([]byte, error)

	// Unlock decrypts the private key using the passphrase.
	Unlock(passphrase string) (DecryptionContext, error)

	// IsConfigured reports whether both key files exist.
	IsConfigured() bool
}

// DecryptionContext opens documents sealed by the matching Encryptor. The
// unlocked key lives in memory only.
type DecryptionContext interface {
	// Open returns the plant document inside sealed. Input that is not a
	// document sealed for this key wraps plant.ErrCorruptData.
	Open(sealed []byte) ([]byte, error)
}
