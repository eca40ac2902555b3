package encryption

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"

	"gt-go/internal/config"
	"gt-go/internal/plant"
	"gt-go/internal/storage"
)

// AgeEncryptor seals plant documents to an age X25519 key pair. Sealed
// files carry the recipient in their header, so opening a file sealed to
// another key fails with a clear cause instead of an age error.
type AgeEncryptor struct {
	keys keyPair
}

var _ storage.Encryptor = (*AgeEncryptor)(nil)

// NewAgeEncryptor creates an AgeEncryptor using the key paths in cfg.
func NewAgeEncryptor(cfg config.EncryptionConfig) *AgeEncryptor {
	return &AgeEncryptor{keys: keyPair{
		publicPath:  cfg.PublicKeyPath,
		privatePath: cfg.PrivateKeyPath,
	}}
}

// Setup generates the key pair. Existing keys are never replaced.
func (e *AgeEncryptor) Setup(passphrase string) error {
	if passphrase == "" {
		return fmt.Errorf("passphrase must not be empty")
	}
	if pub, priv := e.keys.state(); pub || priv {
		return fmt.Errorf("keys already exist at %s", e.keys.privatePath)
	}
	return e.keys.generate(passphrase)
}

// Seal encrypts doc to the public key.
func (e *AgeEncryptor) Seal(doc []byte) ([]byte, error) {
	recipient, err := e.keys.recipient()
	if err != nil {
		return nil, err
	}

	var body bytes.Buffer
	w, err := age.Encrypt(&body, recipient)
	if err != nil {
		return nil, fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := w.Write(doc); err != nil {
		return nil, fmt.Errorf("encrypting plants: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing encryption: %w", err)
	}

	return envelope{cipher: cipherAge, keyID: recipient.String()}.wrap(body.Bytes()), nil
}

// Unlock decrypts the private key with passphrase.
func (e *AgeEncryptor) Unlock(passphrase string) (storage.DecryptionContext, error) {
	id, err := e.keys.identity(passphrase)
	if err != nil {
		return nil, err
	}
	return &AgeDecryptionContext{identity: id}, nil
}

// IsConfigured reports whether both key files exist.
func (e *AgeEncryptor) IsConfigured() bool {
	pub, priv := e.keys.state()
	return pub && priv
}

// AgeDecryptionContext opens plant files with an unlocked identity.
type AgeDecryptionContext struct {
	identity *age.X25519Identity
}

var _ storage.DecryptionContext = (*AgeDecryptionContext)(nil)

func (c *AgeDecryptionContext) Open(sealed []byte) ([]byte, error) {
	env, body, err := unwrap(sealed)
	if err != nil {
		return nil, err
	}
	if err := env.check(cipherAge, c.identity.Recipient().String()); err != nil {
		return nil, err
	}

	r, err := age.Decrypt(bytes.NewReader(body), c.identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", plant.ErrCorruptData, err)
	}
	doc, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading decrypted plants: %w", plant.ErrCorruptData, err)
	}
	return doc, nil
}
