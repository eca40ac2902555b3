package encryption

import (
	"bytes"

	"gt-go/internal/storage"
)

// testKeyID is the key name written into test envelopes.
const testKeyID = "test-key"

// TestEncryptor wraps documents in the same envelope as AgeEncryptor but
// leaves the body as plaintext. It needs no key files and its output is
// deterministic.
type TestEncryptor struct{}

var _ storage.Encryptor = (*TestEncryptor)(nil)

func NewTestEncryptor() *TestEncryptor {
	return &TestEncryptor{}
}

func (e *TestEncryptor) Setup(string) error { return nil }

func (e *TestEncryptor) Seal(doc []byte) ([]byte, error) {
	return envelope{cipher: cipherTest, keyID: testKeyID}.wrap(doc), nil
}

func (e *TestEncryptor) Unlock(string) (storage.DecryptionContext, error) {
	return &TestDecryptionContext{}, nil
}

func (e *TestEncryptor) IsConfigured() bool { return true }

// TestDecryptionContext opens envelopes written by TestEncryptor.
type TestDecryptionContext struct{}

var _ storage.DecryptionContext = (*TestDecryptionContext)(nil)

func (c *TestDecryptionContext) Open(sealed []byte) ([]byte, error) {
	env, body, err := unwrap(sealed)
	if err != nil {
		return nil, err
	}
	if err := env.check(cipherTest, testKeyID); err != nil {
		return nil, err
	}
	return bytes.Clone(body), nil
}
