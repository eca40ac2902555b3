package encryption

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"filippo.io/age"
)

// keyPair is the on-disk location of an age key pair. The public key is
// plaintext; the private key is age-encrypted to a scrypt passphrase.
type keyPair struct {
	publicPath  string
	privatePath string
}

// state reports whether each key file exists.
func (k keyPair) state() (public, private bool) {
	_, errPub := os.Stat(k.publicPath)
	_, errPriv := os.Stat(k.privatePath)
	return errPub == nil, errPriv == nil
}

// generate creates an X25519 identity and writes both key files. Neither
// file may exist yet.
func (k keyPair) generate(passphrase string) error {
	identity, err := age.GenerateX25519Identity()
	if err != nil {
		return fmt.Errorf("generating key pair: %w", err)
	}

	scrypt, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("creating scrypt recipient: %w", err)
	}
	var private bytes.Buffer
	w, err := age.Encrypt(&private, scrypt)
	if err != nil {
		return fmt.Errorf("creating encrypted writer: %w", err)
	}
	if _, err := io.WriteString(w, identity.String()+"\n"); err != nil {
		return fmt.Errorf("encrypting private key: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing private key: %w", err)
	}

	if err := writeKeyFile(k.privatePath, private.Bytes(), 0600); err != nil {
		return err
	}
	if err := writeKeyFile(k.publicPath, []byte(identity.Recipient().String()+"\n"), 0644); err != nil {
		os.Remove(k.privatePath)
		return err
	}
	return nil
}

func writeKeyFile(path string, data []byte, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating key directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("key file %s already exists", path)
		}
		return fmt.Errorf("creating key file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing key file %s: %w", path, err)
	}
	return f.Close()
}

// recipient reads the public key.
func (k keyPair) recipient() (*age.X25519Recipient, error) {
	data, err := os.ReadFile(k.publicPath)
	if err != nil {
		return nil, fmt.Errorf("reading public key: %w", err)
	}
	r, err := age.ParseX25519Recipient(strings.TrimSpace(string(data)))
	if err != nil {
		return nil, fmt.Errorf("parsing public key %s: %w", k.publicPath, err)
	}
	return r, nil
}

// identity decrypts the private key with passphrase.
func (k keyPair) identity(passphrase string) (*age.X25519Identity, error) {
	data, err := os.ReadFile(k.privatePath)
	if err != nil {
		return nil, fmt.Errorf("reading private key: %w", err)
	}

	scrypt, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("creating scrypt identity: %w", err)
	}
	r, err := age.Decrypt(bytes.NewReader(data), scrypt)
	if err != nil {
		return nil, fmt.Errorf("decrypting private key (wrong passphrase?): %w", err)
	}
	key, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading decrypted private key: %w", err)
	}

	id, err := age.ParseX25519Identity(strings.TrimSpace(string(key)))
	if err != nil {
		return nil, fmt.Errorf("parsing private key: %w", err)
	}
	return id, nil
}
