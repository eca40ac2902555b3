package storage

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gt-go/internal/plant"
)

// DocumentStore persists a collection as a single JSON document. Locators
// without a scheme are handled by the default backend; "scheme://rest"
// locators go to the backend registered for that scheme with "rest" as key.
type DocumentStore struct {
	defaultBackend Backend
	backends       map[string]Backend
	encryptor      Encryptor
	decryptor      DecryptionContext
	clock          plant.Clock
}

var _ plant.Store = (*DocumentStore)(nil)

// DocumentOption configures a DocumentStore.
type DocumentOption func(*DocumentStore)

// WithBackend routes scheme://key locators to b.
func WithBackend(scheme string, b Backend) DocumentOption {
	return func(s *DocumentStore) {
		s.backends[scheme] = b
	}
}

// WithEncryption encrypts saved documents with enc and decrypts loaded ones
// with dec. dec may be nil for sessions that only ever save.
func WithEncryption(enc Encryptor, dec DecryptionContext) DocumentOption {
	return func(s *DocumentStore) {
		s.encryptor = enc
		s.decryptor = dec
	}
}

// NewDocumentStore creates a store whose plain locators use defaultBackend.
// The clock supplies the default date for records missing one.
func NewDocumentStore(defaultBackend Backend, clock plant.Clock, opts ...DocumentOption) *DocumentStore {
	s := &DocumentStore{
		defaultBackend: defaultBackend,
		backends:       make(map[string]Backend),
		clock:          clock,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Save encodes every plant in c and writes the document to locator.
func (s *DocumentStore) Save(c *plant.Collection, locator string) error {
	backend, key, err := s.resolve(locator)
	if err != nil {
		return err
	}

	data, err := encodeBytes(c.All())
	if err != nil {
		return err
	}

	if s.encryptor != nil {
		data, err = s.encryptor.Seal(data)
		if err != nil {
			return fmt.Errorf("encrypting plants: %w", err)
		}
	}

	if err := backend.Put(key, bytes.NewReader(data), int64(len(data))); err != nil {
		return fmt.Errorf("%w: %w", plant.ErrIO, err)
	}
	return nil
}

// Load reads and decodes the document at locator. Nothing stored yet is an
// empty collection.
func (s *DocumentStore) Load(locator string) (*plant.Collection, error) {
	backend, key, err := s.resolve(locator)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := backend.Get(key, &buf); err != nil {
		if errors.Is(err, ErrNotExist) {
			return plant.NewCollection(), nil
		}
		return nil, fmt.Errorf("%w: %w", plant.ErrIO, err)
	}

	data := buf.Bytes()
	if s.encryptor != nil {
		if s.decryptor == nil {
			return nil, fmt.Errorf("%w: plant data is encrypted and the key is locked", plant.ErrIO)
		}
		data, err = s.decryptor.Open(data)
		if err != nil {
			if !errors.Is(err, plant.ErrCorruptData) {
				err = fmt.Errorf("%w: %w", plant.ErrCorruptData, err)
			}
			return nil, fmt.Errorf("decrypting plants: %w", err)
		}
	}

	plants, err := DecodeDocument(bytes.NewReader(data), plant.Today(s.clock))
	if err != nil {
		return nil, err
	}
	return plant.NewCollection(plants...), nil
}

// resolve picks the backend and key for a locator.
func (s *DocumentStore) resolve(locator string) (Backend, string, error) {
	scheme, rest, ok := strings.Cut(locator, "://")
	if !ok {
		if locator == "" {
			return nil, "", fmt.Errorf("%w: empty locator", plant.ErrIO)
		}
		return s.defaultBackend, locator, nil
	}

	backend, found := s.backends[scheme]
	if !found {
		return nil, "", fmt.Errorf("%w: no storage backend for %s:// locators", plant.ErrIO, scheme)
	}
	return backend, rest, nil
}
