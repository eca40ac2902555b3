package testutil

import (
	"gt-go/internal/plant"
	"gt-go/internal/storage"
)

// NewTestStore creates a JSON document store kept entirely in memory.
// Plain locators and mem:// locators share the same backend.
func NewTestStore(clock plant.Clock) *storage.DocumentStore {
	mem := storage.NewMemoryBackend()
	return storage.NewDocumentStore(mem, clock, storage.WithBackend("mem", mem))
}

// FailingStore is a plant.Store whose operations fail with the configured
// errors. A nil error falls through to the wrapped store.
type FailingStore struct {
	plant.Store
	SaveErr error
	LoadErr error
}

func (s *FailingStore) Save(c *plant.Collection, locator string) error {
	if s.SaveErr != nil {
		return s.SaveErr
	}
	return s.Store.Save(c, locator)
}

func (s *FailingStore) Load(locator string) (*plant.Collection, error) {
	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return s.Store.Load(locator)
}

var _ plant.Store = (*FailingStore)(nil)
