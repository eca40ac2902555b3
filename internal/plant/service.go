package plant

import (
	"fmt"
	"strings"
)

// NoRemindersText is the reminder summary when nothing is due.
const NoRemindersText = "No plants need care today."

// Service owns the single in-memory collection of a session and coordinates
// it with the store, the clock and the logger.
type Service struct {
	collection *Collection
	store      Store
	logger     Logger
	clock      Clock
	home       string // locator the collection was loaded from
	dirty      bool
}

// ListEntry is one line of a plant listing.
type ListEntry struct {
	Position  int // 1-based position in the full collection
	Plant     *Plant
	Status    string
	NeedsCare bool
}

// NewService creates a Service with an empty collection.
func NewService(store Store, logger Logger, clock Clock) *Service {
	return &Service{
		collection: NewCollection(),
		store:      store,
		logger:     logger,
		clock:      clock,
	}
}

// Collection returns the session's collection.
func (s *Service) Collection() *Collection {
	return s.collection
}

// Today returns the current calendar day according to the service clock.
func (s *Service) Today() Date {
	return Today(s.clock)
}

// Dirty reports whether the collection has changes not yet written to the
// locator it was loaded from.
func (s *Service) Dirty() bool {
	return s.dirty
}

// Load replaces the collection with the one stored at locator.
// On failure the session continues with an empty collection.
func (s *Service) Load(locator string) error {
	c, err := s.store.Load(locator)
	if err != nil {
		s.collection = NewCollection()
		s.home = locator
		s.dirty = false
		s.logger.Error("load failed, continuing with an empty collection", "locator", locator, "error", err)
		return fmt.Errorf("loading plants from %s: %w", locator, err)
	}

	s.collection = c
	s.home = locator
	s.dirty = false
	s.logger.Info("plants loaded", "locator", locator, "count", c.Len())
	return nil
}

// Import replaces the collection with the one stored at locator and marks the
// session dirty so it is written back to the locator it was loaded from.
// On failure the current collection is kept.
func (s *Service) Import(locator string) (int, error) {
	c, err := s.store.Load(locator)
	if err != nil {
		s.logger.Error("import failed", "locator", locator, "error", err)
		return 0, fmt.Errorf("importing plants from %s: %w", locator, err)
	}

	s.collection = c
	s.dirty = true
	s.logger.Info("plants imported", "locator", locator, "count", c.Len())
	return c.Len(), nil
}

// Home returns the locator passed to the last Load.
func (s *Service) Home() string {
	return s.home
}

// Save writes the collection to locator. A failed save leaves memory untouched.
// Saving anywhere other than Home does not clear Dirty.
func (s *Service) Save(locator string) error {
	if err := s.store.Save(s.collection, locator); err != nil {
		s.logger.Error("save failed", "locator", locator, "error", err)
		return fmt.Errorf("saving plants to %s: %w", locator, err)
	}

	if locator == s.home {
		s.dirty = false
	}
	s.logger.Info("plants saved", "locator", locator, "count", s.collection.Len())
	return nil
}

// AddPlant adds a new plant cared for today.
func (s *Service) AddPlant(name string, waterDays, fertilizeDays int) (*Plant, error) {
	p, err := s.collection.Add(name, waterDays, fertilizeDays, s.Today())
	if err != nil {
		return nil, err
	}

	s.dirty = true
	s.logger.Info("plant added", "name", p.Name, "water_interval", waterDays, "fertilize_interval", fertilizeDays)
	return p, nil
}

// UpdateCare records watering and/or fertilizing of p today.
func (s *Service) UpdateCare(p *Plant, water, fertilize bool) error {
	if err := s.collection.UpdateCare(p, water, fertilize, s.Today()); err != nil {
		return err
	}
	if !water && !fertilize {
		return nil
	}

	s.dirty = true
	s.logger.Info("care updated", "name", p.Name, "water", water, "fertilize", fertilize)
	return nil
}

// RemovePlant deletes p from the collection.
func (s *Service) RemovePlant(p *Plant) error {
	if err := s.collection.Remove(p); err != nil {
		return err
	}

	s.dirty = true
	s.logger.Info("plant removed", "name", p.Name)
	return nil
}

// PlantAt returns the plant at 1-based position.
func (s *Service) PlantAt(position int) (*Plant, error) {
	return s.collection.At(position - 1)
}

// Search returns plants whose name contains term, ignoring case.
func (s *Service) Search(term string) []*Plant {
	return s.collection.FilterByName(term)
}

// Reminders returns the plants that need care today.
func (s *Service) Reminders() []*Plant {
	return s.collection.DueToday(s.Today())
}

// ReminderText renders today's reminders, one status line per plant.
func (s *Service) ReminderText() string {
	due := s.Reminders()
	if len(due) == 0 {
		return NoRemindersText
	}

	lines := make([]string, len(due))
	for i, p := range due {
		lines[i] = StatusText(p)
	}
	return strings.Join(lines, "\n")
}

// Listing returns the plants matching term with their status. Positions refer
// to the full collection so they stay valid whatever filter was applied.
func (s *Service) Listing(term string) []ListEntry {
	today := s.Today()
	matches := s.collection.FilterByName(term)

	entries := make([]ListEntry, 0, len(matches))
	for _, p := range matches {
		entries = append(entries, ListEntry{
			Position:  s.collection.IndexOf(p) + 1,
			Plant:     p,
			Status:    StatusText(p),
			NeedsCare: NeedsCareToday(p, today),
		})
	}
	return entries
}
