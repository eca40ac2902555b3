package plant

import (
	"fmt"
	"slices"
	"strings"
)

// Collection is an ordered list of plants. Insertion order is preserved and
// names need not be unique: two plants with the same name are distinct records.
//
// Queries return freshly built slices, never views into the collection.
type Collection struct {
	plants []*Plant
}

// NewCollection creates a collection holding the given plants in order.
func NewCollection(plants ...*Plant) *Collection {
	c := &Collection{}
	for _, p := range plants {
		c.Append(p)
	}
	return c
}

// Add validates and appends a new plant that was cared for today.
func (c *Collection) Add(name string, waterDays, fertilizeDays int, today Date) (*Plant, error) {
	p, err := NewPlant(name, waterDays, fertilizeDays, today)
	if err != nil {
		return nil, err
	}
	c.plants = append(c.plants, p)
	return p, nil
}

// Append adds an already-built plant, e.g. one restored from storage.
func (c *Collection) Append(p *Plant) {
	if p == nil {
		return
	}
	c.plants = append(c.plants, p)
}

// Remove deletes p from the collection. Matching is by identity, not by field values.
func (c *Collection) Remove(p *Plant) error {
	i := c.IndexOf(p)
	if i < 0 {
		return fmt.Errorf("removing plant: %w", ErrNotFound)
	}
	c.plants = slices.Delete(c.plants, i, i+1)
	return nil
}

// UpdateCare records watering and/or fertilizing on now.
// Both flags false is a no-op.
func (c *Collection) UpdateCare(p *Plant, water, fertilize bool, now Date) error {
	if c.IndexOf(p) < 0 {
		return fmt.Errorf("updating care: %w", ErrNotFound)
	}
	if water {
		p.LastWatered = now
	}
	if fertilize {
		p.LastFertilized = now
	}
	return nil
}

// FilterByName returns the plants whose name contains term, ignoring case,
// in collection order. An empty term returns every plant.
func (c *Collection) FilterByName(term string) []*Plant {
	term = strings.ToLower(term)
	out := make([]*Plant, 0, len(c.plants))
	for _, p := range c.plants {
		if strings.Contains(strings.ToLower(p.Name), term) {
			out = append(out, p)
		}
	}
	return out
}

// DueToday returns the plants that need care on or before today, in collection order.
func (c *Collection) DueToday(today Date) []*Plant {
	var out []*Plant
	for _, p := range c.plants {
		if NeedsCareToday(p, today) {
			out = append(out, p)
		}
	}
	return out
}

// All returns a copy of the plant list.
func (c *Collection) All() []*Plant {
	out := make([]*Plant, len(c.plants))
	copy(out, c.plants)
	return out
}

func (c *Collection) Len() int { return len(c.plants) }

// At returns the plant at 0-based position i.
func (c *Collection) At(i int) (*Plant, error) {
	if i < 0 || i >= len(c.plants) {
		return nil, fmt.Errorf("position %d: %w", i+1, ErrNotFound)
	}
	return c.plants[i], nil
}

// IndexOf returns the position of p, or -1 if p is not in the collection.
func (c *Collection) IndexOf(p *Plant) int {
	for i, q := range c.plants {
		if q == p {
			return i
		}
	}
	return -1
}

// ParseCareAction turns "water", "fertilize" or "both" into care flags.
func ParseCareAction(action string) (water, fertilize bool, err error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case "water":
		return true, false, nil
	case "fertilize":
		return false, true, nil
	case "both":
		return true, true, nil
	default:
		return false, false, fmt.Errorf("unknown care action %q (want water, fertilize or both)", action)
	}
}
