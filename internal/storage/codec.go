package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gt-go/internal/plant"
)

// record is the persisted form of one plant:
//
//	{"name": "Monstera", "water_interval": 7, "fertilize_interval": 30,
//	 "last_watered": "2024-01-01", "last_fertilized": "2024-01-01"}
type record struct {
	Name              string     `json:"name"`
	WaterInterval     interval   `json:"water_interval"`
	FertilizeInterval interval   `json:"fertilize_interval"`
	LastWatered       plant.Date `json:"last_watered"`
	LastFertilized    plant.Date `json:"last_fertilized"`
}

// interval decodes a JSON integer or a string holding one.
type interval int

func (i *interval) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("interval %q is not a whole number", s)
		}
		*i = interval(n)
		return nil
	}

	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("interval %s is not a whole number", b)
	}
	*i = interval(n)
	return nil
}

// EncodeDocument writes plants as an indented JSON array in collection order.
func EncodeDocument(w io.Writer, plants []*plant.Plant) error {
	doc := make([]record, 0, len(plants))
	for _, p := range plants {
		doc = append(doc, record{
			Name:              p.Name,
			WaterInterval:     interval(p.WaterIntervalDays),
			FertilizeInterval: interval(p.FertilizeIntervalDays),
			LastWatered:       p.LastWatered,
			LastFertilized:    p.LastFertilized,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encoding plants: %w", err)
	}
	return nil
}

// DecodeDocument reads a JSON array of plant records in file order.
// Records without a last-action date get today. Any malformed content
// returns an error wrapping plant.ErrCorruptData.
func DecodeDocument(r io.Reader, today plant.Date) ([]*plant.Plant, error) {
	dec := json.NewDecoder(r)

	var doc []record
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", plant.ErrCorruptData, err)
	}
	if doc == nil {
		// null decodes without error but is not a plant list
		return nil, fmt.Errorf("%w: document is null", plant.ErrCorruptData)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after plant list", plant.ErrCorruptData)
	}

	plants := make([]*plant.Plant, 0, len(doc))
	for i, rec := range doc {
		p, err := plant.RestorePlant(
			rec.Name,
			int(rec.WaterInterval),
			int(rec.FertilizeInterval),
			rec.LastWatered,
			rec.LastFertilized,
			today,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %w", plant.ErrCorruptData, i+1, err)
		}
		plants = append(plants, p)
	}
	return plants, nil
}

// encodeBytes is EncodeDocument into a fresh buffer.
func encodeBytes(plants []*plant.Plant) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodeDocument(&buf, plants); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
