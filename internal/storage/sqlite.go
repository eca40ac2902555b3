package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"gt-go/internal/plant"
	"gt-go/internal/storage/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore persists a collection to a SQLite database file. The locator is
// the database path. Each Save replaces the stored rows in one transaction.
type SQLiteStore struct {
	clock plant.Clock
}

var _ plant.Store = (*SQLiteStore)(nil)

// NewSQLiteStore creates a SQLite-backed store.
func NewSQLiteStore(clock plant.Clock) *SQLiteStore {
	return &SQLiteStore{clock: clock}
}

// OpenConnection opens a SQLite database and brings its schema up to date.
// A database written by a newer binary, or left dirty by a failed migration,
// is refused with plant.ErrCorruptData and left untouched.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	switch err := migrations.CheckStatus(db); {
	case err == nil:
	case errors.Is(err, migrations.ErrNoSchema), errors.Is(err, migrations.ErrOutdatedSchema):
		if err := migrations.MigrateUp(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrating database: %w", err)
		}
	case errors.Is(err, migrations.ErrNewerSchema), errors.Is(err, migrations.ErrDirtySchema):
		db.Close()
		return nil, fmt.Errorf("%w: %w", plant.ErrCorruptData, err)
	default:
		db.Close()
		return nil, fmt.Errorf("checking schema: %w", err)
	}
	return db, nil
}

// Save replaces the plants stored at locator with the contents of c.
func (s *SQLiteStore) Save(c *plant.Collection, locator string) error {
	if err := os.MkdirAll(filepath.Dir(locator), 0755); err != nil {
		return fmt.Errorf("%w: creating data directory: %w", plant.ErrIO, err)
	}

	db, err := OpenConnection(locator)
	if err != nil {
		if errors.Is(err, plant.ErrCorruptData) {
			return err
		}
		return fmt.Errorf("%w: %w", plant.ErrIO, err)
	}
	defer db.Close()

	if err := s.replaceAll(db, c.All()); err != nil {
		return fmt.Errorf("%w: %w", plant.ErrIO, err)
	}
	return nil
}

func (s *SQLiteStore) replaceAll(db *sql.DB, plants []*plant.Plant) error {
	ctx := context.Background()

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM plants"); err != nil {
		return fmt.Errorf("clearing plants: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO plants
		(id, position, name, water_interval, fertilize_interval, last_watered, last_fertilized, saved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	savedAt := s.clock.Now().UTC().Format(time.RFC3339)
	for i, p := range plants {
		_, err := stmt.ExecContext(ctx,
			uuid.New().String(),
			i,
			p.Name,
			p.WaterIntervalDays,
			p.FertilizeIntervalDays,
			p.LastWatered.String(),
			p.LastFertilized.String(),
			savedAt,
		)
		if err != nil {
			return fmt.Errorf("inserting plant %q: %w", p.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// Load reads the plants stored at locator in saved order. A missing database
// file is an empty collection.
func (s *SQLiteStore) Load(locator string) (*plant.Collection, error) {
	if _, err := os.Stat(locator); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return plant.NewCollection(), nil
		}
		return nil, fmt.Errorf("%w: %w", plant.ErrIO, err)
	}

	db, err := OpenConnection(locator)
	if err != nil {
		if errors.Is(err, plant.ErrCorruptData) {
			return nil, err
		}
		// The file exists but is not a usable plant database
		return nil, fmt.Errorf("%w: %w", plant.ErrCorruptData, err)
	}
	defer db.Close()

	rows, err := db.QueryContext(context.Background(), `SELECT
		name, water_interval, fertilize_interval, last_watered, last_fertilized
		FROM plants ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying plants: %w", plant.ErrIO, err)
	}
	defer rows.Close()

	today := plant.Today(s.clock)
	c := plant.NewCollection()
	for rows.Next() {
		var (
			name                string
			waterDays, fertDays int
			watered, fertilized string
		)
		if err := rows.Scan(&name, &waterDays, &fertDays, &watered, &fertilized); err != nil {
			return nil, fmt.Errorf("%w: scanning plant: %w", plant.ErrCorruptData, err)
		}

		p, err := restoreRow(name, waterDays, fertDays, watered, fertilized, today)
		if err != nil {
			return nil, fmt.Errorf("%w: plant %q: %w", plant.ErrCorruptData, name, err)
		}
		c.Append(p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading plants: %w", plant.ErrIO, err)
	}
	return c, nil
}

func restoreRow(name string, waterDays, fertDays int, watered, fertilized string, today plant.Date) (*plant.Plant, error) {
	var lastWatered, lastFertilized plant.Date
	if err := lastWatered.UnmarshalText([]byte(watered)); err != nil {
		return nil, err
	}
	if err := lastFertilized.UnmarshalText([]byte(fertilized)); err != nil {
		return nil, err
	}
	return plant.RestorePlant(name, waterDays, fertDays, lastWatered, lastFertilized, today)
}
