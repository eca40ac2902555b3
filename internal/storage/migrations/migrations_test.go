package migrations

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	// A single connection keeps every query on the same in-memory database
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrateUp_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}

	for _, table := range []string{"plants", "schema_migrations"} {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s was not created: %v", table, err)
		}
	}

	// The latest migration adds saved_at
	if _, err := db.Exec("SELECT saved_at FROM plants"); err != nil {
		t.Errorf("saved_at column missing: %v", err)
	}
}

func TestCheckStatus_FreshDatabase(t *testing.T) {
	db := openTestDB(t)

	err := CheckStatus(db)
	if !errors.Is(err, ErrNoSchema) {
		t.Errorf("CheckStatus() error = %v, want ErrNoSchema", err)
	}
}

func TestCheckStatus_AfterMigration(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("MigrateUp() failed: %v", err)
	}
	if err := CheckStatus(db); err != nil {
		t.Errorf("CheckStatus() after migration returned error: %v", err)
	}
}

func TestCheckStatus_Versions(t *testing.T) {
	tests := []struct {
		name    string
		update  string
		wantErr error
	}{
		{name: "behind", update: "UPDATE schema_migrations SET version = 1", wantErr: ErrOutdatedSchema},
		{name: "ahead", update: "UPDATE schema_migrations SET version = 99", wantErr: ErrNewerSchema},
		{name: "dirty", update: "UPDATE schema_migrations SET dirty = 1", wantErr: ErrDirtySchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openTestDB(t)
			if err := MigrateUp(db); err != nil {
				t.Fatalf("MigrateUp() failed: %v", err)
			}
			if _, err := db.Exec(tt.update); err != nil {
				t.Fatalf("Exec(%q) failed: %v", tt.update, err)
			}

			if err := CheckStatus(db); !errors.Is(err, tt.wantErr) {
				t.Errorf("CheckStatus() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMigrateUp_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateUp(db); err != nil {
		t.Fatalf("first MigrateUp() failed: %v", err)
	}
	if err := MigrateUp(db); err != nil {
		t.Errorf("second MigrateUp() failed: %v (should be idempotent)", err)
	}
	if err := CheckStatus(db); err != nil {
		t.Errorf("CheckStatus() after double migration returned error: %v", err)
	}
}

func TestLatestVersion(t *testing.T) {
	got, err := LatestVersion()
	if err != nil {
		t.Fatalf("LatestVersion() error = %v", err)
	}
	if got != 2 {
		t.Errorf("LatestVersion() = %d, want 2", got)
	}
}
