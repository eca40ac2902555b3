package app

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gt-go/internal/config"
	"gt-go/internal/plant"
	"gt-go/internal/testutil"
)

func newTestConfig(t *testing.T) *config.Config {
	t.Helper()
	return config.NewConfig(t.TempDir())
}

func openTestApp(t *testing.T, cfg *config.Config, clock plant.Clock) *GTApp {
	t.Helper()
	a, err := newGTApp(cfg, "test", "", StaticPassphrase("secret"), clock)
	if err != nil {
		t.Fatalf("newGTApp() error = %v", err)
	}
	return a
}

func closeTestApp(t *testing.T, a *GTApp) {
	t.Helper()
	if err := a.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
}

func TestGTApp_AddPersistsOnClose(t *testing.T) {
	cfg := newTestConfig(t)
	clock := testutil.FixedClock()

	a := openTestApp(t, cfg, clock)
	if _, err := a.AddPlant("Fern", "3", "14"); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}
	if _, err := a.AddPlant("Monstera", " 7 ", "30"); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}
	closeTestApp(t, a)

	data, err := os.ReadFile(cfg.DataLocator())
	if err != nil {
		t.Fatalf("data file not written: %v", err)
	}
	if !strings.Contains(string(data), `"name": "Monstera"`) {
		t.Errorf("data file = %s, want Monstera", data)
	}

	b := openTestApp(t, cfg, clock)
	defer closeTestApp(t, b)
	entries := b.List("")
	if len(entries) != 2 || entries[0].Plant.Name != "Fern" || entries[1].Plant.Name != "Monstera" {
		t.Errorf("List() after reopen = %v, want [Fern Monstera]", entries)
	}
}

func TestGTApp_AddInvalidInterval(t *testing.T) {
	cfg := newTestConfig(t)
	a := openTestApp(t, cfg, testutil.FixedClock())

	tests := []struct {
		name, water, fertilize string
		want                   error
	}{
		{name: "Fern", water: "abc", fertilize: "14", want: plant.ErrInvalidInterval},
		{name: "Fern", water: "3", fertilize: "0", want: plant.ErrInvalidInterval},
		{name: "Fern", water: "-2", fertilize: "14", want: plant.ErrInvalidInterval},
		{name: "  ", water: "3", fertilize: "14", want: plant.ErrInvalidName},
	}
	for _, tt := range tests {
		if _, err := a.AddPlant(tt.name, tt.water, tt.fertilize); !errors.Is(err, tt.want) {
			t.Errorf("AddPlant(%q, %q, %q) error = %v, want %v", tt.name, tt.water, tt.fertilize, err, tt.want)
		}
	}
	if !a.op.Failed() {
		t.Error("operation not marked failed")
	}
	closeTestApp(t, a)

	// Nothing changed, so nothing was written
	if _, err := os.Stat(cfg.DataLocator()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("data file exists after failed adds, stat error = %v", err)
	}
}

func TestGTApp_CareAndReminders(t *testing.T) {
	cfg := newTestConfig(t)
	clock := testutil.FixedClock()

	a := openTestApp(t, cfg, clock)
	if _, err := a.AddPlant("Fern", "3", "14"); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}
	closeTestApp(t, a)

	clock.AdvanceDays(3)

	b := openTestApp(t, cfg, clock)
	if got, want := b.Reminders(), "Fern: Water by 2024-01-18, Fertilize by 2024-01-29"; got != want {
		t.Errorf("Reminders() = %q, want %q", got, want)
	}
	if _, err := b.UpdateCare(1, "water"); err != nil {
		t.Fatalf("UpdateCare() error = %v", err)
	}
	if _, err := b.UpdateCare(1, "prune"); err == nil {
		t.Error("UpdateCare() with unknown action should fail")
	}
	if _, err := b.UpdateCare(2, "water"); !errors.Is(err, plant.ErrNotFound) {
		t.Errorf("UpdateCare(2) error = %v, want ErrNotFound", err)
	}
	closeTestApp(t, b)

	c := openTestApp(t, cfg, clock)
	defer closeTestApp(t, c)
	if got := c.Reminders(); got != plant.NoRemindersText {
		t.Errorf("Reminders() after watering = %q, want %q", got, plant.NoRemindersText)
	}
}

func TestGTApp_RemovePlant(t *testing.T) {
	cfg := newTestConfig(t)
	clock := testutil.FixedClock()

	a := openTestApp(t, cfg, clock)
	for _, name := range []string{"Fern", "Cactus", "Fern"} {
		if _, err := a.AddPlant(name, "3", "14"); err != nil {
			t.Fatalf("AddPlant() error = %v", err)
		}
	}
	closeTestApp(t, a)

	b := openTestApp(t, cfg, clock)
	removed, err := b.RemovePlant(3)
	if err != nil {
		t.Fatalf("RemovePlant() error = %v", err)
	}
	if removed.Name != "Fern" {
		t.Errorf("RemovePlant() removed %s, want Fern", removed.Name)
	}
	if _, err := b.RemovePlant(3); !errors.Is(err, plant.ErrNotFound) {
		t.Errorf("RemovePlant(3) again error = %v, want ErrNotFound", err)
	}
	closeTestApp(t, b)

	c := openTestApp(t, cfg, clock)
	defer closeTestApp(t, c)
	if got := len(c.List("")); got != 2 {
		t.Errorf("List() has %d plants after remove, want 2", got)
	}
}

func TestGTApp_SaveAsAndImport(t *testing.T) {
	cfg := newTestConfig(t)
	clock := testutil.FixedClock()
	backup := filepath.Join(t.TempDir(), "backup.json")

	a := openTestApp(t, cfg, clock)
	if _, err := a.AddPlant("Aloe", "14", "60"); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}
	if err := a.SaveAs(backup); err != nil {
		t.Fatalf("SaveAs() error = %v", err)
	}
	if _, err := a.AddPlant("Pothos", "7", "30"); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}
	closeTestApp(t, a)

	b := openTestApp(t, cfg, clock)
	n, err := b.Import(backup)
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if n != 1 {
		t.Errorf("Import() = %d, want 1", n)
	}
	closeTestApp(t, b)

	c := openTestApp(t, cfg, clock)
	defer closeTestApp(t, c)
	entries := c.List("")
	if len(entries) != 1 || entries[0].Plant.Name != "Aloe" {
		t.Errorf("List() after import = %v, want [Aloe]", entries)
	}
}

func TestGTApp_CorruptDataFile(t *testing.T) {
	cfg := newTestConfig(t)
	clock := testutil.FixedClock()
	garbage := []byte("not a plant list")
	if err := os.WriteFile(cfg.DataLocator(), garbage, 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	a := openTestApp(t, cfg, clock)
	if got := len(a.List("")); got != 0 {
		t.Errorf("List() = %d plants, want 0", got)
	}
	if _, err := a.AddPlant("Fern", "3", "14"); !errors.Is(err, plant.ErrCorruptData) {
		t.Errorf("AddPlant() error = %v, want ErrCorruptData", err)
	}
	if err := a.SaveAs(cfg.DataLocator()); !errors.Is(err, plant.ErrCorruptData) {
		t.Errorf("SaveAs(data file) error = %v, want ErrCorruptData", err)
	}
	t.Chdir(filepath.Dir(cfg.DataLocator()))
	if err := a.SaveAs(filepath.Base(cfg.DataLocator())); !errors.Is(err, plant.ErrCorruptData) {
		t.Errorf("SaveAs(relative data file) error = %v, want ErrCorruptData", err)
	}
	if err := a.SaveAs(filepath.Join(t.TempDir(), "elsewhere.json")); err != nil {
		t.Errorf("SaveAs(other file) error = %v", err)
	}
	closeTestApp(t, a)

	logData, err := os.ReadFile(filepath.Join(cfg.LogDir, "gt.log"))
	if err != nil {
		t.Fatalf("ReadFile(log) error = %v", err)
	}
	var problems int
	for _, line := range strings.Split(string(logData), "\n") {
		fields := strings.Split(line, "\t")
		if len(fields) > 1 && (fields[1] == "WARN" || fields[1] == "ERROR") {
			problems++
		}
	}
	if problems != 1 {
		t.Errorf("log has %d warning/error lines for one failed load, want 1:\n%s", problems, logData)
	}

	data, err := os.ReadFile(cfg.DataLocator())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != string(garbage) {
		t.Errorf("corrupt data file was overwritten with %q", data)
	}

	// Importing a good file recovers the session
	good := filepath.Join(t.TempDir(), "good.json")
	doc := `[{"name": "Fern", "water_interval": 3, "fertilize_interval": 14, "last_watered": "2024-01-15", "last_fertilized": "2024-01-15"}]`
	if err := os.WriteFile(good, []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	b := openTestApp(t, cfg, clock)
	if _, err := b.Import(good); err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	closeTestApp(t, b)

	c := openTestApp(t, cfg, clock)
	defer closeTestApp(t, c)
	if got := len(c.List("")); got != 1 {
		t.Errorf("List() after recovery = %d plants, want 1", got)
	}
}

func TestGTApp_Encrypted(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Encryption.Type = "age"
	clock := testutil.FixedClock()

	if _, err := newGTApp(cfg, "test", "", StaticPassphrase("secret"), clock); err == nil {
		t.Fatal("newGTApp() without keys should fail")
	}

	if err := SetupEncryption(cfg, "secret"); err != nil {
		t.Fatalf("SetupEncryption() error = %v", err)
	}

	a := openTestApp(t, cfg, clock)
	if _, err := a.AddPlant("Fern", "3", "14"); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}
	closeTestApp(t, a)

	data, err := os.ReadFile(cfg.DataLocator())
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if strings.Contains(string(data), "Fern") {
		t.Error("encrypted data file contains plaintext plant name")
	}

	if _, err := newGTApp(cfg, "test", "", StaticPassphrase("wrong"), clock); err == nil {
		t.Error("newGTApp() with wrong passphrase should fail")
	}

	b := openTestApp(t, cfg, clock)
	defer closeTestApp(t, b)
	if got := len(b.List("")); got != 1 {
		t.Errorf("List() = %d plants, want 1", got)
	}
}

func TestGTApp_SQLiteStorage(t *testing.T) {
	cfg := newTestConfig(t)
	cfg.Storage.Type = "sqlite"
	cfg.DataFile = "plants.db"
	clock := testutil.FixedClock()

	a := openTestApp(t, cfg, clock)
	if _, err := a.AddPlant("Fern", "3", "14"); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}
	closeTestApp(t, a)

	b := openTestApp(t, cfg, clock)
	defer closeTestApp(t, b)
	entries := b.List("fern")
	if len(entries) != 1 || entries[0].Position != 1 {
		t.Errorf("List(\"fern\") = %v, want Fern at position 1", entries)
	}
}

func TestGTApp_LogsOperation(t *testing.T) {
	cfg := newTestConfig(t)
	a, err := newGTApp(cfg, "add", "Fern 3 14", StaticPassphrase(""), testutil.FixedClock())
	if err != nil {
		t.Fatalf("newGTApp() error = %v", err)
	}
	if _, err := a.AddPlant("Fern", "3", "14"); err != nil {
		t.Fatalf("AddPlant() error = %v", err)
	}
	closeTestApp(t, a)

	data, err := os.ReadFile(filepath.Join(cfg.LogDir, "gt.log"))
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	log := string(data)
	for _, want := range []string{
		"command started\tcommand=add\tstatus=success\tparameters=Fern 3 14",
		"plant added\tname=Fern",
		"plants saved",
		"command finished\tcommand=add\tstatus=success",
	} {
		if !strings.Contains(log, want) {
			t.Errorf("log missing %q:\n%s", want, log)
		}
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{err: plant.ErrInvalidInterval, want: "Please enter valid numbers for intervals."},
		{err: errors.New("something else"), want: ""},
	}
	for _, tt := range tests {
		if got := Hint(tt.err); got != tt.want {
			t.Errorf("Hint(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
