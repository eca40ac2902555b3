package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gt-go/internal/config"
	"gt-go/internal/encryption"
	"gt-go/internal/plant"
	"gt-go/internal/storage"
)

// GTApp is the application layer between the CLI and plant.Service.
// It constructs all dependencies from config, loads the data file, exposes
// operations that accept raw command-line strings, and writes changes back
// on Close.
type GTApp struct {
	service *plant.Service
	logger  *slogAdapter
	op      *Operation
	logFile *os.File
	loadErr error
}

// NewGTApp creates a fully wired GTApp from the given config and loads the
// configured data file. operation and parameters identify the CLI command
// being run. passphrase is only consulted when encryption is configured.
// The caller must call Close when done.
func NewGTApp(cfg *config.Config, operation, parameters string, passphrase PassphraseFunc) (*GTApp, error) {
	return newGTApp(cfg, operation, parameters, passphrase, plant.RealClock{})
}

func newGTApp(cfg *config.Config, operation, parameters string, passphrase PassphraseFunc, clock plant.Clock) (*GTApp, error) {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	var dec storage.DecryptionContext
	if enc != nil {
		if !enc.IsConfigured() {
			return nil, fmt.Errorf("encryption keys not found at %s: run gt config init --encrypt", cfg.Encryption.PrivateKeyPath)
		}
		pass, err := passphrase()
		if err != nil {
			return nil, err
		}
		dec, err = enc.Unlock(pass)
		if err != nil {
			return nil, fmt.Errorf("unlocking private key: %w", err)
		}
	}

	store, err := storage.NewStoreFromConfig(context.Background(), cfg.Storage, clock, enc, dec)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}

	logger, logFile, err := newLogger(cfg.LogDir, newSessionID())
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	log := &slogAdapter{l: logger}

	op := NewOperation(operation, parameters)
	log.Info("command started", op.logArgs()...)

	svc := plant.NewService(store, log, clock)
	a := &GTApp{
		service: svc,
		logger:  log,
		op:      op,
		logFile: logFile,
	}

	// A data file that cannot be read leaves an empty session. Reads go on;
	// writes are refused so the unreadable file is never overwritten.
	// Service.Load has already logged the failure.
	if err := svc.Load(cfg.DataLocator()); err != nil {
		a.loadErr = err
	}

	return a, nil
}

// DataLocator returns the locator of the session's data file.
func (a *GTApp) DataLocator() string {
	return a.service.Home()
}

// writable returns the load error when the session must not save over its data file.
func (a *GTApp) writable() error {
	if a.loadErr != nil {
		return fmt.Errorf("data file %s could not be loaded, refusing to modify it: %w", a.DataLocator(), a.loadErr)
	}
	return nil
}

// AddPlant parses the interval arguments and adds a plant cared for today.
func (a *GTApp) AddPlant(name, waterDays, fertilizeDays string) (*plant.Plant, error) {
	if err := a.writable(); err != nil {
		return nil, a.op.Record(err)
	}

	water, err := plant.ParseInterval(waterDays)
	if err != nil {
		return nil, a.op.Record(fmt.Errorf("water interval: %w", err))
	}
	fertilize, err := plant.ParseInterval(fertilizeDays)
	if err != nil {
		return nil, a.op.Record(fmt.Errorf("fertilize interval: %w", err))
	}

	p, err := a.service.AddPlant(name, water, fertilize)
	return p, a.op.Record(err)
}

// List returns the plants whose name contains term (all plants for "").
func (a *GTApp) List(term string) []plant.ListEntry {
	return a.service.Listing(term)
}

// PlantAt returns the plant at a 1-based position as printed by List.
func (a *GTApp) PlantAt(position int) (*plant.Plant, error) {
	p, err := a.service.PlantAt(position)
	return p, a.op.Record(err)
}

// UpdateCare records action ("water", "fertilize" or "both") for the plant
// at position.
func (a *GTApp) UpdateCare(position int, action string) (*plant.Plant, error) {
	if err := a.writable(); err != nil {
		return nil, a.op.Record(err)
	}

	water, fertilize, err := plant.ParseCareAction(action)
	if err != nil {
		return nil, a.op.Record(err)
	}
	p, err := a.service.PlantAt(position)
	if err != nil {
		return nil, a.op.Record(err)
	}
	if err := a.service.UpdateCare(p, water, fertilize); err != nil {
		return nil, a.op.Record(err)
	}
	return p, nil
}

// RemovePlant deletes the plant at position and returns it.
func (a *GTApp) RemovePlant(position int) (*plant.Plant, error) {
	if err := a.writable(); err != nil {
		return nil, a.op.Record(err)
	}

	p, err := a.service.PlantAt(position)
	if err != nil {
		return nil, a.op.Record(err)
	}
	if err := a.service.RemovePlant(p); err != nil {
		return nil, a.op.Record(err)
	}
	return p, nil
}

// Reminders renders the status lines of every plant that needs care today.
func (a *GTApp) Reminders() string {
	return a.service.ReminderText()
}

// SaveAs writes the collection to locator. Saving over a data file that
// could not be loaded is refused like any other write.
func (a *GTApp) SaveAs(locator string) error {
	if sameLocator(locator, a.DataLocator()) {
		if err := a.writable(); err != nil {
			return a.op.Record(err)
		}
	}
	return a.op.Record(a.service.Save(locator))
}

// sameLocator reports whether two locators name the same data file.
// File paths are compared in absolute form.
func sameLocator(a, b string) bool {
	if a == b {
		return true
	}
	if strings.Contains(a, "://") || strings.Contains(b, "://") {
		return false
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// Import replaces the collection with the one at locator. It is written to
// the data file on Close, which also recovers a session whose data file
// could not be loaded.
func (a *GTApp) Import(locator string) (int, error) {
	n, err := a.service.Import(locator)
	if err != nil {
		return 0, a.op.Record(err)
	}
	a.loadErr = nil
	return n, nil
}

// Close saves the collection to the data file when the session changed it,
// logs the operation's outcome and closes the log file.
func (a *GTApp) Close() error {
	var firstErr error

	if a.loadErr == nil && a.service.Dirty() {
		if err := a.service.Save(a.DataLocator()); err != nil {
			a.op.Record(err)
			firstErr = err
		}
	}

	a.logger.Info("command finished", a.op.logArgs()...)

	if a.logFile != nil {
		if err := a.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing log file: %w", err)
		}
	}

	return firstErr
}

// Hint returns a user-facing suggestion for errors from the plant core,
// or "" when there is nothing to add to the error itself.
func Hint(err error) string {
	switch {
	case errors.Is(err, plant.ErrInvalidInterval):
		return "Please enter valid numbers for intervals."
	case errors.Is(err, plant.ErrInvalidName):
		return "Please enter a plant name."
	case errors.Is(err, plant.ErrNotFound):
		return "No plant at that position. Run gt list to see positions."
	case errors.Is(err, plant.ErrCorruptData):
		return "The plant data file is damaged or not a plant list."
	case errors.Is(err, plant.ErrIO):
		return "The plant data file could not be read or written."
	default:
		return ""
	}
}

// SetupEncryption generates the key pair configured in cfg.Encryption,
// protecting the private key with passphrase.
func SetupEncryption(cfg *config.Config, passphrase string) error {
	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if enc == nil {
		return fmt.Errorf("encryption is disabled in the config")
	}
	if err := enc.Setup(passphrase); err != nil {
		return fmt.Errorf("setting up encryption: %w", err)
	}
	return nil
}
