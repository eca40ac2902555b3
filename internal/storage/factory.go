package storage

import (
	"context"
	"fmt"

	"gt-go/internal/config"
	"gt-go/internal/plant"
)

// NewStoreFromConfig creates a plant.Store based on the storage config type.
// enc and dec are optional; when enc is set, saved documents are encrypted.
func NewStoreFromConfig(ctx context.Context, cfg config.StorageConfig, clock plant.Clock, enc Encryptor, dec DecryptionContext) (plant.Store, error) {
	switch cfg.Type {
	case "json", "":
		opts := []DocumentOption{WithBackend("mem", NewMemoryBackend())}
		if cfg.S3 != nil {
			s3b, err := NewS3Backend(ctx, *cfg.S3)
			if err != nil {
				return nil, fmt.Errorf("creating s3 backend: %w", err)
			}
			opts = append(opts, WithBackend("s3", s3b))
		}
		if enc != nil {
			opts = append(opts, WithEncryption(enc, dec))
		}
		return NewDocumentStore(NewFileSystemBackend(), clock, opts...), nil
	case "memory":
		mem := NewMemoryBackend()
		opts := []DocumentOption{WithBackend("mem", mem)}
		if enc != nil {
			opts = append(opts, WithEncryption(enc, dec))
		}
		return NewDocumentStore(mem, clock, opts...), nil
	case "sqlite":
		if enc != nil {
			return nil, fmt.Errorf("encryption is not supported with sqlite storage")
		}
		return NewSQLiteStore(clock), nil
	default:
		return nil, fmt.Errorf("unknown storage type: %s", cfg.Type)
	}
}
