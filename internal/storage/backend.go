package storage

import (
	"errors"
	"io"
)

// ErrNotExist is returned by a Backend when nothing is stored under a key.
var ErrNotExist = errors.New("no data stored")

// Backend stores opaque documents by key. Implementations stream through
// io.Reader/io.Writer so callers never depend on where the bytes live.
type Backend interface {
	// Put stores the size bytes read from r under key, replacing any previous value.
	Put(key string, r io.Reader, size int64) error

	// Get writes the document stored under key to w.
	// Returns an error wrapping ErrNotExist when key holds nothing.
	Get(key string, w io.Writer) error
}
