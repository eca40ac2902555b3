package plant

import "errors"

// Sentinel errors for the plant core. Use errors.Is() to check these.
var (
	// ErrInvalidInterval indicates a care interval that is not a positive whole number of days.
	ErrInvalidInterval = errors.New("invalid care interval")

	// ErrInvalidName indicates an empty or blank plant name.
	ErrInvalidName = errors.New("invalid plant name")

	// ErrNotFound indicates the referenced plant is not in the collection.
	ErrNotFound = errors.New("plant not found")

	// ErrIO indicates the data file or object could not be read or written.
	ErrIO = errors.New("plant data i/o error")

	// ErrCorruptData indicates persisted plant data could not be decoded.
	ErrCorruptData = errors.New("corrupt plant data")
)
