package plant

// Store persists a whole collection to a locator and reads it back.
// A locator is a file path or a backend-specific URL such as s3://bucket/key.
type Store interface {
	// Save writes every plant in c, in order. Write failures wrap ErrIO.
	Save(c *Collection, locator string) error

	// Load reads the collection stored at locator. A locator with nothing
	// stored yet yields an empty collection, not an error. Unreadable sources
	// wrap ErrIO and undecodable content wraps ErrCorruptData.
	Load(locator string) (*Collection, error)
}
