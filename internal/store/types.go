package store

// Entry is one stored preference.
type Entry struct {
	Key   string
	Value string
}

// Storage defines the preference store used in place of a launcher's
// preference mechanism.
type Storage interface {
	SetConfig(key, value string) error
	// GetConfig returns "" for keys that were never set.
	GetConfig(key string) (string, error)
	DeleteConfig(key string) error
	// ListConfig returns all entries ordered by key.
	ListConfig() ([]Entry, error)

	Close() error
}
