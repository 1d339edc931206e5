// Package kvstore defines the durable key-value medium backing the
// persistence bridge, with interchangeable sqlite and diskv drivers.
package kvstore

// Drivers selectable in configuration.
const (
	DriverSQLite = "sqlite"
	DriverDiskv  = "diskv"
)

// Provider is the interface for durable key-value operations. Values are
// opaque serialized snapshots; the bridge owns their encoding.
type Provider interface {
	// Get returns the value stored under key, or apperr.ErrNotFound.
	Get(key string) ([]byte, error)
	// Set durably writes value under key, replacing any previous value.
	Set(key string, value []byte) error
	// Delete removes key. Missing keys are not an error.
	Delete(key string) error
	// Keys returns every stored key, unordered.
	Keys() ([]string, error)
	// Location returns the directory on disk holding the store, for the
	// external-change watcher.
	Location() string
	// Close releases the underlying resources.
	Close() error
}

// Keys used by the stores. The names are stable: they match the snapshots
// written by earlier releases, so existing user data loads as-is.
const (
	KeyTemplates      = "notecraftr-templates"
	KeySectionsFilter = "notecraftr-sections-filter"
	KeyPreviewVisible = "notecraftr-preview-visible"

	KeyNotes = "notes-notes"

	KeyFilterTargetText     = "textfiltr-target-text"
	KeyFilterNumbers        = "textfiltr-filter-numbers"
	KeyFilterLetters        = "textfiltr-filter-letters"
	KeyFilterSpecial        = "textfiltr-filter-special-characters"
	KeyFilterSpaces         = "textfiltr-filter-spaces"
	KeyFilterPreviewVisible = "textfiltr-preview-visible"

	KeyTheme                    = "notecraftr-theme"
	KeyAddonsEnabled            = "notecraftr-addons-enabled"
	KeyAutoCopyOnTemplateChange = "notecraftr-auto-copy-on-template-change"
	KeyAutoCopyOnOutputChange   = "notecraftr-auto-copy-on-output-change"
	KeyLinkedSectionsEnabled    = "notecraftr-linked-sections-enabled"
)

// Open creates a provider for the configured driver rooted at path.
func Open(driver, path string) (Provider, error) {
	switch driver {
	case DriverDiskv:
		return OpenDiskv(path)
	default:
		return OpenSQLite(path)
	}
}

// Compile-time driver checks.
var (
	_ Provider = (*SQLite)(nil)
	_ Provider = (*Diskv)(nil)
)
