package kvstore

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/peterbourgon/diskv/v3"

	"github.com/paniterce/notecraftr/internal/apperr"
)

// Diskv implements Provider backed by one file per key on disk. Useful when
// snapshots should be inspectable (and editable) with ordinary tools.
type Diskv struct {
	d    *diskv.Diskv
	base string
}

// OpenDiskv creates a provider rooted at the given directory, creating it
// when absent.
func OpenDiskv(base string) (*Diskv, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("kvstore: resolve base: %w", err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("kvstore: create base dir: %w", err)
	}
	d := diskv.New(diskv.Options{
		BasePath: abs,
		Transform: func(string) []string {
			return nil // flat layout, one file per key
		},
		CacheSizeMax: 1024 * 1024,
	})
	return &Diskv{d: d, base: abs}, nil
}

// Get returns the value stored under key.
func (s *Diskv) Get(key string) ([]byte, error) {
	if !s.d.Has(key) {
		return nil, apperr.ErrNotFound
	}
	value, err := s.d.Read(key)
	if err != nil {
		return nil, fmt.Errorf("kvstore: get %s: %w", key, err)
	}
	return value, nil
}

// Set durably writes value under key.
func (s *Diskv) Set(key string, value []byte) error {
	if err := s.d.Write(key, value); err != nil {
		return fmt.Errorf("kvstore: set %s: %w", key, err)
	}
	return nil
}

// Delete removes key; missing keys are not an error.
func (s *Diskv) Delete(key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("kvstore: delete %s: %w", key, err)
	}
	return nil
}

// Keys returns every stored key.
func (s *Diskv) Keys() ([]string, error) {
	var out []string
	for key := range s.d.Keys(nil) {
		out = append(out, key)
	}
	return out, nil
}

// Location returns the base directory.
func (s *Diskv) Location() string {
	return s.base
}

// Close is a no-op; diskv holds no long-lived handles.
func (s *Diskv) Close() error {
	return nil
}
