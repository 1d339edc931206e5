// Package testutil provides shared test helpers for setting up durable
// stores and loggers.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/paniterce/notecraftr/internal/kvstore"
)

// SQLiteProvider creates a temporary sqlite-backed store that is
// automatically cleaned up.
func SQLiteProvider(t *testing.T) kvstore.Provider {
	t.Helper()
	p, err := kvstore.OpenSQLite(filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

// DiskvProvider creates a temporary diskv-backed store that is automatically
// cleaned up.
func DiskvProvider(t *testing.T) kvstore.Provider {
	t.Helper()
	p, err := kvstore.OpenDiskv(filepath.Join(t.TempDir(), "store"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
