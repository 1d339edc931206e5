package kvstore

import (
	"errors"
	"path/filepath"
	"sort"
	"testing"

	"github.com/paniterce/notecraftr/internal/apperr"
)

func openProviders(t *testing.T) map[string]Provider {
	t.Helper()
	sq, err := OpenSQLite(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { sq.Close() })

	dv, err := OpenDiskv(t.TempDir())
	if err != nil {
		t.Fatalf("OpenDiskv: %v", err)
	}
	t.Cleanup(func() { dv.Close() })

	return map[string]Provider{"sqlite": sq, "diskv": dv}
}

func TestSetGetRoundTrip(t *testing.T) {
	for name, p := range openProviders(t) {
		t.Run(name, func(t *testing.T) {
			if err := p.Set("k", []byte(`{"a":1}`)); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, err := p.Get("k")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if string(got) != `{"a":1}` {
				t.Errorf("value = %q", got)
			}
		})
	}
}

func TestGetAbsent(t *testing.T) {
	for name, p := range openProviders(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := p.Get("missing"); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
		})
	}
}

func TestSetOverwrites(t *testing.T) {
	for name, p := range openProviders(t) {
		t.Run(name, func(t *testing.T) {
			_ = p.Set("k", []byte("old"))
			if err := p.Set("k", []byte("new")); err != nil {
				t.Fatalf("Set: %v", err)
			}
			got, _ := p.Get("k")
			if string(got) != "new" {
				t.Errorf("value = %q", got)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	for name, p := range openProviders(t) {
		t.Run(name, func(t *testing.T) {
			_ = p.Set("k", []byte("v"))
			if err := p.Delete("k"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if _, err := p.Get("k"); !errors.Is(err, apperr.ErrNotFound) {
				t.Errorf("err = %v, want ErrNotFound", err)
			}
			// Deleting again is fine.
			if err := p.Delete("k"); err != nil {
				t.Errorf("second Delete: %v", err)
			}
		})
	}
}

func TestKeys(t *testing.T) {
	for name, p := range openProviders(t) {
		t.Run(name, func(t *testing.T) {
			_ = p.Set("b", []byte("2"))
			_ = p.Set("a", []byte("1"))
			keys, err := p.Keys()
			if err != nil {
				t.Fatalf("Keys: %v", err)
			}
			sort.Strings(keys)
			if len(keys) != 2 || keys[0] != "a" || keys[1] != "b" {
				t.Errorf("keys = %v", keys)
			}
		})
	}
}

func TestOpenSelectsDriver(t *testing.T) {
	p, err := Open(DriverDiskv, t.TempDir())
	if err != nil {
		t.Fatalf("Open diskv: %v", err)
	}
	defer p.Close()
	if _, ok := p.(*Diskv); !ok {
		t.Errorf("driver = %T", p)
	}

	p2, err := Open(DriverSQLite, filepath.Join(t.TempDir(), "s.db"))
	if err != nil {
		t.Fatalf("Open sqlite: %v", err)
	}
	defer p2.Close()
	if _, ok := p2.(*SQLite); !ok {
		t.Errorf("driver = %T", p2)
	}
}

func TestTrackerFiltersEchoes(t *testing.T) {
	tr := NewTracker()
	tr.Mark("k", []byte("v1"))
	if tr.Changed("k", []byte("v1")) {
		t.Error("own write reported as change")
	}
	if !tr.Changed("k", []byte("v2")) {
		t.Error("external change not reported")
	}
	// Once observed, the same content settles.
	if tr.Changed("k", []byte("v2")) {
		t.Error("repeated observation reported again")
	}
}
