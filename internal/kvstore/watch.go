package kvstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Tracker remembers the last digest written or observed per key so the
// watcher can tell external snapshot changes from echoes of our own writes.
type Tracker struct {
	mu   sync.Mutex
	seen map[string]string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]string)}
}

// Mark records the digest of a value this process just wrote or loaded.
func (t *Tracker) Mark(key string, value []byte) {
	t.mu.Lock()
	t.seen[key] = digest(value)
	t.mu.Unlock()
}

// Changed reports whether value differs from the last marked digest for key,
// updating the record when it does.
func (t *Tracker) Changed(key string, value []byte) bool {
	d := digest(value)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.seen[key] == d {
		return false
	}
	t.seen[key] = d
	return true
}

func digest(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}

// ChangedFunc receives the keys whose stored values changed externally.
type ChangedFunc func(keys []string)

// Watch runs an fsnotify watcher over the provider's location until ctx is
// cancelled. Raw events are debounced, then every key is re-read and
// compared against the tracker; keys that differ are reported through cb.
// The sqlite driver's WAL traffic and our own writes produce events too,
// which the digest comparison filters out.
func Watch(ctx context.Context, p Provider, tracker *Tracker, logger *slog.Logger, cb ChangedFunc) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(p.Location()); err != nil {
		return err
	}

	logger.Info("store watcher: started", slog.String("location", p.Location()))

	var settleTimer *time.Timer
	var settleCh <-chan time.Time

	scheduleScan := func() {
		if settleTimer == nil {
			settleTimer = time.NewTimer(200 * time.Millisecond)
			settleCh = settleTimer.C
		} else {
			settleTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if settleTimer != nil {
				settleTimer.Stop()
			}
			logger.Info("store watcher: stopped")
			return nil

		case <-settleCh:
			changed := scanForChanges(p, tracker, logger)
			if len(changed) > 0 && cb != nil {
				cb(changed)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0 {
				scheduleScan()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("store watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// scanForChanges re-reads every stored key and returns those whose content
// no longer matches the tracker's record.
func scanForChanges(p Provider, tracker *Tracker, logger *slog.Logger) []string {
	keys, err := p.Keys()
	if err != nil {
		logger.Warn("store watcher: keys failed", slog.String("error", err.Error()))
		return nil
	}
	var changed []string
	for _, key := range keys {
		value, err := p.Get(key)
		if err != nil {
			continue
		}
		if tracker.Changed(key, value) {
			logger.Debug("store watcher: external change", slog.String("key", key))
			changed = append(changed, key)
		}
	}
	return changed
}
