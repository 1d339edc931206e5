// Package persist is the bridge between the in-memory stores and the
// durable key-value medium. Every mutation reports its changed slices; the
// bridge serializes exactly those slices and writes them under their fixed
// keys. In-memory state is the source of truth: writes are queued on a
// single goroutine and applied in dispatch order, so the last durable value
// always matches the last action applied.
package persist

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/paniterce/notecraftr/internal/apperr"
	"github.com/paniterce/notecraftr/internal/editor"
	"github.com/paniterce/notecraftr/internal/kvstore"
	"github.com/paniterce/notecraftr/internal/models"
	"github.com/paniterce/notecraftr/internal/notes"
	"github.com/paniterce/notecraftr/internal/settings"
	"github.com/paniterce/notecraftr/internal/textfiltr"
)

type writeReq struct {
	key   string
	value []byte
}

// Bridge loads store slices at startup and mirrors changed slices back to
// the durable store after every mutation.
type Bridge struct {
	store   kvstore.Provider
	tracker *kvstore.Tracker
	logger  *slog.Logger

	writeCh chan writeReq
	stopCh  chan struct{}
	stopped chan struct{}
	closed  atomic.Bool
}

// NewBridge creates a bridge over the given provider and starts its writer
// loop. tracker may be nil when no external-change watcher runs.
func NewBridge(store kvstore.Provider, tracker *kvstore.Tracker, logger *slog.Logger) *Bridge {
	b := &Bridge{
		store:   store,
		tracker: tracker,
		logger:  logger,
		writeCh: make(chan writeReq, 256),
		stopCh:  make(chan struct{}),
		stopped: make(chan struct{}),
	}
	go b.run()
	return b
}

func (b *Bridge) run() {
	defer close(b.stopped)
	for {
		select {
		case req := <-b.writeCh:
			b.write(req)
		case <-b.stopCh:
			// Flush whatever is queued before shutting down.
			for {
				select {
				case req := <-b.writeCh:
					b.write(req)
				default:
					return
				}
			}
		}
	}
}

func (b *Bridge) write(req writeReq) {
	if b.tracker != nil {
		b.tracker.Mark(req.key, req.value)
	}
	if err := b.store.Set(req.key, req.value); err != nil {
		b.logger.Error("persist: write failed",
			slog.String("key", req.key),
			slog.String("error", err.Error()))
	}
}

// Close flushes queued writes and stops the writer loop.
func (b *Bridge) Close() {
	if b.closed.CompareAndSwap(false, true) {
		close(b.stopCh)
	}
	<-b.stopped
}

// enqueue serializes v and hands it to the writer loop. Serialization
// happens on the caller so queued snapshots are immutable.
func (b *Bridge) enqueue(key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		b.logger.Error("persist: marshal failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return
	}
	select {
	case b.writeCh <- writeReq{key: key, value: data}:
	case <-b.stopped:
	}
}

// SaveEditor mirrors the editor slices that changed.
func (b *Bridge) SaveEditor(state editor.State, changed []editor.Slice) {
	for _, s := range changed {
		switch s {
		case editor.SliceTemplates:
			b.enqueue(kvstore.KeyTemplates, state.Templates)
		case editor.SliceSectionsFilter:
			b.enqueue(kvstore.KeySectionsFilter, state.SectionsFilter)
		case editor.SlicePreviewVisible:
			b.enqueue(kvstore.KeyPreviewVisible, state.PreviewVisible)
		}
	}
}

// SaveNotes mirrors the notes slice.
func (b *Bridge) SaveNotes(state notes.State, changed []notes.Slice) {
	for _, s := range changed {
		if s == notes.SliceNotes {
			b.enqueue(kvstore.KeyNotes, state.Notes)
		}
	}
}

// SaveTextFiltr mirrors the text filter slices that changed.
func (b *Bridge) SaveTextFiltr(state textfiltr.State, changed []textfiltr.Slice) {
	for _, s := range changed {
		switch s {
		case textfiltr.SliceTargetText:
			b.enqueue(kvstore.KeyFilterTargetText, state.TargetText)
		case textfiltr.SliceFilterNumbers:
			b.enqueue(kvstore.KeyFilterNumbers, state.FilterNumbers)
		case textfiltr.SliceFilterLetters:
			b.enqueue(kvstore.KeyFilterLetters, state.FilterLetters)
		case textfiltr.SliceFilterSpecial:
			b.enqueue(kvstore.KeyFilterSpecial, state.FilterSpecialCharacters)
		case textfiltr.SliceFilterSpaces:
			b.enqueue(kvstore.KeyFilterSpaces, state.FilterSpaces)
		case textfiltr.SlicePreviewVisible:
			b.enqueue(kvstore.KeyFilterPreviewVisible, state.PreviewVisible)
		}
	}
}

// SaveSettings mirrors the settings slices that changed.
func (b *Bridge) SaveSettings(state settings.State, changed []settings.Slice) {
	for _, s := range changed {
		switch s {
		case settings.SliceTheme:
			b.enqueue(kvstore.KeyTheme, state.Theme)
		case settings.SliceAddonsEnabled:
			b.enqueue(kvstore.KeyAddonsEnabled, state.AddonsEnabled)
		case settings.SliceAutoCopyOnTemplateChange:
			b.enqueue(kvstore.KeyAutoCopyOnTemplateChange, state.AutoCopyOnTemplateChange)
		case settings.SliceAutoCopyOnOutputChange:
			b.enqueue(kvstore.KeyAutoCopyOnOutputChange, state.AutoCopyOnOutputChange)
		case settings.SliceLinkedSectionsEnabled:
			b.enqueue(kvstore.KeyLinkedSectionsEnabled, state.LinkedSectionsEnabled)
		}
	}
}

// LoadEditor seeds editor state from the durable store.
func (b *Bridge) LoadEditor() editor.State {
	return editor.State{
		Templates:      b.LoadTemplates(),
		SectionsFilter: load(b, kvstore.KeySectionsFilter, ""),
		PreviewVisible: load(b, kvstore.KeyPreviewVisible, false),
	}
}

// LoadTemplates reads the template list slice, defaulting to empty.
func (b *Bridge) LoadTemplates() []models.Template {
	return load(b, kvstore.KeyTemplates, []models.Template{})
}

// LoadNotes seeds notes state from the durable store.
func (b *Bridge) LoadNotes() notes.State {
	return notes.State{Notes: load(b, kvstore.KeyNotes, []models.Note{})}
}

// LoadTextFiltr seeds text filter state from the durable store.
func (b *Bridge) LoadTextFiltr() textfiltr.State {
	return textfiltr.State{
		TargetText:              load(b, kvstore.KeyFilterTargetText, textfiltr.DefaultTargetText),
		FilterNumbers:           load(b, kvstore.KeyFilterNumbers, false),
		FilterLetters:           load(b, kvstore.KeyFilterLetters, false),
		FilterSpecialCharacters: load(b, kvstore.KeyFilterSpecial, false),
		FilterSpaces:            load(b, kvstore.KeyFilterSpaces, false),
		PreviewVisible:          load(b, kvstore.KeyFilterPreviewVisible, false),
	}
}

// LoadSettings seeds settings state from the durable store.
func (b *Bridge) LoadSettings() settings.State {
	return settings.State{
		Theme:                    load(b, kvstore.KeyTheme, settings.DefaultTheme),
		AddonsEnabled:            load(b, kvstore.KeyAddonsEnabled, false),
		AutoCopyOnTemplateChange: load(b, kvstore.KeyAutoCopyOnTemplateChange, false),
		AutoCopyOnOutputChange:   load(b, kvstore.KeyAutoCopyOnOutputChange, false),
		LinkedSectionsEnabled:    load(b, kvstore.KeyLinkedSectionsEnabled, false),
	}
}

// load reads and decodes one slice, falling back to def when the key is
// absent or its value malformed. Failures are logged, never raised.
func load[T any](b *Bridge, key string, def T) T {
	data, err := b.store.Get(key)
	if err != nil {
		if !errors.Is(err, apperr.ErrNotFound) {
			b.logger.Warn("persist: read failed",
				slog.String("key", key),
				slog.String("error", err.Error()))
		}
		return def
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		b.logger.Warn("persist: malformed value, using default",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return def
	}
	if b.tracker != nil {
		b.tracker.Mark(key, data)
	}
	return out
}
