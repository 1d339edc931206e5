// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/paniterce/notecraftr/internal/api"
	"github.com/paniterce/notecraftr/internal/editor"
	"github.com/paniterce/notecraftr/internal/kvstore"
	"github.com/paniterce/notecraftr/internal/notes"
	"github.com/paniterce/notecraftr/internal/persist"
	"github.com/paniterce/notecraftr/internal/settings"
	"github.com/paniterce/notecraftr/internal/sse"
	"github.com/paniterce/notecraftr/internal/textfiltr"
)

// Run starts the application with the given options.
func Run(ctx context.Context, opts ...Option) error {
	app := &application{copyText: defaultClipboard()}

	for _, opt := range opts {
		opt(app)
	}

	if app.config == nil {
		return fmt.Errorf("config is required")
	}

	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("store_path", cfg.Store.Path),
		slog.String("log_level", cfg.App.LogLevel.String()))

	if cfg.Store.Driver == kvstore.DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.Store.Path), 0o755); err != nil {
			return fmt.Errorf("create store dir: %w", err)
		}
	}

	// Durable store, change tracker and persistence bridge.
	provider, err := kvstore.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer provider.Close()

	tracker := kvstore.NewTracker()
	bridge := persist.NewBridge(provider, tracker, logger)
	defer bridge.Close()

	// SSE broker.
	broker := sse.NewBroker(500 * time.Millisecond)
	defer broker.Close()

	// Seed the stores from the durable snapshots and wire their change
	// hooks: persistence mirror, window events, auto-copy.
	st := newStores(bridge, broker, logger, app.copyText)

	// Build API handler and router.
	handler := api.NewHandler(st.editor, st.notes, st.filter, st.settings, broker)
	apiRouter := api.NewRouter(handler, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:    cfg.App.HTTP.Address(),
		Handler: r,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Watch the store location for writes from other windows.
	g.Go(func() error {
		return kvstore.Watch(gCtx, provider, tracker, logger, func(keys []string) {
			st.reload(keys)
			broker.PublishStoreReloaded(keys)
		})
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// stores bundles the four state stores with the shared side effects of
// their mutations.
type stores struct {
	editor   *editor.Store
	notes    *notes.Store
	filter   *textfiltr.Store
	settings *settings.Store

	bridge   *persist.Bridge
	broker   *sse.Broker
	logger   *slog.Logger
	copyText func(string) error

	mu           sync.Mutex
	lastOutput   string
	lastActiveID int
}

func newStores(bridge *persist.Bridge, broker *sse.Broker, logger *slog.Logger, copyText func(string) error) *stores {
	s := &stores{
		bridge:   bridge,
		broker:   broker,
		logger:   logger,
		copyText: copyText,
	}

	editorState := bridge.LoadEditor()
	s.lastOutput = editor.Output(editorState)
	s.lastActiveID = -1
	if active := editor.ActiveTemplate(editorState); active != nil {
		s.lastActiveID = active.ID
	}

	s.editor = editor.NewStore(editorState, s.onEditorChange)
	s.notes = notes.NewStore(bridge.LoadNotes(), s.onNotesChange)
	s.filter = textfiltr.NewStore(bridge.LoadTextFiltr(), s.onFilterChange)
	s.settings = settings.NewStore(bridge.LoadSettings(), s.onSettingsChange)
	return s
}

func (s *stores) onEditorChange(state editor.State, changed []editor.Slice) {
	s.bridge.SaveEditor(state, changed)
	for _, sl := range changed {
		if sl == editor.SliceTemplates {
			s.afterTemplatesChange(state)
			return
		}
	}
}

// afterTemplatesChange publishes template/output events and drives the
// auto-copy hooks off the settings state.
func (s *stores) afterTemplatesChange(state editor.State) {
	output := editor.Output(state)
	activeID := -1
	if active := editor.ActiveTemplate(state); active != nil {
		activeID = active.ID
	}

	s.mu.Lock()
	outputChanged := output != s.lastOutput
	activeChanged := activeID != s.lastActiveID
	s.lastOutput = output
	s.lastActiveID = activeID
	s.mu.Unlock()

	if activeChanged {
		s.broker.PublishTemplateChanged(activeID)
	}
	if outputChanged {
		s.broker.PublishOutputChanged(output)
	}

	prefs := s.settings.State()
	if (outputChanged && prefs.AutoCopyOnOutputChange) ||
		(activeChanged && prefs.AutoCopyOnTemplateChange) {
		if err := s.copyText(output); err != nil {
			s.logger.Warn("clipboard write failed", slog.String("error", err.Error()))
		}
	}
}

func (s *stores) onNotesChange(state notes.State, changed []notes.Slice) {
	s.bridge.SaveNotes(state, changed)
}

func (s *stores) onFilterChange(state textfiltr.State, changed []textfiltr.Slice) {
	s.bridge.SaveTextFiltr(state, changed)
}

func (s *stores) onSettingsChange(state settings.State, changed []settings.Slice) {
	s.bridge.SaveSettings(state, changed)
}

// reload re-seeds the slices behind externally changed keys. The dispatches
// run the normal change hooks, so windows receive the usual events with the
// write-back suppressed by the tracker.
func (s *stores) reload(keys []string) {
	for _, key := range keys {
		switch key {
		case kvstore.KeyTemplates:
			s.editor.Dispatch(editor.LoadTemplates{Templates: s.bridge.LoadTemplates()})
		case kvstore.KeySectionsFilter:
			s.editor.Dispatch(editor.UpdateSectionFilter{Filter: s.bridge.LoadEditor().SectionsFilter})
		case kvstore.KeyPreviewVisible:
			s.editor.Dispatch(editor.UpdatePreviewVisible{Visible: s.bridge.LoadEditor().PreviewVisible})
		case kvstore.KeyNotes:
			s.notes.Dispatch(notes.LoadNotes{Notes: s.bridge.LoadNotes().Notes})
		case kvstore.KeyFilterTargetText:
			s.filter.Dispatch(textfiltr.UpdateTargetText{Text: s.bridge.LoadTextFiltr().TargetText})
		case kvstore.KeyFilterNumbers:
			s.filter.Dispatch(textfiltr.UpdateFilterNumbers{Enabled: s.bridge.LoadTextFiltr().FilterNumbers})
		case kvstore.KeyFilterLetters:
			s.filter.Dispatch(textfiltr.UpdateFilterLetters{Enabled: s.bridge.LoadTextFiltr().FilterLetters})
		case kvstore.KeyFilterSpecial:
			s.filter.Dispatch(textfiltr.UpdateFilterSpecialCharacters{Enabled: s.bridge.LoadTextFiltr().FilterSpecialCharacters})
		case kvstore.KeyFilterSpaces:
			s.filter.Dispatch(textfiltr.UpdateFilterSpaces{Enabled: s.bridge.LoadTextFiltr().FilterSpaces})
		case kvstore.KeyFilterPreviewVisible:
			s.filter.Dispatch(textfiltr.UpdatePreviewVisible{Enabled: s.bridge.LoadTextFiltr().PreviewVisible})
		case kvstore.KeyTheme:
			s.settings.Dispatch(settings.UpdateTheme{Theme: s.bridge.LoadSettings().Theme})
		case kvstore.KeyAddonsEnabled:
			s.settings.Dispatch(settings.UpdateAddonsEnabled{Enabled: s.bridge.LoadSettings().AddonsEnabled})
		case kvstore.KeyAutoCopyOnTemplateChange:
			s.settings.Dispatch(settings.UpdateAutoCopyOnTemplateChange{Enabled: s.bridge.LoadSettings().AutoCopyOnTemplateChange})
		case kvstore.KeyAutoCopyOnOutputChange:
			s.settings.Dispatch(settings.UpdateAutoCopyOnOutputChange{Enabled: s.bridge.LoadSettings().AutoCopyOnOutputChange})
		case kvstore.KeyLinkedSectionsEnabled:
			s.settings.Dispatch(settings.UpdateLinkedSectionsEnabled{Enabled: s.bridge.LoadSettings().LinkedSectionsEnabled})
		default:
			s.logger.Debug("reload: unknown key ignored", slog.String("key", key))
		}
	}
}
