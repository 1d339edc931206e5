package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/paniterce/notecraftr/internal"
	"github.com/paniterce/notecraftr/internal/editor"
	"github.com/paniterce/notecraftr/internal/kvstore"
	"github.com/paniterce/notecraftr/internal/mcpserver"
	"github.com/paniterce/notecraftr/internal/notes"
	"github.com/paniterce/notecraftr/internal/persist"
	pkgconfig "github.com/paniterce/notecraftr/pkg/config"
)

func loadConfig(cmd *cli.Command) (*internal.Config, error) {
	cfg := internal.NewDefaultConfig()
	path := cmd.String("config")
	loaded, err := pkgconfig.LoadIfExists(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if !loaded && cmd.IsSet("config") {
		return nil, fmt.Errorf("config file not found: %s", path)
	}
	return cfg, nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := internal.Run(ctx, internal.WithConfig(cfg)); err != nil {
		return fmt.Errorf("app run error: %w", err)
	}
	return nil
}

// runMCP serves the MCP tools over stdio against the same durable store the
// service uses. Mutations persist through the bridge before exit.
func runMCP(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Stdio transport owns stdout; keep logs on stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	provider, err := kvstore.Open(cfg.Store.Driver, cfg.Store.Path)
	if err != nil {
		return fmt.Errorf("init store: %w", err)
	}
	defer provider.Close()

	bridge := persist.NewBridge(provider, nil, logger)
	defer bridge.Close()

	ed := editor.NewStore(bridge.LoadEditor(), func(state editor.State, changed []editor.Slice) {
		bridge.SaveEditor(state, changed)
	})
	no := notes.NewStore(bridge.LoadNotes(), func(state notes.State, changed []notes.Slice) {
		bridge.SaveNotes(state, changed)
	})

	return mcpserver.New(ed, no).ServeStdio()
}

func main() {
	cmd := &cli.Command{
		Name:   "notecraftr",
		Usage:  "Headless core of the Notecraftr note and text-template utility",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: "config/config.yaml",
				Value:       "config/config.yaml",
				Sources:     cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "mcp",
				Usage:  "Serve MCP tools over stdio",
				Action: runMCP,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
