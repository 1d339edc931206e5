package internal

import "github.com/atotto/clipboard"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config   *Config
	copyText func(string) error
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithClipboard replaces the system clipboard writer used by the auto-copy
// hooks. Headless environments and tests use this to avoid touching the
// real clipboard.
func WithClipboard(write func(string) error) Option {
	return func(a *application) {
		a.copyText = write
	}
}

func defaultClipboard() func(string) error {
	return clipboard.WriteAll
}
