package internal

import (
	"context"
	"io"

	"github.com/quicknote/quicknote/internal/opener"
	"github.com/quicknote/quicknote/internal/settings"
	"github.com/quicknote/quicknote/internal/watcher"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	lookupEnv settings.LookupEnv
	opener    opener.Opener
	logOutput io.Writer
	version   string
	runWatch  func(context.Context, *watcher.Watcher) error
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithLookupEnv sets the environment lookup used to find the home directory.
func WithLookupEnv(fn settings.LookupEnv) Option {
	return func(a *application) {
		a.lookupEnv = fn
	}
}

// WithOpener replaces the OS default-application opener.
func WithOpener(op opener.Opener) Option {
	return func(a *application) {
		a.opener = op
	}
}

// WithLogOutput sets where JSON logs are written.
func WithLogOutput(w io.Writer) Option {
	return func(a *application) {
		a.logOutput = w
	}
}

// WithVersion sets the version reported to MCP clients.
func WithVersion(v string) Option {
	return func(a *application) {
		a.version = v
	}
}

// withWatchRunner replaces the watcher loop; tests use it to simulate failures.
func withWatchRunner(fn func(context.Context, *watcher.Watcher) error) Option {
	return func(a *application) {
		a.runWatch = fn
	}
}
