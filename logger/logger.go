// Package logger configures structured logging for catalog tooling and
// services. It wraps slog with JSON/text handler selection and keeps track
// of the subsystem name for log attribution.
package logger

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
)

// subsystem names the part of the system generating logs. Using atomic.Value
// to ensure thread-safe reads and writes.
var subsystem atomic.Value //nolint:gochecknoglobals

// configMutex protects concurrent calls to ConfigureLoggingWithOptions,
// which modify global state (slog.SetDefault and log.Default).
var configMutex sync.Mutex //nolint:gochecknoglobals

// Options is used to configure logging.
type Options struct {
	Subsystem string
	JSON      bool
	MinLevel  slog.Level
	Output    io.Writer
}

// Option is a functional option for configuring logging.
type Option func(*Options)

// WithSubsystem sets the subsystem name attached to configuration.
func WithSubsystem(name string) Option {
	return func(o *Options) {
		o.Subsystem = name
	}
}

// WithJSON selects JSON output instead of text.
func WithJSON() Option {
	return func(o *Options) {
		o.JSON = true
	}
}

// WithMinLevel sets the minimum level that will be logged.
func WithMinLevel(level slog.Level) Option {
	return func(o *Options) {
		o.MinLevel = level
	}
}

// WithOutput directs log output to the given writer.
func WithOutput(w io.Writer) Option {
	return func(o *Options) {
		o.Output = w
	}
}

// ConfigureLogging configures logging with functional options and returns
// the default logger.
func ConfigureLogging(opts ...Option) *slog.Logger {
	options := Options{}
	for _, opt := range opts {
		opt(&options)
	}

	return ConfigureLoggingWithOptions(options)
}

// ConfigureLoggingWithOptions configures logging for the application and
// returns the default logger. Thread-safe, but it modifies global state, so
// concurrent calls are serialized.
func ConfigureLoggingWithOptions(opts Options) *slog.Logger {
	configMutex.Lock()
	defer configMutex.Unlock()

	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	var handler slog.Handler

	if opts.JSON {
		handler = slog.NewJSONHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	} else {
		handler = slog.NewTextHandler(opts.Output, &slog.HandlerOptions{
			Level: opts.MinLevel,
		})
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)

	// Point the legacy logger at the same handler; third-party packages may
	// still write through the log package.
	def := log.Default()
	*def = *slog.NewLogLogger(handler, opts.MinLevel)

	subsystem.Store(opts.Subsystem)

	return logger
}

// GetSubsystem returns the configured subsystem name, if any.
func GetSubsystem(_ context.Context) string {
	name, _ := subsystem.Load().(string)

	return name
}
