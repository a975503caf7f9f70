package remap

import "log/slog"

// LevelTrace is below slog.LevelDebug and carries per-class resolution
// steps.
const LevelTrace = slog.LevelDebug - 4

// Option configures a Resolver or Remapper.
type Option func(*config)

type config struct {
	logger              *slog.Logger
	inheritDeclarations bool
}

func newConfig(opts []Option) config {
	c := config{logger: slog.Default()}
	for _, opt := range opts {
		opt(&c)
	}

	return c
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}

// WithInheritedDeclarations also renames declarations of classes that only
// inherit mappings, so overriding methods follow the renamed method they
// override. By default only classes with an explicit table entry have their
// declarations renamed.
func WithInheritedDeclarations() Option {
	return func(c *config) {
		c.inheritDeclarations = true
	}
}
