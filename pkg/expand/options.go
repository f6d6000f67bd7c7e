package expand

import (
	"io"

	"github.com/charmbracelet/log"
)

const (
	MinLevels          = 1    // Shallowest expansion
	MaxLevels          = 3    // Deepest expansion
	DefaultConcurrency = 8    // Default concurrent fetches per level
	DefaultMaxNodes    = 2000 // Default cap on graph size
)

// Options configures an [Engine].
type Options struct {
	Concurrency int         // Concurrent fetches per level (default: 8)
	MaxNodes    int         // Stop creating nodes at this graph size (default: 2000)
	Logger      *log.Logger // Progress and soft failures (default: discard)
}

// WithDefaults returns a copy of Options with zero values replaced by defaults.
func (o Options) WithDefaults() Options {
	opts := o
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if opts.MaxNodes <= 0 {
		opts.MaxNodes = DefaultMaxNodes
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return opts
}

// ClampLevels limits a requested depth to [MinLevels, MaxLevels].
func ClampLevels(n int) int {
	return max(MinLevels, min(n, MaxLevels))
}
