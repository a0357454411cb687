package usd

import (
	"github.com/signadot/usd-format/go-usd/codec"
	"github.com/signadot/usd-format/go-usd/format"

	"go.uber.org/zap"
)

// DefaultMaxFileSize bounds the files LoadFromFile reads.
const DefaultMaxFileSize = 1 << 30

type config struct {
	format      format.Format
	lenient     bool
	logger      *zap.Logger
	maxFileSize int64
	indent      int
}

type Option func(*config)

// WithFormat forces the format instead of detecting it.
func WithFormat(f format.Format) Option {
	return func(c *config) { c.format = f }
}

// Lenient skips content the codecs cannot represent, returning warnings
// instead of failing.
func Lenient(v bool) Option {
	return func(c *config) { c.lenient = v }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}

// MaxFileSize sets the largest file LoadFromFile accepts. Zero or less
// removes the limit.
func MaxFileSize(n int64) Option {
	return func(c *config) { c.maxFileSize = n }
}

// Indent sets the indentation width of text output.
func Indent(n int) Option {
	return func(c *config) { c.indent = n }
}

func newConfig(opts []Option) *config {
	c := &config{format: format.Auto, maxFileSize: DefaultMaxFileSize}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	return c
}

func (c *config) codecOptions() codec.Options {
	return codec.Options{Lenient: c.lenient, Indent: c.indent, Logger: c.logger}
}
