package usd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/signadot/usd-format/go-usd/codec"
	"github.com/signadot/usd-format/go-usd/debug"
	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"

	// Register the binary and packaged codecs.
	_ "github.com/signadot/usd-format/go-usd/crate"
	_ "github.com/signadot/usd-format/go-usd/usdz"

	"go.uber.org/zap"
)

// LoadFromFile reads and decodes the layer at path. The format is taken
// from WithFormat, else from the file extension, else from the content.
// Warnings are joined with newlines.
func LoadFromFile(path string, opts ...Option) (*ir.Stage, string, error) {
	c := newConfig(opts)
	fi, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, "", err
	}
	if fi.IsDir() {
		return nil, "", fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}
	if c.maxFileSize > 0 && fi.Size() > c.maxFileSize {
		return nil, "", fmt.Errorf("%w: %s has %d bytes, limit %d", ErrTooLarge, path, fi.Size(), c.maxFileSize)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	c.logger.Debug("read file", zap.String("path", path), zap.Int("bytes", len(data)))
	st, warnings, err := load(data, path, c)
	if err != nil {
		return nil, warnings, fmt.Errorf("%s: %w", path, err)
	}
	return st, warnings, nil
}

// LoadFromMemory decodes data. The format is taken from WithFormat, else
// from the content.
func LoadFromMemory(data []byte, opts ...Option) (*ir.Stage, string, error) {
	return load(data, "", newConfig(opts))
}

func load(data []byte, hint string, c *config) (*ir.Stage, string, error) {
	f := c.format
	if !f.IsConcrete() {
		f = format.Detect(data, hint)
	}
	if debug.Load() {
		debug.Logf("load: %d bytes as %s (hint %q)", len(data), f, hint)
	}
	if !f.IsConcrete() {
		return nil, "", fmt.Errorf("%w: cannot detect the format", ErrUnsupportedFormat)
	}
	cd, err := codec.Get(f)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	st, ws, err := cd.Parse(data, c.codecOptions())
	warnings := strings.Join(ws, "\n")
	if err != nil {
		if !errors.Is(err, ErrParse) {
			err = fmt.Errorf("%w: %w", ErrParse, err)
		}
		c.logger.Debug("load failed", zap.Stringer("format", f), zap.Error(err))
		return nil, warnings, err
	}
	c.logger.Debug("loaded stage",
		zap.Stringer("format", f),
		zap.Int("rootPrims", st.NumRootPrims()),
		zap.Int("warnings", len(ws)))
	return st, warnings, nil
}
