package usd

import (
	"fmt"
	"os"

	"github.com/signadot/usd-format/go-usd/codec"
	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"

	"go.uber.org/zap"
)

// SaveToFile encodes st to path. The format is taken from WithFormat,
// else from the extension; ".usd" files are written as USDC.
func SaveToFile(st *ir.Stage, path string, opts ...Option) error {
	c := newConfig(opts)
	f := c.format
	if !f.IsConcrete() {
		f = format.FromSuffix(path)
		if f == format.Auto {
			f = format.USDC
		}
	}
	data, err := save(st, f, c)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	c.logger.Debug("wrote file", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// SaveToMemory encodes st in format f.
func SaveToMemory(st *ir.Stage, f format.Format, opts ...Option) ([]byte, error) {
	return save(st, f, newConfig(opts))
}

func save(st *ir.Stage, f format.Format, c *config) ([]byte, error) {
	if !f.IsConcrete() {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	cd, err := codec.Get(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedFormat, err)
	}
	return cd.Serialize(st, c.codecOptions())
}
