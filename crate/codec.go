package crate

import (
	"github.com/signadot/usd-format/go-usd/codec"
	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"

	"go.uber.org/zap"
)

type usdc struct{}

// Codec returns the crate codec.
func Codec() codec.Codec { return usdc{} }

func init() {
	if err := codec.Register(Codec()); err != nil {
		panic(err)
	}
}

func (usdc) Format() format.Format { return format.USDC }

func (usdc) Parse(data []byte, opts codec.Options) (*ir.Stage, []string, error) {
	st, warnings, err := Decode(data, opts.Lenient)
	if err != nil {
		return nil, warnings, err
	}
	opts.Log().Debug("parsed usdc",
		zap.Int("bytes", len(data)),
		zap.Int("prims", st.NumPrims()),
		zap.Int("warnings", len(warnings)))
	return st, warnings, nil
}

func (usdc) Serialize(st *ir.Stage, opts codec.Options) ([]byte, error) {
	data, err := Encode(st)
	if err != nil {
		return nil, err
	}
	opts.Log().Debug("wrote usdc", zap.Int("bytes", len(data)))
	return data, nil
}
