package codec

import (
	"github.com/signadot/usd-format/go-usd/encode"
	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/parse"

	"go.uber.org/zap"
)

type usda struct{}

// USDA returns the text codec.
func USDA() Codec { return usda{} }

func (usda) Format() format.Format { return format.USDA }

func (usda) Parse(data []byte, opts Options) (*ir.Stage, []string, error) {
	var warnings []string
	st, err := parse.Parse(data, parse.Lenient(opts.Lenient), parse.ParseWarnings(&warnings))
	if err != nil {
		return nil, warnings, err
	}
	opts.Log().Debug("parsed usda",
		zap.Int("bytes", len(data)),
		zap.Int("prims", st.NumPrims()),
		zap.Int("warnings", len(warnings)))
	return st, warnings, nil
}

func (usda) Serialize(st *ir.Stage, opts Options) ([]byte, error) {
	var eOpts []encode.EncodeOption
	if opts.Indent > 0 {
		eOpts = append(eOpts, encode.Indent(opts.Indent))
	}
	s, err := encode.String(st, eOpts...)
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
