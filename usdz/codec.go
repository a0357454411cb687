package usdz

import (
	"bytes"
	"fmt"

	"github.com/signadot/usd-format/go-usd/codec"
	"github.com/signadot/usd-format/go-usd/debug"
	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"

	// The root layer of a package is usually binary.
	_ "github.com/signadot/usd-format/go-usd/crate"

	"go.uber.org/zap"
)

type usdz struct {
	layer format.Format
}

// Codec returns the package codec. Serialize writes the root layer in
// the layer format, USDC or USDA.
func Codec(layer format.Format) codec.Codec { return usdz{layer: layer} }

func init() {
	if err := codec.Register(Codec(format.USDC)); err != nil {
		panic(err)
	}
}

func (usdz) Format() format.Format { return format.USDZ }

// Parse decodes the root layer of a package. Assets and extra layers are
// reported as warnings.
func (usdz) Parse(data []byte, opts codec.Options) (*ir.Stage, []string, error) {
	a, warnings, err := Read(data)
	if err != nil {
		return nil, warnings, err
	}
	root, err := a.RootLayer()
	if err != nil {
		return nil, warnings, err
	}
	for i, e := range a.Entries {
		if i != a.Root && e.Format() == format.Unknown {
			warnings = append(warnings, fmt.Sprintf("%s: asset not loaded", e.Name))
		}
	}
	if debug.Usdz() {
		debug.Logf("usdz: %d entries, root layer %s at %d", len(a.Entries), root.Name, root.Offset)
	}
	c, err := codec.Get(root.Format())
	if err != nil {
		return nil, warnings, err
	}
	st, lw, err := c.Parse(root.Data, opts)
	for _, w := range lw {
		warnings = append(warnings, root.Name+": "+w)
	}
	if err != nil {
		return nil, warnings, fmt.Errorf("%s: %w", root.Name, err)
	}
	opts.Log().Debug("parsed usdz",
		zap.String("root", root.Name),
		zap.Int("entries", len(a.Entries)),
		zap.Int("warnings", len(warnings)))
	return st, warnings, nil
}

func (z usdz) Serialize(st *ir.Stage, opts codec.Options) ([]byte, error) {
	if z.layer != format.USDA && z.layer != format.USDC {
		return nil, fmt.Errorf("%w: %s root layer", codec.ErrNoCodec, z.layer)
	}
	c, err := codec.Get(z.layer)
	if err != nil {
		return nil, err
	}
	layer, err := c.Serialize(st, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	name := "root" + z.layer.Suffix()
	if err := Write(&buf, []Entry{{Name: name, Data: layer}}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
