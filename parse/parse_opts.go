package parse

import (
	"fmt"

	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/token"
)

type parseOpts struct {
	lenient   bool
	comments  bool
	warnings  *[]string
	positions map[*ir.Prim]*token.Pos
}

type ParseOption func(*parseOpts)

// Lenient makes the parser recover from content it cannot represent:
// unknown prim types become custom prims, and unknown attribute types,
// variant sets and unsupported metadata are skipped. Each
// recovery is reported as a warning.
func Lenient(v bool) ParseOption {
	return func(o *parseOpts) { o.lenient = v }
}

// ParseComments asks the tokenizer to keep comments. The parser skips
// them, so this only matters for debugging output.
func ParseComments(v bool) ParseOption {
	return func(o *parseOpts) { o.comments = v }
}

// ParseWarnings appends non-fatal diagnostics to *w.
func ParseWarnings(w *[]string) ParseOption {
	return func(o *parseOpts) { o.warnings = w }
}

// ParsePositions records the position of the specifier of every parsed
// prim in m.
func ParsePositions(m map[*ir.Prim]*token.Pos) ParseOption {
	return func(o *parseOpts) { o.positions = m }
}

func (o *parseOpts) TokenizeOpts() []token.TokenOpt {
	return []token.TokenOpt{token.TokenizeComments(o.comments)}
}

func (o *parseOpts) warnf(pos *token.Pos, format string, args ...any) {
	if o.warnings == nil {
		return
	}
	msg := fmt.Sprintf(format, args...)
	if pos != nil {
		msg = fmt.Sprintf("line %d col %d: %s", pos.Line(), pos.Col(), msg)
	}
	*o.warnings = append(*o.warnings, msg)
}
