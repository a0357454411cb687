package usdz

import (
	"fmt"

	"github.com/signadot/usd-format/go-usd/ir"
)

var (
	ErrParse      = ir.ErrParse
	ErrArchive    = fmt.Errorf("%w: bad usdz archive", ErrParse)
	ErrCompressed = fmt.Errorf("%w: compressed usdz entry", ErrParse)
	ErrNoLayer    = fmt.Errorf("%w: no usd layer in package", ErrParse)
)
