package parse

import (
	"fmt"

	"github.com/signadot/usd-format/go-usd/ir"
)

var (
	// ErrParse is the same sentinel as ir.ErrParse.
	ErrParse       = ir.ErrParse
	ErrHeader      = fmt.Errorf("%w: missing or bad #usda header", ErrParse)
	ErrVersion     = fmt.Errorf("%w: unsupported usda version", ErrParse)
	ErrUnsupported = fmt.Errorf("%w: unsupported construct", ErrParse)
)
