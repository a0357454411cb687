package crate

import (
	"fmt"

	"github.com/signadot/usd-format/go-usd/ir"
)

var (
	ErrParse   = ir.ErrParse
	ErrMagic   = fmt.Errorf("%w: not a crate file", ErrParse)
	ErrVersion = fmt.Errorf("%w: unsupported crate version", ErrParse)
	ErrTOC     = fmt.Errorf("%w: bad table of contents", ErrParse)
	ErrSection = fmt.Errorf("%w: bad section", ErrParse)
)
