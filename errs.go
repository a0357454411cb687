package usd

import (
	"errors"

	"github.com/signadot/usd-format/go-usd/ir"
)

var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrTooLarge          = errors.New("file too large")
	// ErrParse is the parse failure sentinel shared by every codec.
	ErrParse = ir.ErrParse
)
