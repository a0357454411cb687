package ir

import (
	"errors"

	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/value"
)

var (
	ErrPropertyNotFound  = errors.New("property not found")
	ErrDuplicateProperty = errors.New("duplicate property")
	ErrUnknownPrimType   = errors.New("unknown prim type")
	ErrAlreadyOwned      = errors.New("prim already owned")
	ErrDuplicatePrim     = errors.New("duplicate prim name")
	ErrPrimNotFound      = errors.New("prim not found")
	ErrModeMismatch      = errors.New("mode mismatch")
	ErrInvalidTime       = errors.New("invalid time code")

	ErrParse       = errors.New("parse error")
	ErrBadFormat   = format.ErrBadFormat
	ErrInvalidPath = spath.ErrInvalidPath

	ErrTypeMismatch    = value.ErrTypeMismatch
	ErrIndexOutOfRange = value.ErrIndexOutOfRange
	ErrFreed           = value.ErrFreed
)
