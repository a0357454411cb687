package value

import "errors"

var (
	ErrTypeMismatch    = errors.New("type mismatch")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrUnknownType     = errors.New("unknown value type")
	ErrFreed           = errors.New("use of freed value")
)
