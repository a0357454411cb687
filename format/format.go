package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format int

const (
	Unknown Format = iota
	Auto
	USDA
	USDC
	USDZ
)

var ErrBadFormat = errors.New("bad format")

func ParseFormat(v string) (Format, error) {
	f, ok := map[string]Format{
		"auto": Auto,
		"usda": USDA,
		"a":    USDA,
		"usdc": USDC,
		"c":    USDC,
		"usdz": USDZ,
		"z":    USDZ,
	}[strings.ToLower(v)]
	if ok {
		return f, nil
	}
	return Unknown, fmt.Errorf("%w: %q", ErrBadFormat, v)
}

func (f Format) String() string {
	d, err := f.MarshalText()
	if err != nil {
		return err.Error()
	}
	return string(d)
}

func (f Format) MarshalText() ([]byte, error) {
	switch f {
	case Unknown:
		return []byte("unknown"), nil
	case Auto:
		return []byte("auto"), nil
	case USDA:
		return []byte("usda"), nil
	case USDC:
		return []byte("usdc"), nil
	case USDZ:
		return []byte("usdz"), nil
	default:
		return nil, fmt.Errorf("<err: %d is not a format>", f)
	}
}

func (f *Format) UnmarshalText(d []byte) error {
	pf, err := ParseFormat(string(d))
	if err != nil {
		return err
	}
	*f = pf
	return nil
}

func (f Format) IsUSDA() bool { return f == USDA }
func (f Format) IsUSDC() bool { return f == USDC }
func (f Format) IsUSDZ() bool { return f == USDZ }

// IsConcrete reports whether f names an encoding, as opposed to Unknown
// or Auto.
func (f Format) IsConcrete() bool { return f == USDA || f == USDC || f == USDZ }

// Suffix returns the file extension for this format (including the dot).
func (f Format) Suffix() string {
	switch f {
	case USDA:
		return ".usda"
	case USDC:
		return ".usdc"
	case USDZ:
		return ".usdz"
	default:
		return ""
	}
}

// FromSuffix returns the format of a file name by its extension. The
// generic ".usd" extension, which may hold either usda or usdc content,
// gives Auto.
func FromSuffix(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".usda":
		return USDA
	case ".usdc":
		return USDC
	case ".usdz":
		return USDZ
	case ".usd":
		return Auto
	default:
		return Unknown
	}
}

// AllFormats returns all concrete formats in preference order.
func AllFormats() []Format {
	return []Format{USDA, USDC, USDZ}
}
