package value

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"
)

// String renders b as a USDA literal: 1.5, (1, 2, 3), ((1, 0), (0, 1)),
// [(0, 0, 0), (1, 1, 1)], "text". A freed buffer renders as "<freed>".
func (b *Buffer) String() string {
	if b == nil {
		return "None"
	}
	if b.freed {
		return "<freed>"
	}
	var sb strings.Builder
	b.writeText(&sb)
	return sb.String()
}

func (b *Buffer) writeText(sb *strings.Builder) {
	if b.ndim == 0 {
		b.writeElement(sb, 0)
		return
	}
	sb.WriteByte('[')
	for i := 0; i < b.Len(); i++ {
		if i != 0 {
			sb.WriteString(", ")
		}
		b.writeElement(sb, i)
	}
	sb.WriteByte(']')
}

func (b *Buffer) writeElement(sb *strings.Builder, i int) {
	info := b.vType.info()
	lo := i * info.comps
	if b.vType.isMatrix() {
		n := b.vType.matrixDim()
		sb.WriteByte('(')
		for r := 0; r < n; r++ {
			if r != 0 {
				sb.WriteString(", ")
			}
			sb.WriteByte('(')
			for c := 0; c < n; c++ {
				if c != 0 {
					sb.WriteString(", ")
				}
				b.writeComponent(sb, lo+r*n+c)
			}
			sb.WriteByte(')')
		}
		sb.WriteByte(')')
		return
	}
	if info.comps == 1 {
		b.writeComponent(sb, lo)
		return
	}
	sb.WriteByte('(')
	for c := 0; c < info.comps; c++ {
		if c != 0 {
			sb.WriteString(", ")
		}
		b.writeComponent(sb, lo+c)
	}
	sb.WriteByte(')')
}

func (b *Buffer) writeComponent(sb *strings.Builder, j int) {
	switch d := b.data.(type) {
	case []bool:
		sb.WriteString(strconv.FormatBool(d[j]))
	case []int8:
		sb.WriteString(strconv.FormatInt(int64(d[j]), 10))
	case []uint8:
		sb.WriteString(strconv.FormatUint(uint64(d[j]), 10))
	case []int16:
		sb.WriteString(strconv.FormatInt(int64(d[j]), 10))
	case []uint16:
		sb.WriteString(strconv.FormatUint(uint64(d[j]), 10))
	case []int32:
		sb.WriteString(strconv.FormatInt(int64(d[j]), 10))
	case []uint32:
		sb.WriteString(strconv.FormatUint(uint64(d[j]), 10))
	case []int64:
		sb.WriteString(strconv.FormatInt(d[j], 10))
	case []uint64:
		sb.WriteString(strconv.FormatUint(d[j], 10))
	case []Half:
		sb.WriteString(FormatFloat(float64(d[j].Float32()), 32))
	case []float32:
		sb.WriteString(FormatFloat(float64(d[j]), 32))
	case []float64:
		sb.WriteString(FormatFloat(d[j], 64))
	case []Token:
		sb.WriteString(Quote(d[j].Str()))
	case []string:
		sb.WriteString(Quote(d[j]))
	}
}

// FormatFloat formats f in the shortest form that reads back to the same
// value at the given bit size. Infinities and NaN use the USDA spellings
// inf, -inf and nan.
func FormatFloat(f float64, bitSize int) string {
	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}
	return strconv.FormatFloat(f, 'g', -1, bitSize)
}

// Quote returns s as a double quoted USDA string literal. Bytes that are
// not valid UTF-8 are written as \xNN escapes.
func Quote(s string) string {
	var sb strings.Builder
	sb.Grow(len(s) + 2)
	sb.WriteByte('"')
	for i, r := range s {
		if r == utf8.RuneError {
			if _, sz := utf8.DecodeRuneInString(s[i:]); sz == 1 {
				fmt.Fprintf(&sb, `\x%02x`, s[i])
				continue
			}
		}
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
