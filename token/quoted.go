package token

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/signadot/usd-format/go-usd/value"
)

// quotedLen scans a single, double or triple quoted string starting at
// d[0]. Only triple quoted strings may span lines.
func quotedLen(d []byte, posDoc *PosDoc, off int) (int, error) {
	qc := d[0]
	triple := []byte{qc, qc, qc}
	if bytes.HasPrefix(d, triple) {
		i := 3
		for i < len(d) {
			switch {
			case d[i] == '\\':
				i += 2
			case bytes.HasPrefix(d[i:], triple):
				return i + 3, nil
			default:
				i++
			}
		}
		return 0, NewTokenizeErr(ErrUnterminated, posDoc.Pos(off))
	}
	i := 1
	for i < len(d) {
		switch d[i] {
		case '\\':
			if i+1 >= len(d) {
				return 0, NewTokenizeErr(ErrUnterminated, posDoc.Pos(off))
			}
			switch d[i+1] {
			case '\\', '"', '\'', 'n', 't', 'r', '0', 'a', 'b', 'f', 'v':
			default:
				return 0, NewTokenizeErr(ErrBadEscape, posDoc.Pos(off+i))
			}
			i += 2
		case qc:
			return i + 1, nil
		case '\n':
			return 0, NewTokenizeErr(ErrUnterminated, posDoc.Pos(off))
		default:
			i++
		}
	}
	return 0, NewTokenizeErr(ErrUnterminated, posDoc.Pos(off))
}

// QuotedToString returns the content of a quoted string token.
func QuotedToString(d []byte) string {
	qc := d[0]
	q := 1
	if len(d) >= 6 && d[1] == qc && d[2] == qc {
		q = 3
	}
	d = d[q : len(d)-q]
	b := &strings.Builder{}
	esc := false
	for len(d) > 0 {
		r, sz := utf8.DecodeRune(d)
		raw := d[:sz]
		d = d[sz:]
		if !esc {
			if r == '\\' {
				esc = true
				continue
			}
			b.Write(raw)
			continue
		}
		esc = false
		switch r {
		case 'x':
			if n, ok := hexByte(d); ok {
				b.WriteByte(n)
				d = d[2:]
				continue
			}
			b.WriteByte('x')
		case 't':
			b.WriteByte('\t')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 'f':
			b.WriteByte('\f')
		case 'b':
			b.WriteByte('\b')
		case 'v':
			b.WriteByte('\v')
		case 'a':
			b.WriteByte('\a')
		case '0':
			b.WriteByte(0)
		default:
			b.Write(raw)
		}
	}
	return b.String()
}

func hexByte(d []byte) (byte, bool) {
	if len(d) < 2 {
		return 0, false
	}
	hi, ok1 := unhex(d[0])
	lo, ok2 := unhex(d[1])
	return hi<<4 | lo, ok1 && ok2
}

func unhex(c byte) (byte, bool) {
	switch {
	case '0' <= c && c <= '9':
		return c - '0', true
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10, true
	case 'A' <= c && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Quote returns v as a USDA string literal. Text containing newlines is
// written triple quoted when that keeps it readable.
func Quote(v string, allowTriple bool) string {
	if allowTriple && strings.Contains(v, "\n") && !strings.Contains(v, `"""`) && !strings.HasSuffix(v, `"`) && !strings.Contains(v, `\`) && utf8.ValidString(v) {
		return `"""` + v + `"""`
	}
	return value.Quote(v)
}

// QuotePath returns the text form <p> of a path.
func QuotePath(p fmt.Stringer) string {
	return "<" + p.String() + ">"
}
