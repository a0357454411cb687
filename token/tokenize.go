package token

import (
	"bytes"
	"unicode/utf8"
)

type tokenOpts struct {
	comments bool
}

type TokenOpt func(*tokenOpts)

// TokenizeComments keeps '#' comments, including the leading directive
// line, as TComment tokens.
func TokenizeComments(v bool) TokenOpt {
	return func(o *tokenOpts) { o.comments = v }
}

// Tokenize appends the tokens of src to dst. Brackets, parentheses and
// braces must balance.
func Tokenize(dst []Token, src []byte, opts ...TokenOpt) ([]Token, error) {
	opt := &tokenOpts{}
	for _, o := range opts {
		o(opt)
	}
	posDoc := NewPosDoc(src)
	var stack []int
	n := len(src)
	i := 0
	for i < n {
		c := src[i]
		switch c {
		case ' ', '\t', '\r', '\n':
			i++
			continue
		case '#':
			j := bytes.IndexByte(src[i:], '\n')
			if j < 0 {
				j = n - i
			}
			if opt.comments {
				dst = append(dst, Token{Type: TComment, Pos: posDoc.Pos(i), Bytes: src[i : i+j]})
			}
			i += j
			continue
		}
		start := i
		var tt TokenType
		var sz int
		var err error
		switch c {
		case '(':
			tt, sz = TLParen, 1
		case ')':
			tt, sz = TRParen, 1
		case '[':
			tt, sz = TLSquare, 1
		case ']':
			tt, sz = TRSquare, 1
		case '{':
			tt, sz = TLCurl, 1
		case '}':
			tt, sz = TRCurl, 1
		case ',':
			tt, sz = TComma, 1
		case '=':
			tt, sz = TEquals, 1
		case ';':
			tt, sz = TSemi, 1
		case ':':
			tt, sz = TColon, 1
		case '"', '\'':
			tt = TString
			sz, err = quotedLen(src[i:], posDoc, i)
		case '<':
			tt = TPath
			sz, err = delimitedLen(src[i:], '>', posDoc, i)
		case '@':
			tt = TAsset
			sz, err = assetLen(src[i:], posDoc, i)
		default:
			switch {
			case isDigit(c) || c == '-' || c == '+' || (c == '.' && i+1 < n && isDigit(src[i+1])):
				tt, sz, err = number(src[i:], posDoc, i)
			case isIdentStart(c):
				tt = TIdent
				sz = identLen(src[i:])
			case c >= utf8.RuneSelf:
				r, _ := utf8.DecodeRune(src[i:])
				if r == utf8.RuneError {
					return nil, NewTokenizeErr(ErrBadUTF8, posDoc.Pos(i))
				}
				return nil, NewTokenizeErr(ErrUnexpected, posDoc.Pos(i))
			default:
				return nil, NewTokenizeErr(ErrUnexpected, posDoc.Pos(i))
			}
		}
		if err != nil {
			return nil, err
		}
		dst = append(dst, Token{Type: tt, Pos: posDoc.Pos(start), Bytes: src[start : start+sz]})
		i += sz

		switch tt {
		case TLParen, TLSquare, TLCurl:
			stack = append(stack, len(dst)-1)
		case TRParen, TRSquare, TRCurl:
			cl := &dst[len(dst)-1]
			if len(stack) == 0 {
				return nil, &ErrImbalancedStructure{Close: cl}
			}
			op := &dst[stack[len(stack)-1]]
			if closer(op.Type) != tt {
				return nil, &ErrImbalancedStructure{Open: op, Close: cl}
			}
			stack = stack[:len(stack)-1]
		}
	}
	if len(stack) != 0 {
		return nil, &ErrImbalancedStructure{Open: &dst[stack[len(stack)-1]]}
	}
	return dst, nil
}

func closer(t TokenType) TokenType {
	switch t {
	case TLParen:
		return TRParen
	case TLSquare:
		return TRSquare
	default:
		return TRCurl
	}
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// identLen scans an identifier. Namespaced names such as
// "inputs:diffuseColor" and suffixed names such as "size.connect" are
// single identifiers.
func identLen(d []byte) int {
	i := 1
	for i < len(d) {
		c := d[i]
		switch {
		case isIdentStart(c) || isDigit(c):
		case (c == ':' || c == '.') && i+1 < len(d) && isIdentStart(d[i+1]):
		default:
			return i
		}
		i++
	}
	return i
}

// number scans an integer or float literal, or one of the signed special
// values -inf and +inf.
func number(d []byte, posDoc *PosDoc, off int) (TokenType, int, error) {
	i := 0
	if d[0] == '-' || d[0] == '+' {
		i++
	}
	if bytes.HasPrefix(d[i:], []byte("inf")) && identLen(d[i:]) == 3 {
		return TFloat, i + 3, nil
	}
	tt := TInteger
	digits := 0
	for i < len(d) && isDigit(d[i]) {
		i++
		digits++
	}
	if i < len(d) && d[i] == '.' {
		tt = TFloat
		i++
		for i < len(d) && isDigit(d[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, 0, NewTokenizeErr(ErrNumber, posDoc.Pos(off))
	}
	if i < len(d) && (d[i] == 'e' || d[i] == 'E') {
		tt = TFloat
		i++
		if i < len(d) && (d[i] == '-' || d[i] == '+') {
			i++
		}
		exp := 0
		for i < len(d) && isDigit(d[i]) {
			i++
			exp++
		}
		if exp == 0 {
			return 0, 0, NewTokenizeErr(ErrNumber, posDoc.Pos(off+i))
		}
	}
	if i < len(d) && (isIdentStart(d[i]) || d[i] == '.') {
		return 0, 0, NewTokenizeErr(ErrNumber, posDoc.Pos(off+i))
	}
	return tt, i, nil
}

func delimitedLen(d []byte, end byte, posDoc *PosDoc, off int) (int, error) {
	for i := 1; i < len(d); i++ {
		switch d[i] {
		case end:
			return i + 1, nil
		case '\n':
			return 0, NewTokenizeErr(ErrUnterminated, posDoc.Pos(off))
		}
	}
	return 0, NewTokenizeErr(ErrUnterminated, posDoc.Pos(off))
}

func assetLen(d []byte, posDoc *PosDoc, off int) (int, error) {
	if bytes.HasPrefix(d, []byte("@@@")) {
		j := bytes.Index(d[3:], []byte("@@@"))
		if j < 0 {
			return 0, NewTokenizeErr(ErrUnterminated, posDoc.Pos(off))
		}
		return j + 6, nil
	}
	return delimitedLen(d, '@', posDoc, off)
}
