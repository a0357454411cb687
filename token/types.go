package token

import (
	"fmt"
)

type TokenType int

const (
	TIdent TokenType = iota
	TInteger
	TFloat
	TString
	TPath
	TAsset
	TComment
	TLParen
	TRParen
	TLSquare
	TRSquare
	TLCurl
	TRCurl
	TComma
	TEquals
	TSemi
	TColon
)

func (t TokenType) String() string {
	return map[TokenType]string{
		TIdent:   "TIdent",
		TInteger: "TInteger",
		TFloat:   "TFloat",
		TString:  "TString",
		TPath:    "TPath",
		TAsset:   "TAsset",
		TComment: "TComment",
		TLParen:  "TLParen",
		TRParen:  "TRParen",
		TLSquare: "TLSquare",
		TRSquare: "TRSquare",
		TLCurl:   "TLCurl",
		TRCurl:   "TRCurl",
		TComma:   "TComma",
		TEquals:  "TEquals",
		TSemi:    "TSemi",
		TColon:   "TColon",
	}[t]
}

func (t TokenType) IsComment() bool { return t == TComment }

// IsNumber reports whether t is an integer or float literal.
func (t TokenType) IsNumber() bool { return t == TInteger || t == TFloat }

type Token struct {
	Type  TokenType
	Pos   *Pos
	Bytes []byte
}

func (t *Token) Info() string {
	return fmt.Sprintf("%s %s", t.Type, t.Pos.String())
}

// String returns the text a token denotes: unquoted string content, the
// path inside <>, the asset path inside @@, and the bytes of anything
// else.
func (t *Token) String() string {
	switch t.Type {
	case TString:
		return QuotedToString(t.Bytes)
	case TPath:
		return string(t.Bytes[1 : len(t.Bytes)-1])
	case TAsset:
		if len(t.Bytes) >= 6 && string(t.Bytes[:3]) == "@@@" {
			return string(t.Bytes[3 : len(t.Bytes)-3])
		}
		return string(t.Bytes[1 : len(t.Bytes)-1])
	default:
		return string(t.Bytes)
	}
}

// Is reports whether t is the identifier or keyword kw.
func (t *Token) Is(kw string) bool {
	return t.Type == TIdent && string(t.Bytes) == kw
}

type TokenizeErr struct {
	Err error
	Pos Pos
}

func (t *TokenizeErr) Unwrap() error {
	return t.Err
}

func NewTokenizeErr(e error, p *Pos) *TokenizeErr {
	return &TokenizeErr{Err: e, Pos: *p}
}

func (e *TokenizeErr) Error() string {
	return fmt.Sprintf("%s at %s", e.Err.Error(), e.Pos.String())
}

func ExpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("expected %s", what), p)
}

func UnexpectedErr(what string, p *Pos) error {
	return NewTokenizeErr(fmt.Errorf("unexpected %s", what), p)
}
