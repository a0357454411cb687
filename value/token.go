package value

import (
	"fmt"
	"unique"
)

// Token is an interned, immutable string used for identifiers, type names
// and token valued attributes. Tokens compare with ==: two tokens are equal
// exactly when their text is equal. The zero Token is the empty token.
type Token struct {
	h unique.Handle[string]
}

func NewToken(s string) Token {
	if s == "" {
		return Token{}
	}
	return Token{h: unique.Make(s)}
}

func (t Token) IsEmpty() bool { return t == Token{} }

func (t Token) Str() string {
	if t.IsEmpty() {
		return ""
	}
	return t.h.Value()
}

func (t Token) String() string { return t.Str() }

// Size is the byte length of the token text.
func (t Token) Size() int { return len(t.Str()) }

// Dup returns an equal token. Tokens are values, so this is the identity;
// it exists to pair with Free in code that manages token lifetimes.
func (t Token) Dup() Token { return t }

// Free is a no-op. Interned text is reclaimed once no Token refers to it.
func (t Token) Free() {}

func (t Token) MarshalText() ([]byte, error) { return []byte(t.Str()), nil }

func (t *Token) UnmarshalText(d []byte) error {
	*t = NewToken(string(d))
	return nil
}

// String is owned, mutable text. Unlike Token it is not interned.
type String struct {
	s     string
	freed bool
}

func NewString(s string) *String { return &String{s: s} }
func NewEmptyString() *String    { return &String{} }

func (s *String) Str() string { return s.s }
func (s *String) Size() int   { return len(s.s) }

// Replace sets the text of s. Replacing the text of a freed String revives
// it.
func (s *String) Replace(text string) {
	s.s = text
	s.freed = false
}

func (s *String) IsFreed() bool { return s.freed }

func (s *String) Free() {
	s.s = ""
	s.freed = true
}

func (s *String) String() string { return s.s }

// TokenVector is a growable list of tokens.
type TokenVector struct {
	toks []Token
}

func NewTokenVector(toks ...Token) *TokenVector {
	return &TokenVector{toks: append([]Token(nil), toks...)}
}

func (v *TokenVector) Len() int { return len(v.toks) }

// Resize grows v with empty tokens or truncates it to n elements.
func (v *TokenVector) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: resize to %d", ErrIndexOutOfRange, n)
	}
	v.toks = resize(v.toks, n)
	return nil
}

func (v *TokenVector) Clear() { v.toks = v.toks[:0] }

func (v *TokenVector) Append(t Token) { v.toks = append(v.toks, t) }

func (v *TokenVector) At(i int) (Token, error) {
	if i < 0 || i >= len(v.toks) {
		return Token{}, fmt.Errorf("%w: token %d of %d", ErrIndexOutOfRange, i, len(v.toks))
	}
	return v.toks[i], nil
}

func (v *TokenVector) Replace(i int, t Token) error {
	if i < 0 || i >= len(v.toks) {
		return fmt.Errorf("%w: token %d of %d", ErrIndexOutOfRange, i, len(v.toks))
	}
	v.toks[i] = t
	return nil
}

// Tokens returns a copy of the elements of v.
func (v *TokenVector) Tokens() []Token { return append([]Token(nil), v.toks...) }

// StringVector is a growable list of strings.
type StringVector struct {
	strs []string
}

func NewStringVector(strs ...string) *StringVector {
	return &StringVector{strs: append([]string(nil), strs...)}
}

func (v *StringVector) Len() int { return len(v.strs) }

func (v *StringVector) Resize(n int) error {
	if n < 0 {
		return fmt.Errorf("%w: resize to %d", ErrIndexOutOfRange, n)
	}
	v.strs = resize(v.strs, n)
	return nil
}

func (v *StringVector) Clear() { v.strs = v.strs[:0] }

func (v *StringVector) Append(s string) { v.strs = append(v.strs, s) }

func (v *StringVector) At(i int) (string, error) {
	if i < 0 || i >= len(v.strs) {
		return "", fmt.Errorf("%w: string %d of %d", ErrIndexOutOfRange, i, len(v.strs))
	}
	return v.strs[i], nil
}

func (v *StringVector) Replace(i int, s string) error {
	if i < 0 || i >= len(v.strs) {
		return fmt.Errorf("%w: string %d of %d", ErrIndexOutOfRange, i, len(v.strs))
	}
	v.strs[i] = s
	return nil
}

func (v *StringVector) Strings() []string { return append([]string(nil), v.strs...) }

func resize[E any](es []E, n int) []E {
	if n <= len(es) {
		var zero E
		for i := n; i < len(es); i++ {
			es[i] = zero
		}
		return es[:n]
	}
	return append(es, make([]E, n-len(es))...)
}
