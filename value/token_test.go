package value

import (
	"errors"
	"math"
	"testing"
)

func TestTokenInterning(t *testing.T) {
	a := NewToken("xformOp:translate")
	b := NewToken("xformOp:" + "translate")
	if a != b {
		t.Errorf("equal text gives unequal tokens")
	}
	if a == NewToken("xformOp:rotateXYZ") {
		t.Errorf("different text gives equal tokens")
	}
	if a.Size() != len("xformOp:translate") || a.Str() != "xformOp:translate" {
		t.Errorf("got %q size %d", a.Str(), a.Size())
	}
	if a.Dup() != a {
		t.Errorf("Dup not equal")
	}
	var zero Token
	if zero != NewToken("") || !zero.IsEmpty() || zero.Str() != "" {
		t.Errorf("empty token mismatch")
	}
}

func TestString(t *testing.T) {
	s := NewString("abc")
	if s.Size() != 3 {
		t.Errorf("size %d", s.Size())
	}
	s.Replace("hello")
	if s.Str() != "hello" {
		t.Errorf("got %q", s.Str())
	}
	b := NewFromOwnedString(s)
	s.Replace("changed")
	if got, _ := b.Str(); got != "hello" {
		t.Errorf("buffer shares string storage: %q", got)
	}
	s.Free()
	s.Free()
	if !s.IsFreed() || s.Size() != 0 {
		t.Errorf("free")
	}
	if NewEmptyString().Size() != 0 {
		t.Errorf("empty string")
	}
}

func TestVectors(t *testing.T) {
	v := NewTokenVector(NewToken("a"))
	if err := v.Resize(3); err != nil {
		t.Fatal(err)
	}
	if v.Len() != 3 {
		t.Fatalf("len %d", v.Len())
	}
	if err := v.Replace(2, NewToken("c")); err != nil {
		t.Fatal(err)
	}
	if tok, _ := v.At(2); tok.Str() != "c" {
		t.Errorf("At(2) = %q", tok)
	}
	if _, err := v.At(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("At(3): %v", err)
	}
	if err := v.Replace(-1, Token{}); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Replace(-1): %v", err)
	}
	v.Clear()
	if v.Len() != 0 {
		t.Errorf("clear")
	}

	sv := NewStringVector("x", "y")
	if err := sv.Resize(1); err != nil {
		t.Fatal(err)
	}
	if got := sv.Strings(); len(got) != 1 || got[0] != "x" {
		t.Errorf("got %v", got)
	}
	if err := sv.Resize(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("negative resize: %v", err)
	}
}

func TestHalf(t *testing.T) {
	tests := []struct {
		f float32
		h Half
	}{
		{0, 0x0000},
		{1, 0x3c00},
		{-2, 0xc000},
		{0.5, 0x3800},
		{65504, 0x7bff},
		{float32(math.Ldexp(1, -14)), 0x0400},
		{float32(math.Ldexp(1, -24)), 0x0001},
		{1e10, 0x7c00},
		{float32(math.Inf(-1)), 0xfc00},
	}
	for _, test := range []struct {
		f float32
		h Half
	}{
		{1 + float32(math.Ldexp(1, -11)), 0x3c00},
		{1 + 3*float32(math.Ldexp(1, -11)), 0x3c02},
	} {
		if got := HalfFromFloat32(test.f); got != test.h {
			t.Errorf("rounding %g = %#04x, want %#04x", test.f, uint16(got), uint16(test.h))
		}
	}
	for _, test := range tests {
		if got := HalfFromFloat32(test.f); got != test.h {
			t.Errorf("HalfFromFloat32(%g) = %#04x, want %#04x", test.f, uint16(got), uint16(test.h))
		}
		if got := test.h.Float32(); got != test.f && test.f != 1e10 {
			t.Errorf("%#04x.Float32() = %g, want %g", uint16(test.h), got, test.f)
		}
	}
	nan := HalfFromFloat32(float32(math.NaN()))
	if !math.IsNaN(float64(nan.Float32())) {
		t.Errorf("NaN lost: %#04x", uint16(nan))
	}
}
