package ir

import (
	"errors"
	"math"
	"testing"

	"github.com/signadot/usd-format/go-usd/value"
)

func TestTimeSamples(t *testing.T) {
	a := NewAttribute()
	if err := a.SetTimeSample(0, nil); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("untyped blocked sample: %v", err)
	}
	if err := a.SetTimeSample(10, value.NewFloat(2)); err != nil {
		t.Fatal(err)
	}
	if a.TypeName() != "float" || a.Mode() != ModeUnset {
		t.Errorf("got %s %s", a.TypeName(), a.Mode())
	}
	if err := a.SetTimeSample(0, value.NewFloat(1)); err != nil {
		t.Fatal(err)
	}
	if err := a.SetTimeSample(5, nil); err != nil {
		t.Fatal(err)
	}
	if err := a.SetTimeSample(7, value.NewDouble(1)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("double sample: %v", err)
	}
	if err := a.SetTimeSample(math.NaN(), value.NewFloat(1)); !errors.Is(err, ErrInvalidTime) {
		t.Errorf("nan time: %v", err)
	}
	var times []float64
	for _, s := range a.TimeSamples() {
		times = append(times, s.Time)
	}
	if len(times) != 3 || times[0] != 0 || times[1] != 5 || times[2] != 10 {
		t.Fatalf("times %v", times)
	}
	if s, _ := a.TimeSample(1); !s.IsBlocked() {
		t.Errorf("sample at 5 not blocked")
	}
	if _, err := a.TimeSample(3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("sample 3: %v", err)
	}

	if err := a.SetTimeSample(10, value.NewFloat(3)); err != nil {
		t.Fatal(err)
	}
	s, ok := a.SampleAt(10)
	if f, _ := s.Value.Float(); !ok || f != 3 || a.NumTimeSamples() != 3 {
		t.Errorf("replace at 10: %v %v %d", ok, f, a.NumTimeSamples())
	}

	if err := a.SetValue(value.NewFloat(9)); err != nil {
		t.Fatal(err)
	}
	a.Clear()
	if a.NumTimeSamples() != 3 {
		t.Errorf("clear dropped samples")
	}

	c := a.Clone()
	if !a.DelTimeSample(0) || a.DelTimeSample(0) {
		t.Errorf("delete at 0")
	}
	if c.NumTimeSamples() != 3 {
		t.Errorf("clone shares samples")
	}
	held, _ := a.SampleAt(10)
	a.Free()
	if a.HasTimeSamples() || !held.Value.IsFreed() {
		t.Errorf("free kept samples")
	}
	cs, _ := c.SampleAt(10)
	if cs.Value.IsFreed() {
		t.Errorf("clone sample freed with original")
	}
}

func TestTimeSampleRole(t *testing.T) {
	a, err := NewTypedAttribute("point3f")
	if err != nil {
		t.Fatal(err)
	}
	if err := a.SetTimeSample(1, value.NewFloat3(value.Float3{1, 2, 3})); err != nil {
		t.Fatal(err)
	}
	s, _ := a.SampleAt(1)
	if s.Value.Type() != value.TypePoint3f {
		t.Errorf("got %s", s.Value.TypeName())
	}
}
