package ir

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/signadot/usd-format/go-usd/value"
)

// TimeSample is the value of an attribute at one time code. A nil Value
// blocks the attribute at that time: `10: None`.
type TimeSample struct {
	Time  float64
	Value *value.Buffer
}

func (s TimeSample) IsBlocked() bool { return s.Value == nil }

// SetTimeSample sets the value of a at time t, replacing any sample
// already there. A nil v is a blocked sample. Values are checked against
// the declared type as in SetValue and a takes ownership of v. Time
// samples are independent of the attribute mode.
func (a *Attribute) SetTimeSample(t float64, v *value.Buffer) error {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTime, t)
	}
	if v == nil {
		if err := a.needType("sample"); err != nil {
			return err
		}
	} else {
		cv, err := a.conform(v)
		if err != nil {
			return err
		}
		v = cv
	}
	i, found := a.findSample(t)
	if found {
		if old := a.samples[i].Value; old != nil {
			old.Free()
		}
		a.samples[i].Value = v
		return nil
	}
	a.samples = slices.Insert(a.samples, i, TimeSample{Time: t, Value: v})
	return nil
}

func (a *Attribute) findSample(t float64) (int, bool) {
	return slices.BinarySearchFunc(a.samples, t, func(s TimeSample, t float64) int {
		return cmp.Compare(s.Time, t)
	})
}

func (a *Attribute) NumTimeSamples() int  { return len(a.samples) }
func (a *Attribute) HasTimeSamples() bool { return len(a.samples) > 0 }

// TimeSample returns the i'th sample in time order.
func (a *Attribute) TimeSample(i int) (TimeSample, error) {
	if i < 0 || i >= len(a.samples) {
		return TimeSample{}, fmt.Errorf("%w: time sample %d of %d", ErrIndexOutOfRange, i, len(a.samples))
	}
	return a.samples[i], nil
}

// TimeSamples returns the samples in time order. The buffers are shared
// with a.
func (a *Attribute) TimeSamples() []TimeSample { return slices.Clone(a.samples) }

// SampleAt returns the sample at exactly time t.
func (a *Attribute) SampleAt(t float64) (TimeSample, bool) {
	i, found := a.findSample(t)
	if !found {
		return TimeSample{}, false
	}
	return a.samples[i], true
}

// DelTimeSample removes the sample at time t, reporting whether there was
// one.
func (a *Attribute) DelTimeSample(t float64) bool {
	i, found := a.findSample(t)
	if !found {
		return false
	}
	if v := a.samples[i].Value; v != nil {
		v.Free()
	}
	a.samples = slices.Delete(a.samples, i, i+1)
	return true
}

func (a *Attribute) ClearTimeSamples() {
	for _, s := range a.samples {
		if s.Value != nil {
			s.Value.Free()
		}
	}
	a.samples = nil
}

func cloneSamples(ss []TimeSample) []TimeSample {
	if ss == nil {
		return nil
	}
	res := make([]TimeSample, len(ss))
	for i, s := range ss {
		res[i] = s
		if s.Value != nil {
			res[i].Value = s.Value.Clone()
		}
	}
	return res
}
