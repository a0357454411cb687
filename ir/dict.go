package ir

import (
	"iter"
	"slices"

	"github.com/signadot/usd-format/go-usd/value"
)

// omap is a map which remembers insertion order. keys[i] names vals[i].
type omap[V any] struct {
	keys  []string
	vals  []V
	index map[string]int
}

func (m *omap[V]) len() int { return len(m.keys) }

func (m *omap[V]) get(k string) (V, bool) {
	i, ok := m.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	return m.vals[i], true
}

// set replaces the value of an existing key in place or appends a new one.
// It reports whether k was already present.
func (m *omap[V]) set(k string, v V) bool {
	if i, ok := m.index[k]; ok {
		m.vals[i] = v
		return true
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[k] = len(m.keys)
	m.keys = append(m.keys, k)
	m.vals = append(m.vals, v)
	return false
}

func (m *omap[V]) del(k string) (V, bool) {
	i, ok := m.index[k]
	if !ok {
		var zero V
		return zero, false
	}
	v := m.vals[i]
	m.keys = slices.Delete(m.keys, i, i+1)
	m.vals = slices.Delete(m.vals, i, i+1)
	delete(m.index, k)
	for j := i; j < len(m.keys); j++ {
		m.index[m.keys[j]] = j
	}
	return v, true
}

func (m *omap[V]) all() iter.Seq2[string, V] {
	return func(yield func(string, V) bool) {
		for i, k := range m.keys {
			if !yield(k, m.vals[i]) {
				return
			}
		}
	}
}

func (m *omap[V]) clear() {
	m.keys = nil
	m.vals = nil
	m.index = nil
}

// Dict is an ordered dictionary of metadata values, as found between the
// parentheses following a prim, property or stage header:
//
//	def Mesh "m" (
//	    kind = "component"
//	    active = true
//	)
//
// A nil *Dict is an empty dictionary for reading.
type Dict struct {
	m omap[*value.Buffer]
}

func NewDict() *Dict { return &Dict{} }

func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return d.m.len()
}

func (d *Dict) Get(key string) (*value.Buffer, bool) {
	if d == nil {
		return nil, false
	}
	return d.m.get(key)
}

// Set stores v under key, keeping the position of an existing key.
func (d *Dict) Set(key string, v *value.Buffer) {
	d.m.set(key, v)
}

func (d *Dict) Del(key string) bool {
	if d == nil {
		return false
	}
	_, ok := d.m.del(key)
	return ok
}

func (d *Dict) Keys() []string {
	if d == nil {
		return nil
	}
	return slices.Clone(d.m.keys)
}

func (d *Dict) All() iter.Seq2[string, *value.Buffer] {
	if d == nil {
		return func(func(string, *value.Buffer) bool) {}
	}
	return d.m.all()
}

// Clone returns a deep copy of d. The clone of nil is nil.
func (d *Dict) Clone() *Dict {
	if d == nil {
		return nil
	}
	res := NewDict()
	for k, v := range d.m.all() {
		res.Set(k, v.Clone())
	}
	return res
}

func (d *Dict) free() {
	if d == nil {
		return
	}
	for _, v := range d.m.vals {
		v.Free()
	}
	d.m.clear()
}
