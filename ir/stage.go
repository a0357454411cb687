package ir

import (
	"fmt"
	"iter"
	"slices"

	"github.com/signadot/usd-format/go-usd/ir/spath"
)

// Metadata is the document level metadata of a stage. Unset fields are
// nil.
type Metadata struct {
	Doc                *string
	UpAxis             *Axis
	MetersPerUnit      *float64
	FramesPerSecond    *float64
	TimeCodesPerSecond *float64
	StartTimeCode      *float64
	EndTimeCode        *float64
	DefaultPrim        *string

	// Custom holds other metadata entries in document order.
	Custom *Dict
}

// Clone returns a deep copy of m.
func (m Metadata) Clone() Metadata {
	res := Metadata{
		Doc:                clonePtr(m.Doc),
		UpAxis:             clonePtr(m.UpAxis),
		MetersPerUnit:      clonePtr(m.MetersPerUnit),
		FramesPerSecond:    clonePtr(m.FramesPerSecond),
		TimeCodesPerSecond: clonePtr(m.TimeCodesPerSecond),
		StartTimeCode:      clonePtr(m.StartTimeCode),
		EndTimeCode:        clonePtr(m.EndTimeCode),
		DefaultPrim:        clonePtr(m.DefaultPrim),
		Custom:             m.Custom.Clone(),
	}
	return res
}

// IsEmpty reports whether no metadata is set.
func (m Metadata) IsEmpty() bool {
	return m.Doc == nil && m.UpAxis == nil && m.MetersPerUnit == nil &&
		m.FramesPerSecond == nil && m.TimeCodesPerSecond == nil &&
		m.StartTimeCode == nil && m.EndTimeCode == nil &&
		m.DefaultPrim == nil && m.Custom.Len() == 0
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Ptr returns a pointer to v, for filling in Metadata.
func Ptr[T any](v T) *T { return &v }

// Stage is a scene document: metadata and an ordered list of root prims.
// A Stage owns its whole prim tree.
//
// A Stage is not safe for concurrent use. Once no more mutations occur,
// any number of goroutines may read and traverse it concurrently.
type Stage struct {
	meta  Metadata
	roots []*Prim
	freed bool
}

// NewStage returns an empty stage with all metadata unset.
func NewStage() *Stage {
	return &Stage{}
}

// Metadata returns a copy of the stage metadata. Changes to the copy do
// not affect s until passed to SetMetadata.
func (s *Stage) Metadata() Metadata { return s.meta.Clone() }

// SetMetadata replaces the stage metadata with a copy of m.
func (s *Stage) SetMetadata(m Metadata) { s.meta = m.Clone() }

func (s *Stage) NumRootPrims() int { return len(s.roots) }

func (s *Stage) RootPrim(i int) (*Prim, error) {
	if i < 0 || i >= len(s.roots) {
		return nil, fmt.Errorf("%w: root prim %d of %d", ErrIndexOutOfRange, i, len(s.roots))
	}
	return s.roots[i], nil
}

// RootPrims iterates over the root prims in order.
func (s *Stage) RootPrims() iter.Seq[*Prim] { return slices.Values(s.roots) }

// AppendRootPrim transfers ownership of p to s.
func (s *Stage) AppendRootPrim(p *Prim) error {
	if p == nil {
		panic("nil prim")
	}
	if s.freed || p.freed {
		return ErrFreed
	}
	if p.isOwned() {
		return fmt.Errorf("%w: %s", ErrAlreadyOwned, p.Path())
	}
	for _, r := range s.roots {
		if r.name == p.name {
			return fmt.Errorf("%w: root prim %q", ErrDuplicatePrim, p.name)
		}
	}
	p.stage = s
	s.roots = append(s.roots, p)
	return nil
}

// DetachRootPrim removes the root prim at index i and returns it unowned.
func (s *Stage) DetachRootPrim(i int) (*Prim, error) {
	if i < 0 || i >= len(s.roots) {
		return nil, fmt.Errorf("%w: root prim %d of %d", ErrIndexOutOfRange, i, len(s.roots))
	}
	p := s.roots[i]
	s.roots = slices.Delete(s.roots, i, i+1)
	p.stage = nil
	return p, nil
}

// DelRootPrim removes the root prim at index i and frees its subtree.
func (s *Stage) DelRootPrim(i int) error {
	p, err := s.DetachRootPrim(i)
	if err != nil {
		return err
	}
	p.free()
	return nil
}

// PrimAtPath returns the prim addressed by the prim path p.
func (s *Stage) PrimAtPath(p spath.Path) (*Prim, error) {
	if !p.IsPrimPath() {
		return nil, fmt.Errorf("%w: %s is not a prim path", ErrInvalidPath, p)
	}
	names := p.PrimNames()
	var cur *Prim
	for _, r := range s.roots {
		if r.name == names[0] {
			cur = r
			break
		}
	}
	for _, n := range names[1:] {
		if cur == nil {
			break
		}
		cur = cur.ChildByName(n)
	}
	if cur == nil {
		return nil, fmt.Errorf("%w: %s", ErrPrimNotFound, p)
	}
	return cur, nil
}

// PropertyAtPath returns the property addressed by the property path p.
func (s *Stage) PropertyAtPath(p spath.Path) (*Property, error) {
	if !p.IsPropertyPath() {
		return nil, fmt.Errorf("%w: %s is not a property path", ErrInvalidPath, p)
	}
	prim, err := s.PrimAtPath(p.PrimPart())
	if err != nil {
		return nil, err
	}
	return prim.Property(p.PropPart())
}

// Traverse walks every prim of s depth first in pre-order, root prims in
// order, calling f with each prim and its path. If f returns false the
// walk stops and Traverse returns nil. If f returns an error the walk
// stops and the error is returned annotated with the prim path.
func (s *Stage) Traverse(f func(*Prim, spath.Path) (bool, error)) error {
	for _, r := range s.roots {
		path, err := spath.Root().AppendChild(r.name)
		if err != nil {
			return err
		}
		cont, err := r.visit(path, f)
		if err != nil || !cont {
			return err
		}
	}
	return nil
}

// All returns an iterator over every prim of s with its path, in the
// order of Traverse. Breaking out of the loop ends the walk.
//
//	for path, prim := range st.All() {
//		...
//	}
func (s *Stage) All() iter.Seq2[spath.Path, *Prim] {
	return func(yield func(spath.Path, *Prim) bool) {
		_ = s.Traverse(func(p *Prim, path spath.Path) (bool, error) {
			return yield(path, p), nil
		})
	}
}

// NumPrims counts every prim in s.
func (s *Stage) NumPrims() int {
	n := 0
	for range s.All() {
		n++
	}
	return n
}

// Free releases every prim of s. Calling Free more than once is harmless.
func (s *Stage) Free() {
	for _, r := range s.roots {
		r.stage = nil
		r.free()
	}
	s.roots = nil
	s.meta.Custom.free()
	s.meta = Metadata{}
	s.freed = true
}

func (s *Stage) IsFreed() bool { return s.freed }
