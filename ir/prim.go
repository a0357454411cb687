package ir

import (
	"fmt"
	"iter"
	"slices"

	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/value"
)

// Prim is a node of the scene tree. A Prim owns its properties and its
// children. A Prim is owned by at most one parent Prim or Stage; Prims
// returned by accessors are references which stay valid only as long as
// their owner.
type Prim struct {
	Specifier Specifier
	Meta      *Dict

	name     string
	typeName string
	primType PrimType

	props    omap[*Property]
	children []*Prim

	parent *Prim
	stage  *Stage
	freed  bool
}

// NewPrim returns an unowned prim named name of the builtin type
// typeName. The empty type name makes an untyped prim. Any other type
// name fails with ErrUnknownPrimType; see NewCustomPrim.
func NewPrim(name, typeName string) (*Prim, error) {
	t, err := PrimTypeFromString(typeName)
	if err != nil {
		return nil, err
	}
	return newPrim(name, typeName, t)
}

// NewCustomPrim is NewPrim accepting any identifier as type name.
func NewCustomPrim(name, typeName string) (*Prim, error) {
	t, err := PrimTypeFromString(typeName)
	if err != nil {
		if !spath.IsIdentifier(typeName) {
			return nil, fmt.Errorf("%w: bad type name %q", ErrUnknownPrimType, typeName)
		}
		t = CustomType
	}
	return newPrim(name, typeName, t)
}

func NewBuiltinPrim(name string, t PrimType) (*Prim, error) {
	if !t.IsBuiltin() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPrimType, int(t))
	}
	typeName := t.String()
	if t == ModelType {
		typeName = ""
	}
	return newPrim(name, typeName, t)
}

// MustPrim is NewCustomPrim which panics on error.
func MustPrim(name, typeName string) *Prim {
	p, err := NewCustomPrim(name, typeName)
	if err != nil {
		panic(err)
	}
	return p
}

func newPrim(name, typeName string, t PrimType) (*Prim, error) {
	if !spath.IsIdentifier(name) {
		return nil, fmt.Errorf("%w: bad prim name %q", ErrInvalidPath, name)
	}
	return &Prim{name: name, typeName: typeName, primType: t, Meta: NewDict()}, nil
}

func (p *Prim) Name() string { return p.name }

// TypeName is the type name as written, "" for an untyped prim.
func (p *Prim) TypeName() string { return p.typeName }

func (p *Prim) Type() PrimType { return p.primType }

// Parent returns the owning prim, or nil for root and unowned prims.
func (p *Prim) Parent() *Prim { return p.parent }

// Stage returns the stage owning the tree p belongs to, if any.
func (p *Prim) Stage() *Stage {
	for p.parent != nil {
		p = p.parent
	}
	return p.stage
}

func (p *Prim) isOwned() bool { return p.parent != nil || p.stage != nil }

func (p *Prim) IsFreed() bool { return p.freed }

// Path returns the prim path of p. An unowned prim is addressed as if it
// were a root prim.
func (p *Prim) Path() spath.Path {
	var names []string
	for x := p; x != nil; x = x.parent {
		names = append(names, x.name)
	}
	slices.Reverse(names)
	path, _ := spath.PrimPath(names...)
	return path
}

// PropertyNames returns the property names of p in insertion order.
func (p *Prim) PropertyNames() []string { return slices.Clone(p.props.keys) }

func (p *Prim) NumProperties() int { return p.props.len() }

func (p *Prim) HasProperty(name string) bool {
	_, ok := p.props.get(name)
	return ok
}

func (p *Prim) Property(name string) (*Property, error) {
	prop, ok := p.props.get(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q on %s", ErrPropertyNotFound, name, p.Path())
	}
	return prop, nil
}

// Attribute returns the attribute name of p.
func (p *Prim) Attribute(name string) (*Attribute, error) {
	prop, err := p.Property(name)
	if err != nil {
		return nil, err
	}
	return prop.Attribute()
}

// Relationship returns the relationship name of p.
func (p *Prim) Relationship(name string) (*Relationship, error) {
	prop, err := p.Property(name)
	if err != nil {
		return nil, err
	}
	return prop.Relationship()
}

// Properties iterates over the properties of p in insertion order.
func (p *Prim) Properties() iter.Seq2[string, *Property] { return p.props.all() }

// AddProperty appends prop under name, taking ownership. It fails with
// ErrDuplicateProperty if name exists; use SetProperty to overwrite.
func (p *Prim) AddProperty(name string, prop *Property) error {
	if err := p.checkProperty(name, prop); err != nil {
		return err
	}
	if _, ok := p.props.get(name); ok {
		return fmt.Errorf("%w: %q on %s", ErrDuplicateProperty, name, p.Path())
	}
	p.props.set(name, prop)
	prop.owned = true
	return nil
}

// SetProperty stores prop under name, taking ownership. An existing
// property of that name is freed and replaced in its original position.
func (p *Prim) SetProperty(name string, prop *Property) error {
	if err := p.checkProperty(name, prop); err != nil {
		return err
	}
	old, ok := p.props.get(name)
	if ok && old == prop {
		return nil
	}
	p.props.set(name, prop)
	prop.owned = true
	if ok {
		old.owned = false
		old.Free()
	}
	return nil
}

func (p *Prim) checkProperty(name string, prop *Property) error {
	if p.freed {
		return ErrFreed
	}
	if prop == nil {
		panic("nil property")
	}
	if !spath.IsPropertyName(name) {
		return fmt.Errorf("%w: bad property name %q", ErrInvalidPath, name)
	}
	if prop.owned {
		if cur, ok := p.props.get(name); ok && cur == prop {
			return nil
		}
		return fmt.Errorf("%w: property %q is owned by another prim", ErrAlreadyOwned, name)
	}
	return nil
}

// AddAttribute is a shorthand for AddProperty with a value attribute.
func (p *Prim) AddAttribute(name string, v *value.Buffer) (*Attribute, error) {
	a, err := NewValueAttribute(v)
	if err != nil {
		return nil, err
	}
	if err := p.AddProperty(name, NewAttributeProperty(a)); err != nil {
		return nil, err
	}
	return a, nil
}

// AddRelationship is a shorthand for AddProperty with a relationship.
func (p *Prim) AddRelationship(name string, targets ...spath.Path) (*Relationship, error) {
	r := NewRelationship(targets...)
	if err := p.AddProperty(name, NewRelationshipProperty(r)); err != nil {
		return nil, err
	}
	return r, nil
}

// DelProperty removes and frees the property name.
func (p *Prim) DelProperty(name string) error {
	prop, ok := p.props.del(name)
	if !ok {
		return fmt.Errorf("%w: %q on %s", ErrPropertyNotFound, name, p.Path())
	}
	prop.owned = false
	prop.Free()
	return nil
}

func (p *Prim) NumChildren() int { return len(p.children) }

// Child returns a reference to the child at index i.
func (p *Prim) Child(i int) (*Prim, error) {
	if i < 0 || i >= len(p.children) {
		return nil, fmt.Errorf("%w: child %d of %d", ErrIndexOutOfRange, i, len(p.children))
	}
	return p.children[i], nil
}

// ChildByName returns the child named name, or nil.
func (p *Prim) ChildByName(name string) *Prim {
	for _, c := range p.children {
		if c.name == name {
			return c
		}
	}
	return nil
}

// Children iterates over the children of p in order.
func (p *Prim) Children() iter.Seq[*Prim] { return slices.Values(p.children) }

// AppendChild transfers ownership of child to p and appends it to the
// children of p. It fails with ErrAlreadyOwned if child has an owner or
// if child is p or an ancestor of p, and with ErrDuplicatePrim if p
// already has a child of the same name.
func (p *Prim) AppendChild(child *Prim) error {
	if child == nil {
		panic("nil child")
	}
	if p.freed || child.freed {
		return ErrFreed
	}
	if child.isOwned() {
		return fmt.Errorf("%w: %s", ErrAlreadyOwned, child.Path())
	}
	for x := p; x != nil; x = x.parent {
		if x == child {
			return fmt.Errorf("%w: %s is an ancestor of %s", ErrAlreadyOwned, child.name, p.Path())
		}
	}
	if p.ChildByName(child.name) != nil {
		return fmt.Errorf("%w: %q under %s", ErrDuplicatePrim, child.name, p.Path())
	}
	child.parent = p
	p.children = append(p.children, child)
	return nil
}

// DetachChild removes the child at index i and returns it unowned.
func (p *Prim) DetachChild(i int) (*Prim, error) {
	if i < 0 || i >= len(p.children) {
		return nil, fmt.Errorf("%w: child %d of %d", ErrIndexOutOfRange, i, len(p.children))
	}
	c := p.children[i]
	p.children = slices.Delete(p.children, i, i+1)
	c.parent = nil
	return c, nil
}

// DelChild removes the child at index i and frees its subtree.
func (p *Prim) DelChild(i int) error {
	c, err := p.DetachChild(i)
	if err != nil {
		return err
	}
	c.free()
	return nil
}

// Free releases the subtree of an unowned prim. Freeing an owned prim
// fails with ErrAlreadyOwned; free it through its owner instead.
func (p *Prim) Free() error {
	if p.isOwned() {
		return fmt.Errorf("%w: %s", ErrAlreadyOwned, p.Path())
	}
	p.free()
	return nil
}

func (p *Prim) free() {
	if p.freed {
		return
	}
	for _, c := range p.children {
		c.parent = nil
		c.free()
	}
	p.children = nil
	for _, prop := range p.props.vals {
		prop.owned = false
		prop.Free()
	}
	p.props.clear()
	p.Meta.free()
	p.stage = nil
	p.freed = true
}

// Clone returns an unowned deep copy of the subtree rooted at p.
func (p *Prim) Clone() *Prim {
	res := &Prim{
		Specifier: p.Specifier,
		Meta:      p.Meta.Clone(),
		name:      p.name,
		typeName:  p.typeName,
		primType:  p.primType,
	}
	if res.Meta == nil {
		res.Meta = NewDict()
	}
	for name, prop := range p.props.all() {
		c := prop.Clone()
		c.owned = true
		res.props.set(name, c)
	}
	for _, c := range p.children {
		cc := c.Clone()
		cc.parent = res
		res.children = append(res.children, cc)
	}
	return res
}

// Visit walks the subtree of p in pre-order, calling f with each prim and
// its path. If f returns false the walk stops without error.
func (p *Prim) Visit(f func(*Prim, spath.Path) (bool, error)) error {
	_, err := p.visit(p.Path(), f)
	return err
}

func (p *Prim) visit(path spath.Path, f func(*Prim, spath.Path) (bool, error)) (bool, error) {
	cont, err := f(p, path)
	if err != nil {
		return false, fmt.Errorf("%s: %w", path, err)
	}
	if !cont {
		return false, nil
	}
	for _, c := range p.children {
		cp, err := path.AppendChild(c.name)
		if err != nil {
			return false, err
		}
		cont, err := c.visit(cp, f)
		if err != nil || !cont {
			return false, err
		}
	}
	return true, nil
}
