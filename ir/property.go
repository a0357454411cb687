package ir

import (
	"fmt"
	"slices"

	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/value"
)

// AttributeMode is the state of an Attribute. Exactly one mode is active
// at a time.
type AttributeMode int

const (
	// ModeUnset is a declared attribute with no opinion: `float radius`.
	ModeUnset AttributeMode = iota
	// ModeValue holds a Buffer: `float radius = 2`.
	ModeValue
	// ModeConnection holds source attribute paths:
	// `color3f inputs:c.connect = </Mat/Tex.outputs:rgb>`.
	ModeConnection
	// ModeBlocked is an explicit absence of value: `float radius = None`.
	ModeBlocked
)

func (m AttributeMode) String() string {
	switch m {
	case ModeUnset:
		return "unset"
	case ModeValue:
		return "value"
	case ModeConnection:
		return "connection"
	case ModeBlocked:
		return "blocked"
	}
	return "<unknown mode>"
}

// Attribute is typed property data.
type Attribute struct {
	Custom      bool
	Variability Variability
	Meta        *Dict

	vType   value.ValueType
	isArray bool

	mode    AttributeMode
	val     *value.Buffer
	conns   []spath.Path
	samples []TimeSample
}

// NewAttribute returns an unset attribute with no declared type. The type
// is taken from the first value set.
func NewAttribute() *Attribute {
	return &Attribute{}
}

// NewTypedAttribute returns an unset attribute declared with a type name
// such as "float3[]" or "token".
func NewTypedAttribute(typeName string) (*Attribute, error) {
	t, isArray, err := value.ParseTypeName(typeName)
	if err != nil {
		return nil, err
	}
	return &Attribute{vType: t, isArray: isArray}, nil
}

// NewValueAttribute returns an attribute holding v, declared with v's
// type. The attribute takes ownership of v.
func NewValueAttribute(v *value.Buffer) (*Attribute, error) {
	a := NewAttribute()
	if err := a.SetValue(v); err != nil {
		return nil, err
	}
	return a, nil
}

// TypeName is the declared type, e.g. "point3f[]", or "" if the
// attribute has none yet.
func (a *Attribute) TypeName() string {
	if a.vType == value.TypeInvalid {
		return ""
	}
	return value.TypeName(a.vType, a.isArray)
}

// Type returns the declared value type and whether it is an array type.
func (a *Attribute) Type() (value.ValueType, bool) {
	return a.vType, a.isArray
}

func (a *Attribute) Mode() AttributeMode { return a.mode }
func (a *Attribute) IsBlocked() bool     { return a.mode == ModeBlocked }
func (a *Attribute) IsConnection() bool  { return a.mode == ModeConnection }
func (a *Attribute) HasValue() bool      { return a.mode == ModeValue }

// SetValue switches a to value mode holding v, discarding connections. A
// buffer whose type differs from the declared type only by role, such as
// float3 for a point3f attribute, is retagged. Any other difference fails
// with ErrTypeMismatch.
func (a *Attribute) SetValue(v *value.Buffer) error {
	v, err := a.conform(v)
	if err != nil {
		return err
	}
	a.mode = ModeValue
	a.val = v
	a.conns = nil
	return nil
}

// conform checks v against the declared type, retagging role variants.
// An attribute with no declared type adopts the type of v.
func (a *Attribute) conform(v *value.Buffer) (*value.Buffer, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: nil value", ErrTypeMismatch)
	}
	if v.IsFreed() {
		return nil, ErrFreed
	}
	if a.vType == value.TypeInvalid {
		a.vType, a.isArray = v.Type(), v.IsArray()
		return v, nil
	}
	if a.isArray != v.IsArray() || !value.SameLayout(a.vType, v.Type()) {
		return nil, fmt.Errorf("%w: %s value for %s attribute", ErrTypeMismatch, v.TypeName(), a.TypeName())
	}
	if v.Type() != a.vType {
		return v.WithRole(a.vType)
	}
	return v, nil
}

// Value returns the value of an attribute in value mode and fails with
// ErrModeMismatch in any other mode.
func (a *Attribute) Value() (*value.Buffer, error) {
	if a.mode != ModeValue {
		return nil, fmt.Errorf("%w: attribute is %s", ErrModeMismatch, a.mode)
	}
	return a.val, nil
}

// SetConnection switches a to connection mode with the single source p.
func (a *Attribute) SetConnection(p spath.Path) error {
	return a.SetConnections([]spath.Path{p})
}

// SetConnections switches a to connection mode, discarding any value.
// Sources must be property paths and there must be at least one. An
// attribute without a declared type fails with ErrTypeMismatch.
func (a *Attribute) SetConnections(ps []spath.Path) error {
	if err := a.needType("connect"); err != nil {
		return err
	}
	if len(ps) == 0 {
		return fmt.Errorf("%w: no connection sources", ErrInvalidPath)
	}
	for _, p := range ps {
		if !p.IsPropertyPath() {
			return fmt.Errorf("%w: connection source %s is not a property path", ErrInvalidPath, p)
		}
	}
	a.mode = ModeConnection
	a.freeValue()
	a.conns = slices.Clone(ps)
	return nil
}

func (a *Attribute) NumConnections() int { return len(a.conns) }

func (a *Attribute) Connection(i int) (spath.Path, error) {
	if i < 0 || i >= len(a.conns) {
		return spath.Path{}, fmt.Errorf("%w: connection %d of %d", ErrIndexOutOfRange, i, len(a.conns))
	}
	return a.conns[i], nil
}

func (a *Attribute) Connections() []spath.Path { return slices.Clone(a.conns) }

// Block switches a to blocked mode, discarding any value or connections.
// An attribute without a declared type fails with ErrTypeMismatch.
func (a *Attribute) Block() error {
	if err := a.needType("block"); err != nil {
		return err
	}
	a.mode = ModeBlocked
	a.freeValue()
	a.conns = nil
	return nil
}

// needType fails when a has no declared type, which only a value can
// provide.
func (a *Attribute) needType(op string) error {
	if a.vType == value.TypeInvalid {
		return fmt.Errorf("%w: cannot %s an attribute with no type", ErrTypeMismatch, op)
	}
	return nil
}

// Clear returns a to the unset mode, keeping its declared type and its
// time samples.
func (a *Attribute) Clear() {
	a.mode = ModeUnset
	a.freeValue()
	a.conns = nil
}

func (a *Attribute) freeValue() {
	if a.val != nil {
		a.val.Free()
		a.val = nil
	}
}

func (a *Attribute) Clone() *Attribute {
	res := *a
	res.Meta = a.Meta.Clone()
	if a.val != nil {
		res.val = a.val.Clone()
	}
	res.conns = slices.Clone(a.conns)
	res.samples = cloneSamples(a.samples)
	return &res
}

func (a *Attribute) Free() {
	a.freeValue()
	a.conns = nil
	a.ClearTimeSamples()
	a.Meta.free()
}

// Relationship holds target paths, or is blocked.
type Relationship struct {
	Custom      bool
	Variability Variability
	Meta        *Dict

	targets []spath.Path
	blocked bool
}

func NewRelationship(targets ...spath.Path) *Relationship {
	return &Relationship{targets: slices.Clone(targets)}
}

func NewBlockedRelationship() *Relationship {
	return &Relationship{blocked: true}
}

func (r *Relationship) IsBlocked() bool { return r.blocked }
func (r *Relationship) NumTargets() int { return len(r.targets) }

func (r *Relationship) Target(i int) (spath.Path, error) {
	if i < 0 || i >= len(r.targets) {
		return spath.Path{}, fmt.Errorf("%w: target %d of %d", ErrIndexOutOfRange, i, len(r.targets))
	}
	return r.targets[i], nil
}

func (r *Relationship) Targets() []spath.Path { return slices.Clone(r.targets) }

// SetTargets replaces the targets of r and unblocks it.
func (r *Relationship) SetTargets(targets ...spath.Path) {
	r.targets = slices.Clone(targets)
	r.blocked = false
}

func (r *Relationship) Block() {
	r.targets = nil
	r.blocked = true
}

func (r *Relationship) Clone() *Relationship {
	res := *r
	res.Meta = r.Meta.Clone()
	res.targets = slices.Clone(r.targets)
	return &res
}

// Property is either an Attribute or a Relationship.
type Property struct {
	attr  *Attribute
	rel   *Relationship
	owned bool
}

// NewAttributeProperty wraps a. A nil a is a new unset attribute.
func NewAttributeProperty(a *Attribute) *Property {
	if a == nil {
		a = NewAttribute()
	}
	return &Property{attr: a}
}

// NewRelationshipProperty wraps r. A nil r is a relationship with no
// targets.
func NewRelationshipProperty(r *Relationship) *Property {
	if r == nil {
		r = NewRelationship()
	}
	return &Property{rel: r}
}

func (p *Property) IsAttribute() bool    { return p.attr != nil }
func (p *Property) IsRelationship() bool { return p.rel != nil }

func (p *Property) Attribute() (*Attribute, error) {
	if p.attr == nil {
		return nil, fmt.Errorf("%w: property is a relationship", ErrModeMismatch)
	}
	return p.attr, nil
}

func (p *Property) Relationship() (*Relationship, error) {
	if p.rel == nil {
		return nil, fmt.Errorf("%w: property is an attribute", ErrModeMismatch)
	}
	return p.rel, nil
}

// Kind is "attribute" or "relationship".
func (p *Property) Kind() string {
	if p.rel != nil {
		return "relationship"
	}
	return "attribute"
}

// IsCustom reports the custom flag of the wrapped property.
func (p *Property) IsCustom() bool {
	if p.rel != nil {
		return p.rel.Custom
	}
	return p.attr.Custom
}

// Clone returns an unowned deep copy of p.
func (p *Property) Clone() *Property {
	if p.rel != nil {
		return &Property{rel: p.rel.Clone()}
	}
	return &Property{attr: p.attr.Clone()}
}

func (p *Property) Free() {
	if p.attr != nil {
		p.attr.Free()
	}
	if p.rel != nil {
		p.rel.targets = nil
		p.rel.Meta.free()
	}
}
