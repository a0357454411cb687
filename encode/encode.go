package encode

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/token"
	"github.com/signadot/usd-format/go-usd/value"
)

var ErrEncode = errors.New("encode error")

type EncState struct {
	depth, indent int
	noHeader      bool

	Color func(value.ValueType, ColorAttr, string) string
}

func newState(opts []EncodeOption) *EncState {
	es := &EncState{
		indent: 2,
	}
	for _, opt := range opts {
		opt(es)
	}
	return es
}

// encoder keeps the first write error so the writing code can stay
// linear.
type encoder struct {
	w   io.Writer
	es  *EncState
	err error
}

func (e *encoder) writeString(s string) {
	if e.err != nil {
		return
	}
	_, e.err = io.WriteString(e.w, s)
}

func (e *encoder) writeNL() {
	e.writeString("\n")
}

func (e *encoder) writeIndent(depth int) {
	e.writeString(strings.Repeat(" ", depth*e.es.indent))
}

func (e *encoder) color(t value.ValueType, attr ColorAttr, s string) string {
	if e.es.Color == nil {
		return s
	}
	return e.es.Color(t, attr, s)
}

func (e *encoder) kw(s string) string  { return e.color(value.TypeInvalid, KeywordColor, s) }
func (e *encoder) sep(s string) string { return e.color(value.TypeInvalid, SepColor, s) }

func (e *encoder) value(b *value.Buffer) string {
	return e.color(b.Type(), ValueColor, b.String())
}

func (e *encoder) path(p spath.Path) string {
	return e.color(value.TypeInvalid, PathColor, token.QuotePath(p))
}

func (e *encoder) paths(ps []spath.Path) string {
	if len(ps) == 1 {
		return e.path(ps[0])
	}
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = e.path(p)
	}
	return e.sep("[") + strings.Join(parts, e.sep(", ")) + e.sep("]")
}

// Encode writes st as a USDA layer.
func Encode(st *ir.Stage, w io.Writer, opts ...EncodeOption) error {
	if st.IsFreed() {
		return fmt.Errorf("%w: %w", ErrEncode, ir.ErrFreed)
	}
	e := &encoder{w: w, es: newState(opts)}
	if !e.es.noHeader {
		e.writeString(e.color(value.TypeInvalid, CommentColor, "#usda 1.0"))
		e.writeNL()
	}
	e.stageMeta(st.Metadata())
	e.writeNL()
	i := 0
	for p := range st.RootPrims() {
		if i > 0 {
			e.writeNL()
		}
		i++
		if err := e.prim(p, e.es.depth); err != nil {
			return err
		}
	}
	return e.err
}

// EncodePrim writes p and its subtree.
func EncodePrim(p *ir.Prim, w io.Writer, opts ...EncodeOption) error {
	if p.IsFreed() {
		return fmt.Errorf("%w: %w", ErrEncode, ir.ErrFreed)
	}
	e := &encoder{w: w, es: newState(opts)}
	if err := e.prim(p, e.es.depth); err != nil {
		return err
	}
	return e.err
}

func (e *encoder) stageMeta(md ir.Metadata) {
	if md.IsEmpty() {
		return
	}
	e.writeString(e.sep("("))
	e.writeNL()
	num := func(key string, f *float64) {
		if f != nil {
			e.metaLine(key, value.NewDouble(*f), 1)
		}
	}
	if md.Doc != nil {
		e.writeIndent(1)
		e.writeString(e.color(value.TypeInvalid, PropertyColor, "doc") + e.sep(" = ") +
			e.color(value.TypeString, ValueColor, token.Quote(*md.Doc, true)))
		e.writeNL()
	}
	num("metersPerUnit", md.MetersPerUnit)
	if md.UpAxis != nil {
		e.metaLine("upAxis", value.NewFromString(md.UpAxis.String()), 1)
	}
	num("timeCodesPerSecond", md.TimeCodesPerSecond)
	num("startTimeCode", md.StartTimeCode)
	num("endTimeCode", md.EndTimeCode)
	num("framesPerSecond", md.FramesPerSecond)
	if md.DefaultPrim != nil {
		e.metaLine("defaultPrim", value.NewFromString(*md.DefaultPrim), 1)
	}
	for k, v := range md.Custom.All() {
		e.metaEntry(k, v, 1)
	}
	e.writeString(e.sep(")"))
	e.writeNL()
}

func (e *encoder) metaLine(key string, v *value.Buffer, depth int) {
	e.writeIndent(depth)
	e.writeString(e.color(value.TypeInvalid, PropertyColor, key) + e.sep(" = ") + e.value(v))
	e.writeNL()
}

// metaEntry writes a dictionary entry. A value whose bare literal reads
// back as another type is prefixed with its type name, as in
// `token[] kinds = []`.
func (e *encoder) metaEntry(key string, v *value.Buffer, depth int) {
	e.writeIndent(depth)
	if !untypedMeta(v) {
		e.writeString(e.color(value.TypeInvalid, TypeColor, v.TypeName()) + " ")
	}
	s := v.String()
	if v.Type() == value.TypeDouble && !v.IsArray() && !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	e.writeString(e.color(value.TypeInvalid, PropertyColor, key) + e.sep(" = ") + e.color(v.Type(), ValueColor, s))
	e.writeNL()
}

// untypedMeta reports whether the bare literal of v is read back with
// the type of v.
func untypedMeta(v *value.Buffer) bool {
	if v.IsArray() {
		switch v.Type() {
		case value.TypeString:
			return true
		case value.TypeInt64:
			return v.Len() > 0
		}
		return false
	}
	switch v.Type() {
	case value.TypeBool, value.TypeString, value.TypeInt,
		value.TypeDouble, value.TypeDouble2, value.TypeDouble3, value.TypeDouble4:
		return true
	case value.TypeInt64:
		n, err := v.Int64()
		return err == nil && (n < math.MinInt32 || n > math.MaxInt32)
	}
	return false
}

// metaBlock writes " (\n" entries ")" for a non empty dict, without the
// trailing newline.
func (e *encoder) metaBlock(d *ir.Dict, depth int) {
	if d.Len() == 0 {
		return
	}
	e.writeString(" " + e.sep("("))
	e.writeNL()
	for k, v := range d.All() {
		e.metaEntry(k, v, depth+1)
	}
	e.writeIndent(depth)
	e.writeString(e.sep(")"))
}

func (e *encoder) prim(p *ir.Prim, depth int) error {
	e.writeIndent(depth)
	e.writeString(e.kw(p.Specifier.String()))
	if tn := p.TypeName(); tn != "" {
		e.writeString(" " + e.color(value.TypeInvalid, TypeColor, tn))
	}
	e.writeString(" " + e.color(value.TypeInvalid, NameColor, value.Quote(p.Name())))
	e.metaBlock(p.Meta, depth)
	e.writeNL()
	e.writeIndent(depth)
	e.writeString(e.sep("{"))
	e.writeNL()
	for name, prop := range p.Properties() {
		if err := e.property(name, prop, depth+1); err != nil {
			return fmt.Errorf("%s: %w", p.Path(), err)
		}
	}
	for c := range p.Children() {
		e.writeNL()
		if err := e.prim(c, depth+1); err != nil {
			return err
		}
	}
	e.writeIndent(depth)
	e.writeString(e.sep("}"))
	e.writeNL()
	return nil
}

func (e *encoder) property(name string, prop *ir.Property, depth int) error {
	var (
		custom bool
		vary   ir.Variability
		meta   *ir.Dict
		head   string
		rest   string
		attr   *ir.Attribute
		decl   string
	)
	pname := e.color(value.TypeInvalid, PropertyColor, name)
	if prop.IsRelationship() {
		rel, _ := prop.Relationship()
		custom, vary, meta = rel.Custom, rel.Variability, rel.Meta
		head = e.kw("rel") + " " + pname
		switch {
		case rel.IsBlocked():
			rest = e.sep(" = ") + e.kw("None")
		case rel.NumTargets() > 0:
			targets := rel.Targets()
			if len(targets) == 1 {
				rest = e.sep(" = ") + e.path(targets[0])
			} else {
				rest = e.sep(" = ") + e.paths(targets)
			}
		}
	} else {
		attr, _ = prop.Attribute()
		custom, vary, meta = attr.Custom, attr.Variability, attr.Meta
		tn := attr.TypeName()
		if tn == "" {
			return fmt.Errorf("%w: attribute %s has no type", ErrEncode, name)
		}
		decl = e.color(value.TypeInvalid, TypeColor, tn) + " " + pname
		head = decl
		switch attr.Mode() {
		case ir.ModeValue:
			v, err := attr.Value()
			if err != nil {
				return err
			}
			if v.IsFreed() {
				return fmt.Errorf("%w: attribute %s: %w", ErrEncode, name, ir.ErrFreed)
			}
			rest = e.sep(" = ") + e.value(v)
		case ir.ModeBlocked:
			rest = e.sep(" = ") + e.kw("None")
		case ir.ModeConnection:
			head += e.color(value.TypeInvalid, PropertyColor, ".connect")
			rest = e.sep(" = ") + e.paths(attr.Connections())
		}
	}
	prefix := ""
	if custom {
		prefix += e.kw("custom") + " "
	}
	if vary == ir.Uniform {
		prefix += e.kw("uniform") + " "
	}
	sampled := attr != nil && attr.HasTimeSamples()
	if !sampled || attr.Mode() != ir.ModeUnset || meta.Len() > 0 {
		e.writeIndent(depth)
		e.writeString(prefix + head + rest)
		e.metaBlock(meta, depth)
		e.writeNL()
		prefix = ""
	}
	if sampled {
		return e.timeSamples(prefix+decl, name, attr, depth)
	}
	return nil
}

// timeSamples writes `type name.timeSamples = {` followed by one sample
// per line.
func (e *encoder) timeSamples(decl, name string, a *ir.Attribute, depth int) error {
	e.writeIndent(depth)
	e.writeString(decl + e.color(value.TypeInvalid, PropertyColor, ".timeSamples") + e.sep(" = ") + e.sep("{"))
	e.writeNL()
	for _, s := range a.TimeSamples() {
		v := e.kw("None")
		if !s.IsBlocked() {
			if s.Value.IsFreed() {
				return fmt.Errorf("%w: attribute %s at %v: %w", ErrEncode, name, s.Time, ir.ErrFreed)
			}
			v = e.value(s.Value)
		}
		e.writeIndent(depth + 1)
		e.writeString(e.color(value.TypeDouble, ValueColor, value.FormatFloat(s.Time, 64)) + e.sep(": ") + v + e.sep(","))
		e.writeNL()
	}
	e.writeIndent(depth)
	e.writeString(e.sep("}"))
	e.writeNL()
	return nil
}
