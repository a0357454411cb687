package dump

import (
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
)

type dumpOpts struct {
	values bool
	indent int
}

type DumpOption func(*dumpOpts)

// Values includes attribute values. It is on by default; turning it off
// keeps only types, which is useful for large meshes.
func Values(v bool) DumpOption {
	return func(o *dumpOpts) { o.values = v }
}

// Indent sets the YAML indentation width.
func Indent(n int) DumpOption {
	return func(o *dumpOpts) { o.indent = n }
}

func newOpts(opts []DumpOption) *dumpOpts {
	o := &dumpOpts{values: true, indent: 2}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Stage converts st to an ordered tree of yaml.MapSlice, slices and
// scalars.
func Stage(st *ir.Stage, opts ...DumpOption) (yaml.MapSlice, error) {
	if st.IsFreed() {
		return nil, ir.ErrFreed
	}
	o := newOpts(opts)
	res := yaml.MapSlice{}
	if md := metadata(st.Metadata()); len(md) > 0 {
		res = append(res, yaml.MapItem{Key: "metadata", Value: md})
	}
	prims := []any{}
	for p := range st.RootPrims() {
		m, err := o.prim(p, spath.Root())
		if err != nil {
			return nil, err
		}
		prims = append(prims, m)
	}
	return append(res, yaml.MapItem{Key: "prims", Value: prims}), nil
}

// YAML renders st as YAML.
func YAML(st *ir.Stage, opts ...DumpOption) ([]byte, error) {
	tree, err := Stage(st, opts...)
	if err != nil {
		return nil, err
	}
	return yaml.MarshalWithOptions(tree, yaml.Indent(newOpts(opts).indent))
}

// JSON renders st as JSON.
func JSON(st *ir.Stage, opts ...DumpOption) ([]byte, error) {
	tree, err := Stage(st, opts...)
	if err != nil {
		return nil, err
	}
	return yaml.MarshalWithOptions(tree, yaml.JSON())
}

func metadata(md ir.Metadata) yaml.MapSlice {
	res := yaml.MapSlice{}
	add := func(k string, v any) { res = append(res, yaml.MapItem{Key: k, Value: v}) }
	if md.Doc != nil {
		add("doc", *md.Doc)
	}
	if md.UpAxis != nil {
		add("upAxis", md.UpAxis.String())
	}
	for _, f := range []struct {
		k string
		v *float64
	}{
		{"metersPerUnit", md.MetersPerUnit},
		{"framesPerSecond", md.FramesPerSecond},
		{"timeCodesPerSecond", md.TimeCodesPerSecond},
		{"startTimeCode", md.StartTimeCode},
		{"endTimeCode", md.EndTimeCode},
	} {
		if f.v != nil {
			add(f.k, *f.v)
		}
	}
	if md.DefaultPrim != nil {
		add("defaultPrim", *md.DefaultPrim)
	}
	for k, v := range md.Custom.All() {
		nv, err := Value(v)
		if err != nil {
			nv = v.String()
		}
		add(k, nv)
	}
	return res
}

func dict(d *ir.Dict) (yaml.MapSlice, error) {
	res := yaml.MapSlice{}
	for k, v := range d.All() {
		nv, err := Value(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", k, err)
		}
		res = append(res, yaml.MapItem{Key: k, Value: nv})
	}
	return res, nil
}

func (o *dumpOpts) prim(p *ir.Prim, parent spath.Path) (yaml.MapSlice, error) {
	path, err := parent.AppendChild(p.Name())
	if err != nil {
		return nil, err
	}
	res := yaml.MapSlice{
		{Key: "name", Value: p.Name()},
		{Key: "path", Value: path.String()},
		{Key: "specifier", Value: p.Specifier.String()},
	}
	if tn := p.TypeName(); tn != "" {
		res = append(res, yaml.MapItem{Key: "type", Value: tn})
	}
	if p.Meta.Len() > 0 {
		md, err := dict(p.Meta)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		res = append(res, yaml.MapItem{Key: "metadata", Value: md})
	}
	if p.NumProperties() > 0 {
		props := yaml.MapSlice{}
		for name, prop := range p.Properties() {
			m, err := o.property(prop)
			if err != nil {
				return nil, fmt.Errorf("%s.%s: %w", path, name, err)
			}
			props = append(props, yaml.MapItem{Key: name, Value: m})
		}
		res = append(res, yaml.MapItem{Key: "properties", Value: props})
	}
	if p.NumChildren() > 0 {
		children := []any{}
		for c := range p.Children() {
			m, err := o.prim(c, path)
			if err != nil {
				return nil, err
			}
			children = append(children, m)
		}
		res = append(res, yaml.MapItem{Key: "children", Value: children})
	}
	return res, nil
}

func paths(ps []spath.Path) []string {
	res := make([]string, len(ps))
	for i, p := range ps {
		res[i] = p.String()
	}
	return res
}

func (o *dumpOpts) property(prop *ir.Property) (yaml.MapSlice, error) {
	res := yaml.MapSlice{{Key: "kind", Value: prop.Kind()}}
	add := func(k string, v any) { res = append(res, yaml.MapItem{Key: k, Value: v}) }
	var (
		custom bool
		vary   ir.Variability
		meta   *ir.Dict
	)
	if prop.IsRelationship() {
		rel, _ := prop.Relationship()
		custom, vary, meta = rel.Custom, rel.Variability, rel.Meta
		if rel.IsBlocked() {
			add("blocked", true)
		} else {
			add("targets", paths(rel.Targets()))
		}
	} else {
		attr, _ := prop.Attribute()
		custom, vary, meta = attr.Custom, attr.Variability, attr.Meta
		add("type", attr.TypeName())
		switch attr.Mode() {
		case ir.ModeValue:
			if o.values {
				b, err := attr.Value()
				if err != nil {
					return nil, err
				}
				v, err := Value(b)
				if err != nil {
					return nil, err
				}
				add("value", v)
			}
		case ir.ModeConnection:
			add("connections", paths(attr.Connections()))
		case ir.ModeBlocked:
			add("blocked", true)
		}
		if attr.HasTimeSamples() {
			samples, err := o.timeSamples(attr)
			if err != nil {
				return nil, err
			}
			add("timeSamples", samples)
		}
	}
	if custom {
		add("custom", true)
	}
	if vary == ir.Uniform {
		add("variability", vary.String())
	}
	if meta.Len() > 0 {
		md, err := dict(meta)
		if err != nil {
			return nil, err
		}
		add("metadata", md)
	}
	return res, nil
}

// timeSamples lists each time with its value, which is null for a blocked
// sample. Without values only the number of samples is kept.
func (o *dumpOpts) timeSamples(attr *ir.Attribute) (any, error) {
	if !o.values {
		return attr.NumTimeSamples(), nil
	}
	res := make([]any, 0, attr.NumTimeSamples())
	for _, ts := range attr.TimeSamples() {
		var v any
		if !ts.IsBlocked() {
			var err error
			if v, err = Value(ts.Value); err != nil {
				return nil, err
			}
		}
		res = append(res, yaml.MapSlice{{Key: "time", Value: ts.Time}, {Key: "value", Value: v}})
	}
	return res, nil
}
