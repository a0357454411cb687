package libdiff

import (
	"fmt"
	"strings"

	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/value"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Diff returns the changes turning from into to, in traversal order.
// Prims and properties are matched by name among their siblings; a prim
// only in one stage is reported once, without its subtree.
func Diff(from, to *ir.Stage) ([]Change, error) {
	if from.IsFreed() || to.IsFreed() {
		return nil, ir.ErrFreed
	}
	d := &differ{}
	d.metadata(spath.Root(), stageMeta(from.Metadata()), stageMeta(to.Metadata()))
	d.children(spath.Root(), roots(from), roots(to))
	return d.changes, nil
}

type differ struct {
	changes []Change
}

func (d *differ) add(c Change) { d.changes = append(d.changes, c) }

func roots(st *ir.Stage) []*ir.Prim {
	var res []*ir.Prim
	for p := range st.RootPrims() {
		res = append(res, p)
	}
	return res
}

func kids(p *ir.Prim) []*ir.Prim {
	var res []*ir.Prim
	for c := range p.Children() {
		res = append(res, c)
	}
	return res
}

func names(ps []*ir.Prim) []string {
	res := make([]string, len(ps))
	for i, p := range ps {
		res[i] = p.Name()
	}
	return res
}

func (d *differ) children(parent spath.Path, from, to []*ir.Prim) {
	for _, s := range diffNames(names(from), names(to)) {
		switch s.op {
		case diffpatch.DiffDelete:
			p := from[s.from]
			path, _ := parent.AppendChild(p.Name())
			d.add(Change{Op: Delete, Path: path, From: primHead(p)})
		case diffpatch.DiffInsert:
			p := to[s.to]
			path, _ := parent.AppendChild(p.Name())
			d.add(Change{Op: Insert, Path: path, To: primHead(p)})
		case diffpatch.DiffEqual:
			f, t := from[s.from], to[s.to]
			path, _ := parent.AppendChild(f.Name())
			d.prim(path, f, t)
		}
	}
}

func primHead(p *ir.Prim) string {
	if tn := p.TypeName(); tn != "" {
		return p.Specifier.String() + " " + tn
	}
	return p.Specifier.String()
}

func (d *differ) prim(path spath.Path, from, to *ir.Prim) {
	if from.Specifier != to.Specifier {
		d.add(Change{Op: Replace, Path: path, Field: "specifier", From: from.Specifier.String(), To: to.Specifier.String()})
	}
	if from.TypeName() != to.TypeName() {
		d.add(Change{Op: Replace, Path: path, Field: "type", From: from.TypeName(), To: to.TypeName()})
	}
	d.metadata(path, dictEntries(from.Meta), dictEntries(to.Meta))
	d.properties(path, from, to)
	d.children(path, kids(from), kids(to))
}

func (d *differ) properties(path spath.Path, from, to *ir.Prim) {
	fromNames, toNames := from.PropertyNames(), to.PropertyNames()
	for _, s := range diffNames(fromNames, toNames) {
		switch s.op {
		case diffpatch.DiffDelete:
			name := fromNames[s.from]
			prop, _ := from.Property(name)
			ppath, _ := path.AppendProperty(name)
			d.add(Change{Op: Delete, Path: ppath, From: Property(prop)})
		case diffpatch.DiffInsert:
			name := toNames[s.to]
			prop, _ := to.Property(name)
			ppath, _ := path.AppendProperty(name)
			d.add(Change{Op: Insert, Path: ppath, To: Property(prop)})
		case diffpatch.DiffEqual:
			name := fromNames[s.from]
			fp, _ := from.Property(name)
			tp, _ := to.Property(name)
			if f, t := Property(fp), Property(tp); f != t {
				ppath, _ := path.AppendProperty(name)
				d.add(Change{Op: Replace, Path: ppath, From: f, To: t})
			}
		}
	}
}

type entry struct {
	key, text string
}

func dictEntries(dict *ir.Dict) []entry {
	var res []entry
	for k, v := range dict.All() {
		res = append(res, entry{k, v.String()})
	}
	return res
}

func stageMeta(md ir.Metadata) []entry {
	var res []entry
	if md.Doc != nil {
		res = append(res, entry{"doc", value.Quote(*md.Doc)})
	}
	if md.UpAxis != nil {
		res = append(res, entry{"upAxis", md.UpAxis.String()})
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
			res = append(res, entry{f.k, value.FormatFloat(*f.v, 64)})
		}
	}
	if md.DefaultPrim != nil {
		res = append(res, entry{"defaultPrim", *md.DefaultPrim})
	}
	return append(res, dictEntries(md.Custom)...)
}

func (d *differ) metadata(path spath.Path, from, to []entry) {
	keys := func(es []entry) []string {
		res := make([]string, len(es))
		for i, e := range es {
			res[i] = e.key
		}
		return res
	}
	for _, s := range diffNames(keys(from), keys(to)) {
		switch s.op {
		case diffpatch.DiffDelete:
			e := from[s.from]
			d.add(Change{Op: Delete, Path: path, Field: "metadata." + e.key, From: e.text})
		case diffpatch.DiffInsert:
			e := to[s.to]
			d.add(Change{Op: Insert, Path: path, Field: "metadata." + e.key, To: e.text})
		case diffpatch.DiffEqual:
			f, t := from[s.from], to[s.to]
			if f.text != t.text {
				d.add(Change{Op: Replace, Path: path, Field: "metadata." + f.key, From: f.text, To: t.text})
			}
		}
	}
}

// Property summarizes a property on one line, e.g.
// "uniform token = render" or "rel = [</A>, </B>]".
func Property(prop *ir.Property) string {
	var (
		sb     strings.Builder
		custom bool
		vary   ir.Variability
		meta   *ir.Dict
	)
	prefix := func() {
		if custom {
			sb.WriteString("custom ")
		}
		if vary == ir.Uniform {
			sb.WriteString("uniform ")
		}
	}
	if prop.IsRelationship() {
		rel, _ := prop.Relationship()
		custom, vary, meta = rel.Custom, rel.Variability, rel.Meta
		prefix()
		sb.WriteString("rel")
		switch {
		case rel.IsBlocked():
			sb.WriteString(" = None")
		case rel.NumTargets() > 0:
			sb.WriteString(" = ")
			sb.WriteString(pathList(rel.Targets()))
		}
	} else {
		attr, _ := prop.Attribute()
		custom, vary, meta = attr.Custom, attr.Variability, attr.Meta
		prefix()
		sb.WriteString(attr.TypeName())
		switch attr.Mode() {
		case ir.ModeValue:
			v, _ := attr.Value()
			sb.WriteString(" = ")
			sb.WriteString(v.String())
		case ir.ModeBlocked:
			sb.WriteString(" = None")
		case ir.ModeConnection:
			sb.WriteString(".connect = ")
			sb.WriteString(pathList(attr.Connections()))
		}
		if attr.HasTimeSamples() {
			sb.WriteString(" timeSamples = {")
			for i, ts := range attr.TimeSamples() {
				if i > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(value.FormatFloat(ts.Time, 64) + ": " + ts.Value.String())
			}
			sb.WriteString("}")
		}
	}
	if meta.Len() > 0 {
		var parts []string
		for _, e := range dictEntries(meta) {
			parts = append(parts, e.key+" = "+e.text)
		}
		fmt.Fprintf(&sb, " (%s)", strings.Join(parts, ", "))
	}
	return sb.String()
}

func pathList(ps []spath.Path) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = "<" + p.String() + ">"
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
