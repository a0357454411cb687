package crate

import (
	"fmt"

	"github.com/signadot/usd-format/go-usd/debug"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/value"
)

// fieldValue is a decoded field value.
type fieldValue struct {
	kind    byte
	buf     *value.Buffer
	paths   []spath.Path
	dict    *ir.Dict
	samples []ir.TimeSample
}

type field struct {
	name string
	val  fieldValue
}

type spec struct {
	path   spath.Path
	fields []int
	typ    SpecType
	used   bool
}

type reader struct {
	lenient  bool
	warnings []string

	tokens    []string
	strs      []string
	paths     []spath.Path
	fields    []field
	fieldSets [][]int
	specs     map[spath.Path]*spec
	order     []*spec
}

// problem records a recoverable defect: a warning when lenient, an error
// otherwise.
func (r *reader) problem(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if r.lenient {
		r.warnings = append(r.warnings, msg)
		if debug.Crate() {
			debug.Logf("crate: warning: %s", msg)
		}
		return nil
	}
	return fmt.Errorf("%w: %s", ErrParse, msg)
}

// Decode reads a crate file. With lenient set, unknown fields, unreachable
// specs and bad entries are skipped with a warning instead of failing.
// Malformed input never panics; it fails with an error wrapping ErrParse.
func Decode(data []byte, lenient bool) (*ir.Stage, []string, error) {
	bs, err := ReadBootstrap(data)
	if err != nil {
		return nil, nil, err
	}
	toc, err := ReadTOC(data, bs.TOCOffset)
	if err != nil {
		return nil, nil, err
	}
	if debug.Crate() {
		debug.Logf("crate: version %s, %d sections", bs.VersionString(), len(toc))
		debug.LogAny(toc)
	}
	r := &reader{lenient: lenient, specs: map[spath.Path]*spec{}}
	steps := []struct {
		name string
		read func(*dec)
	}{
		{SectionTokens, r.readTokens},
		{SectionStrings, r.readStrings},
		{SectionPaths, r.readPaths},
		{SectionFields, r.readFields},
		{SectionFieldSets, r.readFieldSets},
		{SectionSpecs, r.readSpecs},
	}
	for _, step := range steps {
		s, ok := toc.Find(step.name)
		if !ok {
			return nil, nil, fmt.Errorf("%w: missing %s", ErrSection, step.name)
		}
		d, err := unpackPayload(step.name, data[s.Start:s.Start+s.Size])
		if err != nil {
			return nil, nil, err
		}
		step.read(d)
		if err := d.done(); err != nil {
			return nil, nil, err
		}
	}
	st, err := r.stage()
	if err != nil {
		return nil, nil, err
	}
	return st, r.warnings, nil
}

func (r *reader) readTokens(d *dec) {
	n := d.count(1)
	r.tokens = make([]string, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		r.tokens = append(r.tokens, d.str())
	}
}

func (r *reader) readStrings(d *dec) {
	n := d.count(1)
	r.strs = make([]string, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		r.strs = append(r.strs, at(d, r.tokens, "token"))
	}
}

func (r *reader) readPaths(d *dec) {
	n := d.count(1)
	r.paths = make([]spath.Path, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		text := at(d, r.tokens, "token")
		if d.err != nil {
			return
		}
		p, err := spath.Parse(text)
		if err != nil {
			d.fail("path %d: %v", i, err)
			return
		}
		r.paths = append(r.paths, p)
	}
}

func (r *reader) readFields(d *dec) {
	n := d.count(2)
	r.fields = make([]field, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		name := at(d, r.tokens, "token")
		r.fields = append(r.fields, field{name: name, val: r.value(d, true)})
	}
}

func (r *reader) value(d *dec, dictOK bool) fieldValue {
	kind := d.u8()
	if d.err != nil {
		return fieldValue{}
	}
	switch kind {
	case valBuffer:
		return fieldValue{kind: kind, buf: r.buffer(d)}
	case valPaths:
		n := d.count(1)
		ps := make([]spath.Path, 0, n)
		for i := 0; i < n && d.err == nil; i++ {
			ps = append(ps, at(d, r.paths, "path"))
		}
		return fieldValue{kind: kind, paths: ps}
	case valDict:
		if !dictOK {
			d.fail("nested dictionary")
			return fieldValue{}
		}
		n := d.count(3)
		dict := ir.NewDict()
		for i := 0; i < n && d.err == nil; i++ {
			key := at(d, r.tokens, "token")
			v := r.value(d, false)
			if d.err != nil {
				break
			}
			if v.kind != valBuffer {
				d.fail("dictionary entry %q is not a value", key)
				break
			}
			dict.Set(key, v.buf)
		}
		return fieldValue{kind: kind, dict: dict}
	case valBlock:
		return fieldValue{kind: kind}
	case valTimeSamples:
		if !dictOK {
			d.fail("nested time samples")
			return fieldValue{}
		}
		n := d.count(9)
		ss := make([]ir.TimeSample, 0, n)
		for i := 0; i < n && d.err == nil; i++ {
			t := d.f64()
			v := r.value(d, false)
			switch {
			case d.err != nil:
			case v.kind == valBlock:
				ss = append(ss, ir.TimeSample{Time: t})
			case v.kind == valBuffer:
				ss = append(ss, ir.TimeSample{Time: t, Value: v.buf})
			default:
				d.fail("time sample %v is not a value", t)
			}
		}
		return fieldValue{kind: kind, samples: ss}
	}
	d.fail("unknown value kind %d", kind)
	return fieldValue{}
}

func (r *reader) buffer(d *dec) *value.Buffer {
	t := value.ValueType(d.u8())
	flag := d.u8()
	if d.err != nil {
		return nil
	}
	if flag > 1 {
		d.fail("bad array flag %d", flag)
		return nil
	}
	isArray := flag == 1
	switch t {
	case value.TypeToken:
		toks := make([]value.Token, 0)
		for i, n := 0, r.elems(d, isArray, 1); i < n && d.err == nil; i++ {
			toks = append(toks, value.NewToken(at(d, r.tokens, "token")))
		}
		if d.err != nil {
			return nil
		}
		if isArray {
			return value.NewTokenArray(toks)
		}
		return value.NewFromToken(toks[0])
	case value.TypeString:
		strs := make([]string, 0)
		for i, n := 0, r.elems(d, isArray, 1); i < n && d.err == nil; i++ {
			strs = append(strs, at(d, r.strs, "string"))
		}
		if d.err != nil {
			return nil
		}
		if isArray {
			return value.NewStringArray(strs)
		}
		return value.NewFromString(strs[0])
	}
	size := value.ElementSize(t)
	if size == 0 {
		d.fail("unknown value type %d", uint8(t))
		return nil
	}
	n := r.elems(d, isArray, size)
	raw := d.raw(n * size)
	if d.err != nil {
		return nil
	}
	ndim := 0
	if isArray {
		ndim = 1
	}
	b, err := value.NewFromBytes(t, ndim, n, raw)
	if err != nil {
		d.fail("%v", err)
		return nil
	}
	return b
}

func (r *reader) elems(d *dec, isArray bool, size int) int {
	if !isArray {
		return 1
	}
	return d.count(size)
}

func (r *reader) readFieldSets(d *dec) {
	n := d.count(1)
	r.fieldSets = make([][]int, 0, n)
	for i := 0; i < n && d.err == nil; i++ {
		m := d.count(1)
		set := make([]int, 0, m)
		for j := 0; j < m && d.err == nil; j++ {
			set = append(set, d.index(len(r.fields), "field"))
		}
		r.fieldSets = append(r.fieldSets, set)
	}
}

func (r *reader) readSpecs(d *dec) {
	n := d.count(3)
	for i := 0; i < n && d.err == nil; i++ {
		p := at(d, r.paths, "path")
		set := at(d, r.fieldSets, "field set")
		t := SpecType(d.u8())
		if d.err != nil {
			return
		}
		if _, dup := r.specs[p]; dup {
			d.fail("duplicate spec for %s", p)
			return
		}
		s := &spec{path: p, fields: set, typ: t}
		r.specs[p] = s
		r.order = append(r.order, s)
	}
}

// lookup returns the spec at p, which must have type t.
func (r *reader) lookup(p spath.Path, t SpecType) (*spec, error) {
	s, ok := r.specs[p]
	if !ok {
		return nil, fmt.Errorf("%w: no spec for %s", ErrParse, p)
	}
	if s.typ != t {
		return nil, fmt.Errorf("%w: spec %s is a %s, want %s", ErrParse, p, s.typ, t)
	}
	s.used = true
	return s, nil
}

// each calls f for every field of s. Fields f does not know are reported
// as problems.
func (r *reader) each(s *spec, f func(name string, v fieldValue) (bool, error)) error {
	for _, i := range s.fields {
		fd := r.fields[i]
		known, err := f(fd.name, fd.val)
		if err != nil {
			if perr := r.problem("%s: field %s: %v", s.path, fd.name, err); perr != nil {
				return perr
			}
			continue
		}
		if !known {
			if err := r.problem("%s: unknown field %s", s.path, fd.name); err != nil {
				return err
			}
		}
	}
	return nil
}

func (v fieldValue) token() (string, error) {
	if v.kind != valBuffer {
		return "", fmt.Errorf("not a token")
	}
	tok, err := v.buf.Token()
	return tok.Str(), err
}

func (v fieldValue) tokens() ([]string, error) {
	if v.kind != valBuffer {
		return nil, fmt.Errorf("not a token array")
	}
	toks, err := v.buf.TokenArray()
	if err != nil {
		return nil, err
	}
	res := make([]string, len(toks))
	for i, t := range toks {
		res[i] = t.Str()
	}
	return res, nil
}

func (v fieldValue) double() (*float64, error) {
	if v.kind != valBuffer {
		return nil, fmt.Errorf("not a number")
	}
	f, err := v.buf.Float64s()
	if err != nil {
		return nil, err
	}
	if len(f) != 1 || v.buf.IsArray() {
		return nil, fmt.Errorf("not a single number")
	}
	return &f[0], nil
}

func (v fieldValue) boolean() (bool, error) {
	if v.kind != valBuffer {
		return false, fmt.Errorf("not a bool")
	}
	return v.buf.Bool()
}

func (v fieldValue) dictionary() (*ir.Dict, error) {
	if v.kind != valDict {
		return nil, fmt.Errorf("not a dictionary")
	}
	// Field sets may share fields; every owner gets its own copy.
	return v.dict.Clone(), nil
}

func (r *reader) stage() (*ir.Stage, error) {
	root, err := r.lookup(spath.Root(), SpecPseudoRoot)
	if err != nil {
		return nil, err
	}
	var (
		md       ir.Metadata
		children []string
	)
	err = r.each(root, func(name string, v fieldValue) (bool, error) {
		var err error
		switch name {
		case fieldDoc:
			if v.kind != valBuffer {
				return true, fmt.Errorf("not a string")
			}
			var s string
			if s, err = v.buf.Str(); err == nil {
				md.Doc = &s
			}
		case fieldUpAxis:
			var s string
			if s, err = v.token(); err == nil {
				var a ir.Axis
				if a, err = ir.ParseAxis(s); err == nil {
					md.UpAxis = &a
				}
			}
		case fieldMetersPerUnit:
			md.MetersPerUnit, err = v.double()
		case fieldFramesPerSecond:
			md.FramesPerSecond, err = v.double()
		case fieldTimeCodesPerSecond:
			md.TimeCodesPerSecond, err = v.double()
		case fieldStartTimeCode:
			md.StartTimeCode, err = v.double()
		case fieldEndTimeCode:
			md.EndTimeCode, err = v.double()
		case fieldDefaultPrim:
			var s string
			if s, err = v.token(); err == nil {
				md.DefaultPrim = &s
			}
		case fieldCustomLayerData:
			md.Custom, err = v.dictionary()
		case fieldPrimChildren:
			children, err = v.tokens()
		default:
			return false, nil
		}
		return true, err
	})
	if err != nil {
		return nil, err
	}
	st := ir.NewStage()
	st.SetMetadata(md)
	err = r.children(spath.Root(), children, st.AppendRootPrim)
	if err != nil {
		return nil, err
	}
	for _, s := range r.order {
		if s.used {
			continue
		}
		if err := r.problem("unreachable %s spec %s", s.typ, s.path); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func (r *reader) children(parent spath.Path, names []string, add func(*ir.Prim) error) error {
	for _, name := range names {
		path, err := parent.AppendChild(name)
		if err != nil {
			if err := r.problem("%s: child %q: %v", parent, name, err); err != nil {
				return err
			}
			continue
		}
		if s, ok := r.specs[path]; ok && s.used {
			if err := r.problem("%s: child %q listed twice", parent, name); err != nil {
				return err
			}
			continue
		}
		p, err := r.prim(path)
		if err != nil {
			return err
		}
		if err := add(p); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
		}
	}
	return nil
}

func (r *reader) prim(path spath.Path) (*ir.Prim, error) {
	s, err := r.lookup(path, SpecPrim)
	if err != nil {
		return nil, err
	}
	var (
		specifier = ir.SpecifierDef
		typeName  string
		meta      *ir.Dict
		props     []string
		children  []string
	)
	err = r.each(s, func(name string, v fieldValue) (bool, error) {
		var err error
		switch name {
		case fieldSpecifier:
			var tok string
			if tok, err = v.token(); err == nil {
				specifier, err = ir.ParseSpecifier(tok)
			}
		case fieldTypeName:
			typeName, err = v.token()
		case fieldMetadata:
			meta, err = v.dictionary()
		case fieldProperties:
			props, err = v.tokens()
		case fieldPrimChildren:
			children, err = v.tokens()
		default:
			return false, nil
		}
		return true, err
	})
	if err != nil {
		return nil, err
	}
	p, err := ir.NewCustomPrim(path.Name(), typeName)
	if err != nil {
		if perr := r.problem("%s: %v", path, err); perr != nil {
			return nil, perr
		}
		p, err = ir.NewCustomPrim(path.Name(), "")
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
		}
	}
	p.Specifier = specifier
	if meta != nil {
		p.Meta = meta
	}
	if debug.Crate() {
		debug.Logf("crate: prim %s %s", path, typeName)
	}
	for _, name := range props {
		if err := r.property(p, path, name); err != nil {
			return nil, err
		}
	}
	if err := r.children(path, children, p.AppendChild); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *reader) property(p *ir.Prim, primPath spath.Path, name string) error {
	path, err := primPath.AppendProperty(name)
	if err != nil {
		return r.problem("%s: property %q: %v", primPath, name, err)
	}
	s, ok := r.specs[path]
	if !ok {
		return r.problem("%s: no spec for property", path)
	}
	var prop *ir.Property
	switch s.typ {
	case SpecAttribute:
		prop, err = r.attribute(s)
	case SpecRelationship:
		prop, err = r.relationship(s)
	default:
		return r.problem("%s: %s spec listed as a property", path, s.typ)
	}
	if err != nil {
		return err
	}
	s.used = true
	if prop == nil {
		return nil
	}
	if err := p.AddProperty(name, prop); err != nil {
		return r.problem("%s: %v", path, err)
	}
	return nil
}

type propCommon struct {
	custom bool
	vary   ir.Variability
	meta   *ir.Dict
}

func (c *propCommon) field(name string, v fieldValue) (bool, error) {
	var err error
	switch name {
	case fieldCustom:
		c.custom, err = v.boolean()
	case fieldVariability:
		var tok string
		if tok, err = v.token(); err == nil {
			switch tok {
			case "uniform":
				c.vary = ir.Uniform
			case "varying":
				c.vary = ir.Varying
			default:
				err = fmt.Errorf("unknown variability %q", tok)
			}
		}
	case fieldMetadata:
		c.meta, err = v.dictionary()
	default:
		return false, nil
	}
	return true, err
}

// attribute returns nil for an attribute that was skipped with a warning.
func (r *reader) attribute(s *spec) (*ir.Property, error) {
	var (
		c        propCommon
		typeName string
		def      *fieldValue
		conns    []spath.Path
		samples  []ir.TimeSample
	)
	err := r.each(s, func(name string, v fieldValue) (bool, error) {
		switch name {
		case fieldTypeName:
			var err error
			typeName, err = v.token()
			return true, err
		case fieldDefault:
			if v.kind != valBuffer && v.kind != valBlock {
				return true, fmt.Errorf("not a value")
			}
			def = &v
			return true, nil
		case fieldConnectionPaths:
			if v.kind != valPaths {
				return true, fmt.Errorf("not a path list")
			}
			conns = v.paths
			return true, nil
		case fieldTimeSamples:
			if v.kind != valTimeSamples {
				return true, fmt.Errorf("not time samples")
			}
			samples = v.samples
			return true, nil
		}
		return c.field(name, v)
	})
	if err != nil {
		return nil, err
	}
	attr, err := ir.NewTypedAttribute(typeName)
	if err != nil {
		return nil, r.problem("%s: %v", s.path, err)
	}
	attr.Custom, attr.Variability = c.custom, c.vary
	if c.meta != nil {
		attr.Meta = c.meta
	}
	switch {
	case len(conns) > 0:
		err = attr.SetConnections(conns)
	case def != nil && def.kind == valBlock:
		err = attr.Block()
	case def != nil:
		err = attr.SetValue(def.buf.Clone())
	}
	for _, ts := range samples {
		if err != nil {
			break
		}
		v := ts.Value
		if v != nil {
			// Field sets may share fields.
			v = v.Clone()
		}
		err = attr.SetTimeSample(ts.Time, v)
	}
	if err != nil {
		return nil, r.problem("%s: %v", s.path, err)
	}
	return ir.NewAttributeProperty(attr), nil
}

func (r *reader) relationship(s *spec) (*ir.Property, error) {
	var (
		c   propCommon
		rel = ir.NewRelationship()
	)
	err := r.each(s, func(name string, v fieldValue) (bool, error) {
		if name != fieldTargetPaths {
			return c.field(name, v)
		}
		switch v.kind {
		case valPaths:
			rel.SetTargets(v.paths...)
		case valBlock:
			rel.Block()
		default:
			return true, fmt.Errorf("not a path list")
		}
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	rel.Custom, rel.Variability = c.custom, c.vary
	if c.meta != nil {
		rel.Meta = c.meta
	}
	return ir.NewRelationshipProperty(rel), nil
}
