package crate

import (
	"fmt"

	"github.com/signadot/usd-format/go-usd/debug"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/value"
)

// SpecType is the kind of a spec, numbered as in USD.
type SpecType uint8

const (
	SpecUnknown      SpecType = 0
	SpecAttribute    SpecType = 1
	SpecPrim         SpecType = 6
	SpecPseudoRoot   SpecType = 7
	SpecRelationship SpecType = 8
)

func (t SpecType) String() string {
	switch t {
	case SpecAttribute:
		return "attribute"
	case SpecPrim:
		return "prim"
	case SpecPseudoRoot:
		return "pseudoRoot"
	case SpecRelationship:
		return "relationship"
	}
	return fmt.Sprintf("spec(%d)", uint8(t))
}

// Field value kinds.
const (
	valBuffer byte = iota
	valPaths
	valDict
	valBlock
	valTimeSamples
)

// Field names.
const (
	fieldDoc                = "documentation"
	fieldUpAxis             = "upAxis"
	fieldMetersPerUnit      = "metersPerUnit"
	fieldFramesPerSecond    = "framesPerSecond"
	fieldTimeCodesPerSecond = "timeCodesPerSecond"
	fieldStartTimeCode      = "startTimeCode"
	fieldEndTimeCode        = "endTimeCode"
	fieldDefaultPrim        = "defaultPrim"
	fieldCustomLayerData    = "customLayerData"
	fieldPrimChildren       = "primChildren"
	fieldSpecifier          = "specifier"
	fieldTypeName           = "typeName"
	fieldProperties         = "properties"
	fieldMetadata           = "metadata"
	fieldCustom             = "custom"
	fieldVariability        = "variability"
	fieldDefault            = "default"
	fieldConnectionPaths    = "connectionPaths"
	fieldTimeSamples        = "timeSamples"
	fieldTargetPaths        = "targetPaths"
)

type writer struct {
	tokens   []string
	tokenIdx map[string]uint64
	strs     []uint64
	strIdx   map[string]uint64
	paths    []uint64
	pathIdx  map[spath.Path]uint64

	fields    enc
	nFields   uint64
	fieldSets enc
	nSets     uint64
	specs     enc
	nSpecs    uint64
}

func newWriter() *writer {
	return &writer{
		tokenIdx: map[string]uint64{},
		strIdx:   map[string]uint64{},
		pathIdx:  map[spath.Path]uint64{},
	}
}

func (w *writer) token(s string) uint64 {
	if i, ok := w.tokenIdx[s]; ok {
		return i
	}
	i := uint64(len(w.tokens))
	w.tokens = append(w.tokens, s)
	w.tokenIdx[s] = i
	return i
}

func (w *writer) str(s string) uint64 {
	if i, ok := w.strIdx[s]; ok {
		return i
	}
	i := uint64(len(w.strs))
	w.strs = append(w.strs, w.token(s))
	w.strIdx[s] = i
	return i
}

func (w *writer) path(p spath.Path) uint64 {
	if i, ok := w.pathIdx[p]; ok {
		return i
	}
	i := uint64(len(w.paths))
	w.paths = append(w.paths, w.token(p.String()))
	w.pathIdx[p] = i
	return i
}

// field appends a field and returns its index.
func (w *writer) field(name string, val func(e *enc) error) (uint64, error) {
	w.fields.uv(w.token(name))
	if err := val(&w.fields); err != nil {
		return 0, fmt.Errorf("field %s: %w", name, err)
	}
	i := w.nFields
	w.nFields++
	return i, nil
}

func (w *writer) buffer(b *value.Buffer) func(*enc) error {
	return func(e *enc) error {
		if b.IsFreed() {
			return ir.ErrFreed
		}
		e.u8(valBuffer)
		e.u8(byte(b.Type()))
		isArray := b.IsArray()
		if isArray {
			e.u8(1)
			e.uv(uint64(b.Len()))
		} else {
			e.u8(0)
		}
		switch b.Type() {
		case value.TypeToken:
			toks, err := b.TokenArray()
			if !isArray {
				var tok value.Token
				tok, err = b.Token()
				toks = []value.Token{tok}
			}
			if err != nil {
				return err
			}
			for _, t := range toks {
				e.uv(w.token(t.Str()))
			}
		case value.TypeString:
			strs, err := b.StringArray()
			if !isArray {
				var s string
				s, err = b.Str()
				strs = []string{s}
			}
			if err != nil {
				return err
			}
			for _, s := range strs {
				e.uv(w.str(s))
			}
		default:
			raw, err := b.Bytes()
			if err != nil {
				return err
			}
			e.raw(raw)
		}
		return nil
	}
}

func (w *writer) pathList(ps []spath.Path) func(*enc) error {
	return func(e *enc) error {
		e.u8(valPaths)
		e.uv(uint64(len(ps)))
		for _, p := range ps {
			e.uv(w.path(p))
		}
		return nil
	}
}

func (w *writer) dict(d *ir.Dict) func(*enc) error {
	return func(e *enc) error {
		e.u8(valDict)
		e.uv(uint64(d.Len()))
		for k, v := range d.All() {
			e.uv(w.token(k))
			if err := w.buffer(v)(e); err != nil {
				return fmt.Errorf("%s: %w", k, err)
			}
		}
		return nil
	}
}

// samples writes each time followed by a buffer or a block.
func (w *writer) samples(ss []ir.TimeSample) func(*enc) error {
	return func(e *enc) error {
		e.u8(valTimeSamples)
		e.uv(uint64(len(ss)))
		for _, s := range ss {
			e.f64(s.Time)
			if s.IsBlocked() {
				e.u8(valBlock)
				continue
			}
			if err := w.buffer(s.Value)(e); err != nil {
				return fmt.Errorf("time %v: %w", s.Time, err)
			}
		}
		return nil
	}
}

func block(e *enc) error {
	e.u8(valBlock)
	return nil
}

func tokenBuf(s string) *value.Buffer { return value.NewFromToken(value.NewToken(s)) }

func tokensBuf(ss []string) *value.Buffer {
	toks := make([]value.Token, len(ss))
	for i, s := range ss {
		toks[i] = value.NewToken(s)
	}
	return value.NewTokenArray(toks)
}

// fieldList collects the fields of one spec.
type fieldList struct {
	w   *writer
	idx []uint64
	err error
}

func (l *fieldList) add(name string, val func(*enc) error) {
	if l.err != nil {
		return
	}
	i, err := l.w.field(name, val)
	if err != nil {
		l.err = err
		return
	}
	l.idx = append(l.idx, i)
}

func (w *writer) spec(p spath.Path, t SpecType, l *fieldList) error {
	if l.err != nil {
		return fmt.Errorf("%s: %w", p, l.err)
	}
	w.fieldSets.uvs(l.idx)
	set := w.nSets
	w.nSets++
	w.specs.uv(w.path(p))
	w.specs.uv(set)
	w.specs.u8(byte(t))
	w.nSpecs++
	return nil
}

// Encode serializes st as a crate file.
func Encode(st *ir.Stage) ([]byte, error) {
	if st.IsFreed() {
		return nil, ir.ErrFreed
	}
	w := newWriter()
	if err := w.stage(st); err != nil {
		return nil, err
	}
	return w.bytes()
}

// bytes lays out the header, the sections and the table of contents.
func (w *writer) bytes() ([]byte, error) {
	sections := []struct {
		name string
		data []byte
	}{
		{SectionTokens, w.tokenSection()},
		{SectionStrings, countPrefixed(uint64(len(w.strs)), w.strs)},
		{SectionFields, prefixed(w.nFields, w.fields.b)},
		{SectionFieldSets, prefixed(w.nSets, w.fieldSets.b)},
		{SectionPaths, countPrefixed(uint64(len(w.paths)), w.paths)},
		{SectionSpecs, prefixed(w.nSpecs, w.specs.b)},
	}
	bs := &Bootstrap{Version: Version}
	out := bs.Append(nil)
	toc := make(TOC, 0, len(sections))
	for _, s := range sections {
		p, err := packPayload(s.data)
		if err != nil {
			return nil, fmt.Errorf("section %s: %w", s.name, err)
		}
		toc = append(toc, Section{Name: s.name, Start: int64(len(out)), Size: int64(len(p))})
		out = append(out, p...)
		if debug.Crate() {
			debug.Logf("crate: wrote %s %d bytes (%d raw)", s.name, len(p), len(s.data))
		}
	}
	bs.TOCOffset = int64(len(out))
	out = toc.Append(out)
	copy(out, bs.Append(nil))
	return out, nil
}

func (w *writer) tokenSection() []byte {
	e := &enc{}
	e.uv(uint64(len(w.tokens)))
	for _, t := range w.tokens {
		e.str(t)
	}
	return e.b
}

func countPrefixed(n uint64, vs []uint64) []byte {
	e := &enc{}
	e.uv(n)
	for _, v := range vs {
		e.uv(v)
	}
	return e.b
}

func prefixed(n uint64, body []byte) []byte {
	e := &enc{}
	e.uv(n)
	e.raw(body)
	return e.b
}

func (w *writer) stage(st *ir.Stage) error {
	md := st.Metadata()
	l := &fieldList{w: w}
	if md.Doc != nil {
		l.add(fieldDoc, w.buffer(value.NewFromString(*md.Doc)))
	}
	if md.UpAxis != nil {
		l.add(fieldUpAxis, w.buffer(tokenBuf(md.UpAxis.String())))
	}
	for _, f := range []struct {
		name string
		v    *float64
	}{
		{fieldMetersPerUnit, md.MetersPerUnit},
		{fieldFramesPerSecond, md.FramesPerSecond},
		{fieldTimeCodesPerSecond, md.TimeCodesPerSecond},
		{fieldStartTimeCode, md.StartTimeCode},
		{fieldEndTimeCode, md.EndTimeCode},
	} {
		if f.v != nil {
			l.add(f.name, w.buffer(value.NewDouble(*f.v)))
		}
	}
	if md.DefaultPrim != nil {
		l.add(fieldDefaultPrim, w.buffer(tokenBuf(*md.DefaultPrim)))
	}
	if md.Custom.Len() > 0 {
		l.add(fieldCustomLayerData, w.dict(md.Custom))
	}
	var names []string
	for p := range st.RootPrims() {
		names = append(names, p.Name())
	}
	l.add(fieldPrimChildren, w.buffer(tokensBuf(names)))
	if err := w.spec(spath.Root(), SpecPseudoRoot, l); err != nil {
		return err
	}
	for p := range st.RootPrims() {
		if err := w.prim(p, spath.Root()); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) prim(p *ir.Prim, parent spath.Path) error {
	path, err := parent.AppendChild(p.Name())
	if err != nil {
		return err
	}
	l := &fieldList{w: w}
	l.add(fieldSpecifier, w.buffer(tokenBuf(p.Specifier.String())))
	if tn := p.TypeName(); tn != "" {
		l.add(fieldTypeName, w.buffer(tokenBuf(tn)))
	}
	if p.Meta.Len() > 0 {
		l.add(fieldMetadata, w.dict(p.Meta))
	}
	l.add(fieldProperties, w.buffer(tokensBuf(p.PropertyNames())))
	var names []string
	for c := range p.Children() {
		names = append(names, c.Name())
	}
	l.add(fieldPrimChildren, w.buffer(tokensBuf(names)))
	if err := w.spec(path, SpecPrim, l); err != nil {
		return err
	}
	for name, prop := range p.Properties() {
		ppath, err := path.AppendProperty(name)
		if err != nil {
			return err
		}
		if err := w.property(ppath, prop); err != nil {
			return err
		}
	}
	for c := range p.Children() {
		if err := w.prim(c, path); err != nil {
			return err
		}
	}
	return nil
}

func (w *writer) property(path spath.Path, prop *ir.Property) error {
	l := &fieldList{w: w}
	if prop.IsRelationship() {
		rel, _ := prop.Relationship()
		w.common(l, rel.Custom, rel.Variability, rel.Meta)
		if rel.IsBlocked() {
			l.add(fieldTargetPaths, block)
		} else {
			l.add(fieldTargetPaths, w.pathList(rel.Targets()))
		}
		return w.spec(path, SpecRelationship, l)
	}
	attr, _ := prop.Attribute()
	tn := attr.TypeName()
	if tn == "" {
		return fmt.Errorf("%s: attribute has no type", path)
	}
	l.add(fieldTypeName, w.buffer(tokenBuf(tn)))
	w.common(l, attr.Custom, attr.Variability, attr.Meta)
	switch attr.Mode() {
	case ir.ModeValue:
		v, err := attr.Value()
		if err != nil {
			return err
		}
		l.add(fieldDefault, w.buffer(v))
	case ir.ModeBlocked:
		l.add(fieldDefault, block)
	case ir.ModeConnection:
		l.add(fieldConnectionPaths, w.pathList(attr.Connections()))
	}
	if attr.HasTimeSamples() {
		l.add(fieldTimeSamples, w.samples(attr.TimeSamples()))
	}
	return w.spec(path, SpecAttribute, l)
}

func (w *writer) common(l *fieldList, custom bool, v ir.Variability, meta *ir.Dict) {
	if custom {
		l.add(fieldCustom, w.buffer(value.NewBool(true)))
	}
	if v == ir.Uniform {
		l.add(fieldVariability, w.buffer(tokenBuf(v.String())))
	}
	if meta.Len() > 0 {
		l.add(fieldMetadata, w.dict(meta))
	}
}
