package parse

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/signadot/usd-format/go-usd/debug"
	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/token"
	"github.com/signadot/usd-format/go-usd/value"
)

// Parse parses a USDA text layer into a stage.
func Parse(d []byte, opts ...ParseOption) (*ir.Stage, error) {
	pOpts := &parseOpts{}
	for _, f := range opts {
		f(pOpts)
	}
	posDoc := token.NewPosDoc(d)
	if err := checkHeader(d, posDoc, pOpts); err != nil {
		return nil, err
	}
	toks, err := token.Tokenize(nil, d, pOpts.TokenizeOpts()...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if debug.Tokens() {
		token.PrintTokens(os.Stderr, toks, "usda")
	}
	p := &parser{
		toks: dropComments(toks),
		end:  posDoc.Pos(len(d)),
		opts: pOpts,
	}
	return p.stage()
}

func dropComments(toks []token.Token) []token.Token {
	res := toks[:0]
	for i := range toks {
		if toks[i].Type.IsComment() {
			continue
		}
		res = append(res, toks[i])
	}
	return res
}

var bom = []byte{0xEF, 0xBB, 0xBF}

// checkHeader validates the leading "#usda 1.0" line, which the tokenizer
// sees as a comment.
func checkHeader(d []byte, posDoc *token.PosDoc, o *parseOpts) error {
	off := 0
	if bytes.HasPrefix(d, bom) {
		off = len(bom)
	}
	for off < len(d) && strings.IndexByte(" \t\r\n", d[off]) >= 0 {
		off++
	}
	pos := posDoc.Pos(off)
	line := d[off:]
	if i := bytes.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}
	rest, ok := bytes.CutPrefix(line, []byte(format.TextDirective))
	fields := strings.Fields(string(rest))
	if !ok || len(fields) == 0 || (rest[0] != ' ' && rest[0] != '\t') {
		if o.lenient {
			o.warnf(pos, "missing %s header", format.TextDirective)
			return nil
		}
		return token.NewTokenizeErr(ErrHeader, pos)
	}
	major, _, _ := strings.Cut(fields[0], ".")
	if major != "1" {
		if o.lenient {
			o.warnf(pos, "usda version %s may not be supported", fields[0])
			return nil
		}
		return token.NewTokenizeErr(fmt.Errorf("%w: %s", ErrVersion, fields[0]), pos)
	}
	return nil
}

type parser struct {
	toks []token.Token
	i    int
	end  *token.Pos
	opts *parseOpts
}

func (p *parser) peek() *token.Token {
	if p.i >= len(p.toks) {
		return nil
	}
	return &p.toks[p.i]
}

func (p *parser) next() *token.Token {
	t := p.peek()
	if t != nil {
		p.i++
	}
	return t
}

func (p *parser) pos() *token.Pos {
	if t := p.peek(); t != nil {
		return t.Pos
	}
	return p.end
}

func (p *parser) peekIs(tt token.TokenType) bool {
	t := p.peek()
	return t != nil && t.Type == tt
}

func (p *parser) accept(tt token.TokenType) *token.Token {
	if p.peekIs(tt) {
		return p.next()
	}
	return nil
}

func (p *parser) acceptKw(kw string) bool {
	if t := p.peek(); t != nil && t.Is(kw) {
		p.i++
		return true
	}
	return false
}

func (p *parser) expect(tt token.TokenType, what string) (*token.Token, error) {
	if !p.peekIs(tt) {
		return nil, p.errExpected(what)
	}
	return p.next(), nil
}

func (p *parser) errExpected(what string) error {
	if t := p.peek(); t != nil {
		what += ", got " + strconv.Quote(string(t.Bytes))
	} else {
		what += ", got end of document"
	}
	return fmt.Errorf("%w: %w", ErrParse, token.ExpectedErr(what, p.pos()))
}

// fail attaches pos to err and makes sure the result is an ErrParse.
func (p *parser) fail(pos *token.Pos, err error) error {
	if errors.Is(err, ErrParse) {
		return token.NewTokenizeErr(err, pos)
	}
	return fmt.Errorf("%w: %w", ErrParse, token.NewTokenizeErr(err, pos))
}

// unsupported reports a construct this package does not model. It is a
// warning when lenient and an error otherwise.
func (p *parser) unsupported(pos *token.Pos, what string) error {
	if p.opts.lenient {
		p.opts.warnf(pos, "skipped %s", what)
		return nil
	}
	return p.fail(pos, fmt.Errorf("%w: %s", ErrUnsupported, what))
}

// skipValue consumes one value: a single token, a bracketed group, or an
// asset path followed by a prim path as in references.
func (p *parser) skipValue() {
	t := p.next()
	if t == nil {
		return
	}
	switch t.Type {
	case token.TLParen, token.TLSquare, token.TLCurl:
		depth := 1
		for depth > 0 {
			t = p.next()
			if t == nil {
				return
			}
			switch t.Type {
			case token.TLParen, token.TLSquare, token.TLCurl:
				depth++
			case token.TRParen, token.TRSquare, token.TRCurl:
				depth--
			}
		}
	case token.TAsset:
		p.accept(token.TPath)
	}
}

func (p *parser) stage() (*ir.Stage, error) {
	st := ir.NewStage()
	if p.peekIs(token.TLParen) {
		md := ir.Metadata{}
		if err := p.layerMeta(&md); err != nil {
			return nil, err
		}
		st.SetMetadata(md)
	}
	for p.peek() != nil {
		if p.accept(token.TSemi) != nil {
			continue
		}
		pos := p.pos()
		prim, err := p.prim(spath.Root())
		if err != nil {
			st.Free()
			return nil, err
		}
		if err := st.AppendRootPrim(prim); err != nil {
			_ = prim.Free()
			if p.opts.lenient && errors.Is(err, ir.ErrDuplicatePrim) {
				p.opts.warnf(pos, "dropped duplicate root prim %q", prim.Name())
				continue
			}
			st.Free()
			return nil, p.fail(pos, err)
		}
	}
	return st, nil
}

func (p *parser) layerMeta(md *ir.Metadata) error {
	return p.metaBlock(func(key string, pos *token.Pos, v *value.Buffer) error {
		var err error
		switch key {
		case "doc":
			var s string
			if s, err = textOf(v); err == nil {
				md.Doc = &s
			}
		case "upAxis":
			var s string
			if s, err = textOf(v); err == nil {
				var ax ir.Axis
				if ax, err = ir.ParseAxis(s); err == nil {
					md.UpAxis = &ax
				}
			}
		case "metersPerUnit":
			md.MetersPerUnit, err = numberOf(v)
		case "framesPerSecond":
			md.FramesPerSecond, err = numberOf(v)
		case "timeCodesPerSecond":
			md.TimeCodesPerSecond, err = numberOf(v)
		case "startTimeCode":
			md.StartTimeCode, err = numberOf(v)
		case "endTimeCode":
			md.EndTimeCode, err = numberOf(v)
		case "defaultPrim":
			var s string
			if s, err = textOf(v); err == nil {
				md.DefaultPrim = &s
			}
		default:
			if md.Custom == nil {
				md.Custom = ir.NewDict()
			}
			md.Custom.Set(key, v)
			return nil
		}
		if err != nil {
			if p.opts.lenient {
				p.opts.warnf(pos, "ignored stage metadata %s: %v", key, err)
				return nil
			}
			return p.fail(pos, fmt.Errorf("stage metadata %s: %w", key, err))
		}
		return nil
	})
}

func textOf(v *value.Buffer) (string, error) {
	if !v.IsArray() {
		switch v.Type() {
		case value.TypeString:
			return v.Str()
		case value.TypeToken:
			t, err := v.Token()
			return t.Str(), err
		}
	}
	return "", fmt.Errorf("%w: want text, got %s", ir.ErrTypeMismatch, v.TypeName())
}

func numberOf(v *value.Buffer) (*float64, error) {
	if v.IsArray() || v.Type() == value.TypeBool || value.Components(v.Type()) != 1 {
		return nil, fmt.Errorf("%w: want a number, got %s", ir.ErrTypeMismatch, v.TypeName())
	}
	fs, err := v.Float64s()
	if err != nil {
		return nil, err
	}
	return &fs[0], nil
}

func isListOp(s string) bool {
	switch s {
	case "prepend", "append", "add", "delete", "reorder":
		return true
	}
	return false
}

// metaBlock parses a parenthesized metadata block and hands each entry to
// set. A bare string is the "doc" entry. List edits keep their operation
// in the key, as in "prepend apiSchemas".
func (p *parser) metaBlock(set func(key string, pos *token.Pos, v *value.Buffer) error) error {
	if _, err := p.expect(token.TLParen, "("); err != nil {
		return err
	}
	for {
		t := p.peek()
		if t == nil {
			return p.errExpected(")")
		}
		switch t.Type {
		case token.TRParen:
			p.i++
			return nil
		case token.TSemi:
			p.i++
			continue
		case token.TString:
			p.i++
			if err := set("doc", t.Pos, value.NewFromString(t.String())); err != nil {
				return err
			}
			continue
		case token.TIdent:
		default:
			return p.errExpected("metadata key")
		}
		p.i++
		key := t.String()
		var typed *value.Buffer
		switch {
		case isListOp(key):
			kt, err := p.expect(token.TIdent, "metadata key")
			if err != nil {
				return err
			}
			key += " " + kt.String()
		case p.typedMetaKey():
			var err error
			if key, typed, err = p.typedMeta(t); err != nil {
				return err
			}
		}
		if typed == nil {
			if _, err := p.expect(token.TEquals, "="); err != nil {
				return err
			}
			vpos := p.pos()
			v, err := p.metaValue()
			if err != nil {
				return err
			}
			if v == nil {
				if err := p.unsupported(vpos, "metadata "+key); err != nil {
					return err
				}
				continue
			}
			typed = v
		}
		if err := set(key, t.Pos, typed); err != nil {
			return err
		}
	}
}

// metaValue parses a metadata value whose type is implied by its
// literal. It returns a nil buffer, having consumed the value, for values
// a Buffer cannot hold: paths, asset references, dictionaries and None.
func (p *parser) metaValue() (*value.Buffer, error) {
	t := p.peek()
	if t == nil {
		return nil, p.errExpected("value")
	}
	switch t.Type {
	case token.TString:
		p.i++
		return value.NewFromString(t.String()), nil
	case token.TInteger:
		p.i++
		n, err := strconv.ParseInt(string(t.Bytes), 10, 64)
		if err != nil {
			return nil, p.fail(t.Pos, fmt.Errorf("%w: %w", token.ErrNumber, err))
		}
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return value.NewInt(int32(n)), nil
		}
		return value.NewInt64(n), nil
	case token.TFloat:
		p.i++
		f, err := parseFloat(t)
		if err != nil {
			return nil, p.fail(t.Pos, err)
		}
		return value.NewDouble(f), nil
	case token.TIdent:
		switch string(t.Bytes) {
		case "true", "false":
			p.i++
			return value.NewBool(t.Is("true")), nil
		case "inf", "nan":
			p.i++
			f, _ := parseFloat(t)
			return value.NewDouble(f), nil
		case "None":
			p.i++
			return nil, nil
		}
		p.i++
		return value.NewFromToken(value.NewToken(t.String())), nil
	case token.TLSquare:
		return p.metaList()
	case token.TLParen:
		return p.metaTuple()
	}
	p.skipValue()
	return nil, nil
}

// typedMetaKey reports whether the identifier just consumed is the type
// name of a typed entry such as `double scale = 1` or `token[] kinds = []`.
func (p *parser) typedMetaKey() bool {
	t := p.peek()
	if t == nil {
		return false
	}
	if t.Type == token.TIdent {
		return true
	}
	if t.Type != token.TLSquare || p.i+2 >= len(p.toks) {
		return false
	}
	return p.toks[p.i+1].Type == token.TRSquare && p.toks[p.i+2].Type == token.TIdent
}

// typedMeta parses the remainder of a typed entry whose type name is tt.
// A list edit keeps its operator after the type: `token[] prepend
// apiSchemas = ["A"]`.
func (p *parser) typedMeta(tt *token.Token) (string, *value.Buffer, error) {
	name := tt.String()
	if p.peek().Type == token.TLSquare {
		p.i += 2
		name += "[]"
	}
	vt, isArray, err := value.ParseTypeName(name)
	if err != nil {
		return "", nil, p.fail(tt.Pos, err)
	}
	kt, err := p.expect(token.TIdent, "metadata key")
	if err != nil {
		return "", nil, err
	}
	key := kt.String()
	if isListOp(key) && p.peekIs(token.TIdent) {
		key += " " + p.next().String()
	}
	if _, err := p.expect(token.TEquals, "="); err != nil {
		return "", nil, err
	}
	v, err := p.typedValue(vt, isArray)
	if err != nil {
		return "", nil, err
	}
	return key, v, nil
}

// metaList parses a homogeneous list of strings, identifiers or numbers.
func (p *parser) metaList() (*value.Buffer, error) {
	start := p.i
	p.i++
	var (
		strs  []string
		toks  []value.Token
		fs    []float64
		is    []int64
		kinds = map[token.TokenType]bool{}
	)
	for {
		t := p.next()
		if t == nil {
			return nil, p.errExpected("]")
		}
		if t.Type == token.TRSquare {
			break
		}
		if t.Type == token.TComma {
			continue
		}
		switch t.Type {
		case token.TString:
			strs = append(strs, t.String())
		case token.TIdent:
			toks = append(toks, value.NewToken(t.String()))
		case token.TInteger, token.TFloat:
			f, err := parseFloat(t)
			if err != nil {
				return nil, p.fail(t.Pos, err)
			}
			fs = append(fs, f)
			if t.Type == token.TInteger {
				n, err := strconv.ParseInt(string(t.Bytes), 10, 64)
				if err != nil {
					return nil, p.fail(t.Pos, fmt.Errorf("%w: %w", token.ErrNumber, err))
				}
				is = append(is, n)
			}
		default:
			p.i = start
			p.skipValue()
			return nil, nil
		}
		kind := t.Type
		if kind == token.TFloat {
			kind = token.TInteger
		}
		kinds[kind] = true
	}
	if len(kinds) > 1 {
		return nil, nil
	}
	switch {
	case len(toks) > 0:
		return value.NewTokenArray(toks), nil
	case len(fs) > 0 && len(is) == len(fs):
		return value.FromInt64s(value.TypeInt64, true, is)
	case len(fs) > 0:
		return value.NewDoubleArray(fs), nil
	}
	return value.NewStringArray(strs), nil
}

// metaTuple parses a tuple of two to four numbers as a double vector.
func (p *parser) metaTuple() (*value.Buffer, error) {
	start := p.i
	p.i++
	var fs []float64
	for {
		t := p.next()
		if t == nil {
			return nil, p.errExpected(")")
		}
		if t.Type == token.TRParen {
			break
		}
		if t.Type == token.TComma {
			continue
		}
		f, err := parseFloat(t)
		if err != nil {
			p.i = start
			p.skipValue()
			return nil, nil
		}
		fs = append(fs, f)
	}
	var vt value.ValueType
	switch len(fs) {
	case 2:
		vt = value.TypeDouble2
	case 3:
		vt = value.TypeDouble3
	case 4:
		vt = value.TypeDouble4
	default:
		return nil, nil
	}
	return value.FromFloat64s(vt, false, fs)
}

func parseFloat(t *token.Token) (float64, error) {
	switch {
	case t.Type.IsNumber(), t.Is("inf"), t.Is("nan"):
	default:
		return 0, fmt.Errorf("%w: %q is not a number", token.ErrNumber, t.Bytes)
	}
	f, err := strconv.ParseFloat(string(t.Bytes), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", token.ErrNumber, err)
	}
	return f, nil
}

func (p *parser) prim(scope spath.Path) (*ir.Prim, error) {
	st := p.peek()
	if st == nil || st.Type != token.TIdent {
		return nil, p.errExpected("def, over or class")
	}
	spec, err := ir.ParseSpecifier(string(st.Bytes))
	if err != nil {
		return nil, p.errExpected("def, over or class")
	}
	p.i++
	typeName := ""
	if t := p.accept(token.TIdent); t != nil {
		typeName = t.String()
	}
	nameTok, err := p.expect(token.TString, "prim name")
	if err != nil {
		return nil, err
	}
	name := nameTok.String()
	prim, err := ir.NewPrim(name, typeName)
	if errors.Is(err, ir.ErrUnknownPrimType) && p.opts.lenient {
		p.opts.warnf(st.Pos, "unknown prim type %q for %q, kept as custom", typeName, name)
		prim, err = ir.NewCustomPrim(name, typeName)
	}
	if err != nil {
		return nil, p.fail(nameTok.Pos, err)
	}
	path, err := scope.AppendChild(name)
	if err != nil {
		return nil, p.fail(nameTok.Pos, err)
	}
	prim.Specifier = spec
	if p.opts.positions != nil {
		p.opts.positions[prim] = st.Pos
	}
	if debug.Parse() {
		debug.Logf("parse: %s %s %s", spec, typeName, path)
	}
	if err := p.primRest(prim, path); err != nil {
		_ = prim.Free()
		return nil, err
	}
	return prim, nil
}

func (p *parser) primRest(prim *ir.Prim, path spath.Path) error {
	if p.peekIs(token.TLParen) {
		err := p.metaBlock(func(key string, _ *token.Pos, v *value.Buffer) error {
			prim.Meta.Set(key, v)
			return nil
		})
		if err != nil {
			return err
		}
	}
	if _, err := p.expect(token.TLCurl, "{"); err != nil {
		return err
	}
	for {
		t := p.peek()
		if t == nil {
			return p.errExpected("}")
		}
		switch {
		case t.Type == token.TRCurl:
			p.i++
			return nil
		case t.Type == token.TSemi:
			p.i++
		case t.Is("def"), t.Is("over"), t.Is("class"):
			child, err := p.prim(path)
			if err != nil {
				return err
			}
			if err := prim.AppendChild(child); err != nil {
				_ = child.Free()
				if p.opts.lenient && errors.Is(err, ir.ErrDuplicatePrim) {
					p.opts.warnf(t.Pos, "dropped duplicate prim %q under %s", child.Name(), path)
					continue
				}
				return p.fail(t.Pos, err)
			}
		case t.Is("variantSet"):
			if err := p.unsupported(t.Pos, "variantSet"); err != nil {
				return err
			}
			p.i++
			p.accept(token.TString)
			p.accept(token.TEquals)
			p.skipValue()
		case t.Type == token.TIdent:
			if err := p.property(prim, path); err != nil {
				return err
			}
		default:
			return p.errExpected("prim, property or }")
		}
	}
}

// skipPropertyRest consumes an optional "= value" and metadata block.
func (p *parser) skipPropertyRest() {
	if p.accept(token.TEquals) != nil {
		p.skipValue()
	}
	if p.peekIs(token.TLParen) {
		p.skipValue()
	}
}

func (p *parser) property(prim *ir.Prim, path spath.Path) error {
	start := p.peek()
	if isListOp(string(start.Bytes)) {
		if err := p.unsupported(start.Pos, "list edit "+string(start.Bytes)); err != nil {
			return err
		}
		p.i++
	}
	custom := p.acceptKw("custom")
	variability := ir.Varying
	if p.acceptKw("uniform") {
		variability = ir.Uniform
	} else {
		p.acceptKw("varying")
	}
	if p.acceptKw("rel") {
		return p.relationship(prim, path, custom, variability)
	}
	typeTok, err := p.expect(token.TIdent, "attribute type")
	if err != nil {
		return err
	}
	typeName := typeTok.String()
	if p.accept(token.TLSquare) != nil {
		if _, err := p.expect(token.TRSquare, "]"); err != nil {
			return err
		}
		typeName += "[]"
	}
	nameTok, err := p.expect(token.TIdent, "attribute name")
	if err != nil {
		return err
	}
	name, suffix := nameTok.String(), ""
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name, suffix = name[:i], name[i+1:]
	}
	vt, isArray, err := value.ParseTypeName(typeName)
	if err != nil {
		if !p.opts.lenient {
			return p.fail(typeTok.Pos, err)
		}
		p.opts.warnf(typeTok.Pos, "skipped attribute %s of unsupported type %s", name, typeName)
		p.skipPropertyRest()
		return nil
	}
	switch suffix {
	case "":
	case "connect":
		return p.connection(prim, path, name, typeName, nameTok.Pos, custom, variability)
	case "timeSamples":
		return p.timeSamples(prim, path, name, typeName, nameTok.Pos, custom, variability)
	default:
		return p.fail(nameTok.Pos, fmt.Errorf("%w: bad attribute name %q", ir.ErrInvalidPath, nameTok.String()))
	}
	attr, err := ir.NewTypedAttribute(typeName)
	if err != nil {
		return p.fail(typeTok.Pos, err)
	}
	attr.Custom, attr.Variability = custom, variability
	if p.accept(token.TEquals) != nil {
		if p.acceptKw("None") {
			if err := attr.Block(); err != nil {
				return p.fail(typeTok.Pos, err)
			}
		} else {
			vpos := p.pos()
			v, err := p.typedValue(vt, isArray)
			if err != nil {
				return err
			}
			if err := attr.SetValue(v); err != nil {
				return p.fail(vpos, err)
			}
		}
	}
	if err := p.propertyMeta(&attr.Meta); err != nil {
		return err
	}
	return p.addProperty(prim, path, name, ir.NewAttributeProperty(attr), nameTok.Pos)
}

func (p *parser) propertyMeta(d **ir.Dict) error {
	if !p.peekIs(token.TLParen) {
		return nil
	}
	return p.metaBlock(func(key string, _ *token.Pos, v *value.Buffer) error {
		if *d == nil {
			*d = ir.NewDict()
		}
		(*d).Set(key, v)
		return nil
	})
}

func (p *parser) addProperty(prim *ir.Prim, path spath.Path, name string, prop *ir.Property, pos *token.Pos) error {
	err := prim.AddProperty(name, prop)
	if err == nil {
		return nil
	}
	if p.opts.lenient && errors.Is(err, ir.ErrDuplicateProperty) {
		p.opts.warnf(pos, "property %s of %s redefined, keeping the last", name, path)
		if err = prim.SetProperty(name, prop); err == nil {
			return nil
		}
	}
	prop.Free()
	return p.fail(pos, err)
}

// connection handles "type name.connect = ...". The connection applies to
// the attribute of the same name when one was declared earlier.
func (p *parser) connection(prim *ir.Prim, path spath.Path, name, typeName string, pos *token.Pos, custom bool, variability ir.Variability) error {
	attr, isNew, err := p.declared(prim, name, typeName, pos, custom, variability)
	if err != nil {
		return err
	}
	if p.accept(token.TEquals) != nil {
		switch {
		case p.acceptKw("None"):
			if isNew || attr.IsConnection() {
				if err := attr.Block(); err != nil {
					return p.fail(pos, err)
				}
			}
		default:
			vpos := p.pos()
			targets, err := p.pathList(path)
			if err != nil {
				return err
			}
			if attr.HasValue() {
				p.opts.warnf(pos, "connection replaces the value of %s on %s", name, path)
			}
			if err := attr.SetConnections(targets); err != nil {
				return p.fail(vpos, err)
			}
		}
	}
	if err := p.propertyMeta(&attr.Meta); err != nil {
		return err
	}
	if !isNew {
		return nil
	}
	return p.addProperty(prim, path, name, ir.NewAttributeProperty(attr), pos)
}

// declared returns the attribute called name declared earlier in prim,
// or a new one when there is none.
func (p *parser) declared(prim *ir.Prim, name, typeName string, pos *token.Pos, custom bool, variability ir.Variability) (*ir.Attribute, bool, error) {
	attr, err := prim.Attribute(name)
	if err == nil {
		if attr.TypeName() != typeName {
			return nil, false, p.fail(pos, fmt.Errorf("%w: %s declaration of %s attribute %s", ir.ErrTypeMismatch, typeName, attr.TypeName(), name))
		}
		return attr, false, nil
	}
	if prim.HasProperty(name) {
		return nil, false, p.fail(pos, fmt.Errorf("%w: %s is not an attribute", ir.ErrDuplicateProperty, name))
	}
	if attr, err = ir.NewTypedAttribute(typeName); err != nil {
		return nil, false, p.fail(pos, err)
	}
	attr.Custom, attr.Variability = custom, variability
	return attr, true, nil
}

// timeSamples handles "type name.timeSamples = { 0: v, 10: None }". Like a
// connection, the samples apply to an attribute declared earlier.
func (p *parser) timeSamples(prim *ir.Prim, path spath.Path, name, typeName string, pos *token.Pos, custom bool, variability ir.Variability) error {
	attr, isNew, err := p.declared(prim, name, typeName, pos, custom, variability)
	if err != nil {
		return err
	}
	if _, err := p.expect(token.TEquals, "="); err != nil {
		return err
	}
	if _, err := p.expect(token.TLCurl, "{"); err != nil {
		return err
	}
	vt, isArray := attr.Type()
	for p.accept(token.TRCurl) == nil {
		tt := p.peek()
		if tt == nil {
			return p.errExpected("}")
		}
		tm, err := parseFloat(tt)
		if err != nil {
			return p.fail(tt.Pos, err)
		}
		p.i++
		if _, err := p.expect(token.TColon, ":"); err != nil {
			return err
		}
		var v *value.Buffer
		if !p.acceptKw("None") {
			if v, err = p.typedValue(vt, isArray); err != nil {
				return err
			}
		}
		if err := attr.SetTimeSample(tm, v); err != nil {
			return p.fail(tt.Pos, err)
		}
		if p.accept(token.TComma) == nil {
			if _, err := p.expect(token.TRCurl, ", or }"); err != nil {
				return err
			}
			break
		}
	}
	if err := p.propertyMeta(&attr.Meta); err != nil {
		return err
	}
	if !isNew {
		return nil
	}
	return p.addProperty(prim, path, name, ir.NewAttributeProperty(attr), pos)
}

func (p *parser) relationship(prim *ir.Prim, path spath.Path, custom bool, variability ir.Variability) error {
	nameTok, err := p.expect(token.TIdent, "relationship name")
	if err != nil {
		return err
	}
	name := nameTok.String()
	if strings.HasSuffix(name, ".timeSamples") || strings.HasSuffix(name, ".default") {
		if err := p.unsupported(nameTok.Pos, name); err != nil {
			return err
		}
		p.skipPropertyRest()
		return nil
	}
	rel := ir.NewRelationship()
	rel.Custom, rel.Variability = custom, variability
	if p.accept(token.TEquals) != nil {
		if p.acceptKw("None") {
			rel.Block()
		} else {
			targets, err := p.pathList(path)
			if err != nil {
				return err
			}
			rel.SetTargets(targets...)
		}
	}
	if err := p.propertyMeta(&rel.Meta); err != nil {
		return err
	}
	return p.addProperty(prim, path, name, ir.NewRelationshipProperty(rel), nameTok.Pos)
}

// pathList parses <p> or [<p>, ...], resolving relative paths against
// the prim path scope.
func (p *parser) pathList(scope spath.Path) ([]spath.Path, error) {
	one := func() (spath.Path, error) {
		t, err := p.expect(token.TPath, "path")
		if err != nil {
			return spath.Path{}, err
		}
		res, err := spath.Resolve(scope, t.String())
		if err != nil {
			return spath.Path{}, p.fail(t.Pos, err)
		}
		return res, nil
	}
	if p.accept(token.TLSquare) == nil {
		q, err := one()
		if err != nil {
			return nil, err
		}
		return []spath.Path{q}, nil
	}
	var res []spath.Path
	for p.accept(token.TRSquare) == nil {
		q, err := one()
		if err != nil {
			return nil, err
		}
		res = append(res, q)
		if p.accept(token.TComma) == nil {
			if _, err := p.expect(token.TRSquare, ", or ]"); err != nil {
				return nil, err
			}
			break
		}
	}
	return res, nil
}

// typedValue parses the value of an attribute declared with type t.
func (p *parser) typedValue(t value.ValueType, isArray bool) (*value.Buffer, error) {
	start := p.pos()
	if t == value.TypeToken || t == value.TypeString {
		return p.textValue(t, isArray)
	}
	var (
		fs       []float64
		is       []int64
		integral = value.IsIntegral(t)
	)
	if isArray {
		if _, err := p.expect(token.TLSquare, "["); err != nil {
			return nil, err
		}
		for p.accept(token.TRSquare) == nil {
			if err := p.element(t, integral, &fs, &is); err != nil {
				return nil, err
			}
			if p.accept(token.TComma) == nil {
				if _, err := p.expect(token.TRSquare, ", or ]"); err != nil {
					return nil, err
				}
				break
			}
		}
	} else if err := p.element(t, integral, &fs, &is); err != nil {
		return nil, err
	}
	var (
		b   *value.Buffer
		err error
	)
	if integral {
		b, err = value.FromInt64s(t, isArray, is)
	} else {
		b, err = value.FromFloat64s(t, isArray, fs)
	}
	if err != nil {
		return nil, p.fail(start, err)
	}
	return b, nil
}

func (p *parser) textValue(t value.ValueType, isArray bool) (*value.Buffer, error) {
	var strs []string
	if !isArray {
		st, err := p.expect(token.TString, "string")
		if err != nil {
			return nil, err
		}
		strs = append(strs, st.String())
	} else {
		if _, err := p.expect(token.TLSquare, "["); err != nil {
			return nil, err
		}
		for p.accept(token.TRSquare) == nil {
			st, err := p.expect(token.TString, "string")
			if err != nil {
				return nil, err
			}
			strs = append(strs, st.String())
			if p.accept(token.TComma) == nil {
				if _, err := p.expect(token.TRSquare, ", or ]"); err != nil {
					return nil, err
				}
				break
			}
		}
	}
	if t == value.TypeString {
		if isArray {
			return value.NewStringArray(strs), nil
		}
		return value.NewFromString(strs[0]), nil
	}
	toks := make([]value.Token, len(strs))
	for i, s := range strs {
		toks[i] = value.NewToken(s)
	}
	if isArray {
		return value.NewTokenArray(toks), nil
	}
	return value.NewFromToken(toks[0]), nil
}

func matrixDim(t value.ValueType) int {
	switch t {
	case value.TypeMatrix2d:
		return 2
	case value.TypeMatrix3d:
		return 3
	case value.TypeMatrix4d, value.TypeFrame4d:
		return 4
	}
	return 0
}

// element parses one element of type t: a scalar, a tuple, or a tuple of
// row tuples for matrices.
func (p *parser) element(t value.ValueType, integral bool, fs *[]float64, is *[]int64) error {
	n := value.Components(t)
	if n == 1 {
		return p.scalar(t, integral, fs, is)
	}
	dim := matrixDim(t)
	if dim == 0 {
		return p.tuple(t, n, integral, fs, is)
	}
	if _, err := p.expect(token.TLParen, "("); err != nil {
		return err
	}
	for r := 0; r < dim; r++ {
		if r > 0 {
			if _, err := p.expect(token.TComma, ","); err != nil {
				return err
			}
		}
		if err := p.tuple(t, dim, integral, fs, is); err != nil {
			return err
		}
	}
	_, err := p.expect(token.TRParen, ")")
	return err
}

func (p *parser) tuple(t value.ValueType, n int, integral bool, fs *[]float64, is *[]int64) error {
	if _, err := p.expect(token.TLParen, "("); err != nil {
		return err
	}
	for c := 0; c < n; c++ {
		if c > 0 {
			if _, err := p.expect(token.TComma, ","); err != nil {
				return err
			}
		}
		if err := p.scalar(t, integral, fs, is); err != nil {
			return err
		}
	}
	_, err := p.expect(token.TRParen, fmt.Sprintf(") after %d components", n))
	return err
}

func (p *parser) scalar(t value.ValueType, integral bool, fs *[]float64, is *[]int64) error {
	tok := p.peek()
	if tok == nil {
		return p.errExpected("number")
	}
	if t == value.TypeBool {
		switch {
		case tok.Is("true"), tok.Type == token.TInteger && string(tok.Bytes) == "1":
			*fs = append(*fs, 1)
		case tok.Is("false"), tok.Type == token.TInteger && string(tok.Bytes) == "0":
			*fs = append(*fs, 0)
		default:
			return p.errExpected("bool")
		}
		p.i++
		return nil
	}
	if integral {
		if tok.Type != token.TInteger {
			return p.errExpected("integer")
		}
		bits := value.Sizeof(t) * 8
		var n int64
		var err error
		if value.IsUnsigned(t) {
			var u uint64
			u, err = strconv.ParseUint(strings.TrimPrefix(string(tok.Bytes), "+"), 10, bits)
			n = int64(u)
		} else {
			n, err = strconv.ParseInt(string(tok.Bytes), 10, bits)
		}
		if err != nil {
			return p.fail(tok.Pos, fmt.Errorf("%w: %s: %w", token.ErrNumber, value.Name(t), err))
		}
		*is = append(*is, n)
		p.i++
		return nil
	}
	f, err := parseFloat(tok)
	if err != nil {
		return p.errExpected("number")
	}
	*fs = append(*fs, f)
	p.i++
	return nil
}
