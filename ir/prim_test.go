package ir

import (
	"errors"
	"slices"
	"testing"

	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/value"
)

func TestNewPrim(t *testing.T) {
	tests := []struct {
		name, typeName string
		want           PrimType
		err            error
		custom         bool
	}{
		{name: "root", typeName: "", want: ModelType},
		{name: "geo", typeName: "Mesh", want: MeshType},
		{name: "light", typeName: "SphereLight", want: SphereLightType},
		{name: "x", typeName: "Cube", err: ErrUnknownPrimType},
		{name: "x", typeName: "Cube", want: CustomType, custom: true},
		{name: "x", typeName: "not valid", err: ErrUnknownPrimType, custom: true},
		{name: "bad name", typeName: "Xform", err: ErrInvalidPath},
	}
	for _, test := range tests {
		mk := NewPrim
		if test.custom {
			mk = NewCustomPrim
		}
		p, err := mk(test.name, test.typeName)
		if test.err != nil {
			if !errors.Is(err, test.err) {
				t.Errorf("%s %q: got %v, want %v", test.name, test.typeName, err, test.err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s %q: %v", test.name, test.typeName, err)
			continue
		}
		if p.Type() != test.want || p.TypeName() != test.typeName {
			t.Errorf("%s: type %s %q", test.name, p.Type(), p.TypeName())
		}
	}
	p, err := NewBuiltinPrim("cam", CameraType)
	if err != nil || p.TypeName() != "Camera" {
		t.Errorf("builtin: %v %q", err, p.TypeName())
	}
	if _, err := NewBuiltinPrim("c", CustomType); !errors.Is(err, ErrUnknownPrimType) {
		t.Errorf("custom builtin: %v", err)
	}
}

func TestProperties(t *testing.T) {
	p := MustPrim("m", "Mesh")
	if _, err := p.AddAttribute("points", value.NewPoint3fArray([]value.Float3{{0, 0, 0}})); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddRelationship("material:binding", spath.MustParse("/Mat")); err != nil {
		t.Fatal(err)
	}
	if _, err := p.AddAttribute("extent", value.NewFloat3Array(nil)); err != nil {
		t.Fatal(err)
	}
	want := []string{"points", "material:binding", "extent"}
	if got := p.PropertyNames(); !slices.Equal(got, want) {
		t.Errorf("names %v", got)
	}
	if _, err := p.AddAttribute("points", value.NewFloat(1)); !errors.Is(err, ErrDuplicateProperty) {
		t.Errorf("duplicate: %v", err)
	}

	a, _ := NewValueAttribute(value.NewInt(3))
	if err := p.SetProperty("material:binding", NewAttributeProperty(a)); err != nil {
		t.Fatal(err)
	}
	if got := p.PropertyNames(); !slices.Equal(got, want) {
		t.Errorf("overwrite moved property: %v", got)
	}
	prop, _ := p.Property("material:binding")
	if !prop.IsAttribute() || prop.IsRelationship() {
		t.Errorf("overwrite kept old kind")
	}
	if _, err := prop.Relationship(); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("relationship of attribute: %v", err)
	}

	if err := p.DelProperty("points"); err != nil {
		t.Fatal(err)
	}
	if err := p.DelProperty("points"); !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("del missing: %v", err)
	}
	if _, err := p.Property("points"); !errors.Is(err, ErrPropertyNotFound) {
		t.Errorf("get missing: %v", err)
	}
	if got := p.PropertyNames(); !slices.Equal(got, []string{"material:binding", "extent"}) {
		t.Errorf("after delete %v", got)
	}

	q := MustPrim("q", "")
	if err := q.AddProperty("extent", prop); !errors.Is(err, ErrAlreadyOwned) {
		t.Errorf("shared property: %v", err)
	}
	if err := q.AddProperty("bad name", NewAttributeProperty(nil)); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("bad property name: %v", err)
	}
}

func TestAttributeModes(t *testing.T) {
	a, err := NewTypedAttribute("color3f")
	if err != nil {
		t.Fatal(err)
	}
	if a.Mode() != ModeUnset {
		t.Errorf("mode %s", a.Mode())
	}
	if _, err := a.Value(); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("unset value: %v", err)
	}
	if err := a.SetValue(value.NewFloat3(value.Float3{1, 0, 0})); err != nil {
		t.Fatal(err)
	}
	v, _ := a.Value()
	if v.Type() != value.TypeColor3f {
		t.Errorf("value not retagged: %s", v.Type())
	}
	if err := a.SetValue(value.NewDouble3(value.Double3{})); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("double3 into color3f: %v", err)
	}

	src := spath.MustParse("/Mat/Tex.outputs:rgb")
	if err := a.SetConnection(src); err != nil {
		t.Fatal(err)
	}
	if a.IsBlocked() || !a.IsConnection() || a.NumConnections() != 1 {
		t.Errorf("connection mode: %s", a.Mode())
	}
	if _, err := a.Value(); !errors.Is(err, ErrModeMismatch) {
		t.Errorf("value of connection: %v", err)
	}
	if c, _ := a.Connection(0); c != src {
		t.Errorf("connection %s", c)
	}
	if _, err := a.Connection(1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("connection 1: %v", err)
	}
	if err := a.SetConnection(spath.MustParse("/Mat")); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("prim connection: %v", err)
	}

	if err := a.Block(); err != nil {
		t.Fatal(err)
	}
	if !a.IsBlocked() || a.NumConnections() != 0 || a.IsConnection() {
		t.Errorf("blocked mode: %s %d", a.Mode(), a.NumConnections())
	}
	if a.TypeName() != "color3f" {
		t.Errorf("type name %q", a.TypeName())
	}
}

func TestUntypedAttributeModes(t *testing.T) {
	a := NewAttribute()
	if err := a.SetConnection(spath.MustParse("/A.src")); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("untyped connection: %v", err)
	}
	if err := a.Block(); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("untyped block: %v", err)
	}
	if a.Mode() != ModeUnset {
		t.Errorf("mode %s", a.Mode())
	}

	if err := a.SetValue(value.NewFloat(1)); err != nil {
		t.Fatal(err)
	}
	if err := a.SetConnection(spath.MustParse("/A.src")); err != nil {
		t.Errorf("typed by value, connection: %v", err)
	}
	if err := a.Block(); err != nil {
		t.Errorf("typed by value, block: %v", err)
	}
	if a.TypeName() != "float" || !a.IsBlocked() {
		t.Errorf("got %s %s", a.TypeName(), a.Mode())
	}
}

func TestRelationship(t *testing.T) {
	r := NewRelationship(spath.MustParse("/A"), spath.MustParse("/B.x"))
	if r.NumTargets() != 2 || r.IsBlocked() {
		t.Errorf("targets %d", r.NumTargets())
	}
	if tg, _ := r.Target(1); tg.String() != "/B.x" {
		t.Errorf("target 1 %s", tg)
	}
	if _, err := r.Target(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("target 2: %v", err)
	}
	r.Block()
	if !r.IsBlocked() || r.NumTargets() != 0 {
		t.Errorf("block")
	}
	if !NewBlockedRelationship().IsBlocked() {
		t.Errorf("blocked constructor")
	}
}

func TestPrimClone(t *testing.T) {
	st := abcd(t)
	a, _ := st.RootPrim(0)
	if _, err := a.AddAttribute("v", value.NewInt(1)); err != nil {
		t.Fatal(err)
	}
	c := a.Clone()
	if c.Parent() != nil || c.Stage() != nil {
		t.Errorf("clone is owned")
	}
	var n int
	_ = c.Visit(func(*Prim, spath.Path) (bool, error) { n++; return true, nil })
	if n != 4 {
		t.Errorf("clone has %d prims", n)
	}
	attr, _ := c.Attribute("v")
	v, _ := attr.Value()
	v.Free()
	orig, _ := a.Attribute("v")
	if ov, _ := orig.Value(); ov.IsFreed() {
		t.Errorf("clone shares buffers")
	}
}
