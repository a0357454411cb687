package parse

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/token"
	"github.com/signadot/usd-format/go-usd/value"
)

const scene = `#usda 1.0
(
    "Test scene"
    upAxis = "Z"
    metersPerUnit = 0.01
    defaultPrim = "World"
    renderer = "storm"
)

# geometry
def Xform "World" (
    kind = "component"
)
{
    def Mesh "Cube"
    {
        int[] faceVertexCounts = [4, 4]
        point3f[] points = [(0, 0, 0), (1, 0, 0), (1, 1, 0),]
        uniform token subdivisionScheme = "none"
        color3f[] primvars:displayColor = [(1, 0.5, 0)] (
            interpolation = "constant"
        )
        rel material:binding = </World/Looks/Mat>
        matrix4d xformOp:transform = ((1, 0, 0, 0), (0, 1, 0, 0), (0, 0, 1, 0), (0, 0, 0, 1))
        bool doubleSided = 1
        float radius = None
        custom string note = "hi"
    }

    def Scope "Looks"
    {
        def Material "Mat"
        {
            token outputs:surface.connect = <Shader.outputs:surface>

            def Shader "Shader"
            {
                uniform token info:id = "UsdPreviewSurface"
                color3f inputs:diffuseColor = (0.8, 0.1, 0.1)
                token outputs:surface
            }
        }
    }
}
`

func mustAttr(t *testing.T, p *ir.Prim, name string) *ir.Attribute {
	t.Helper()
	a, err := p.Attribute(name)
	if err != nil {
		t.Fatalf("%s: %v", name, err)
	}
	return a
}

func TestParseScene(t *testing.T) {
	positions := map[*ir.Prim]*token.Pos{}
	st, err := Parse([]byte(scene), ParsePositions(positions))
	if err != nil {
		t.Fatal(err)
	}
	md := st.Metadata()
	if md.Doc == nil || *md.Doc != "Test scene" {
		t.Errorf("doc %v", md.Doc)
	}
	if md.UpAxis == nil || *md.UpAxis != ir.AxisZ {
		t.Errorf("upAxis %v", md.UpAxis)
	}
	if md.MetersPerUnit == nil || *md.MetersPerUnit != 0.01 {
		t.Errorf("metersPerUnit %v", md.MetersPerUnit)
	}
	if md.DefaultPrim == nil || *md.DefaultPrim != "World" {
		t.Errorf("defaultPrim %v", md.DefaultPrim)
	}
	if v, ok := md.Custom.Get("renderer"); !ok || v.String() != `"storm"` {
		t.Errorf("custom renderer %v", v)
	}

	var paths []string
	for p := range st.All() {
		paths = append(paths, p.String())
	}
	want := []string{"/World", "/World/Cube", "/World/Looks", "/World/Looks/Mat", "/World/Looks/Mat/Shader"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths (-want +got):\n%s", diff)
	}

	world, _ := st.PrimAtPath(spath.MustParse("/World"))
	if world.Type() != ir.XformType {
		t.Errorf("world type %s", world.Type())
	}
	if v, ok := world.Meta.Get("kind"); !ok || v.String() != `"component"` {
		t.Errorf("kind %v", v)
	}
	if pos := positions[world]; pos == nil || pos.Line() != 11 {
		t.Errorf("position of World: %v", pos)
	}

	cube, err := st.PrimAtPath(spath.MustParse("/World/Cube"))
	if err != nil {
		t.Fatal(err)
	}
	wantProps := []string{
		"faceVertexCounts", "points", "subdivisionScheme", "primvars:displayColor",
		"material:binding", "xformOp:transform", "doubleSided", "radius", "note",
	}
	if diff := cmp.Diff(wantProps, cube.PropertyNames()); diff != "" {
		t.Errorf("properties (-want +got):\n%s", diff)
	}

	pts := mustAttr(t, cube, "points")
	if pts.TypeName() != "point3f[]" {
		t.Errorf("points type %s", pts.TypeName())
	}
	v, _ := pts.Value()
	got, err := v.Float3Array()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]value.Float3{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}}, got); diff != "" {
		t.Errorf("points (-want +got):\n%s", diff)
	}

	counts := mustAttr(t, cube, "faceVertexCounts")
	v, _ = counts.Value()
	if ints, _ := v.IntArray(); !cmp.Equal(ints, []int32{4, 4}) {
		t.Errorf("faceVertexCounts %v", ints)
	}

	scheme := mustAttr(t, cube, "subdivisionScheme")
	if scheme.Variability != ir.Uniform {
		t.Errorf("subdivisionScheme not uniform")
	}
	v, _ = scheme.Value()
	if tok, _ := v.Token(); tok.Str() != "none" {
		t.Errorf("subdivisionScheme %q", tok.Str())
	}

	color := mustAttr(t, cube, "primvars:displayColor")
	if iv, ok := color.Meta.Get("interpolation"); !ok || iv.String() != `"constant"` {
		t.Errorf("interpolation %v", iv)
	}

	rel, err := cube.Relationship("material:binding")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"/World/Looks/Mat"}, pathStrings(rel.Targets())); diff != "" {
		t.Errorf("binding (-want +got):\n%s", diff)
	}

	xf := mustAttr(t, cube, "xformOp:transform")
	v, _ = xf.Value()
	if m, err := v.Matrix4d(); err != nil || m != value.Identity4d() {
		t.Errorf("transform %v %v", m, err)
	}

	ds := mustAttr(t, cube, "doubleSided")
	v, _ = ds.Value()
	if b, _ := v.Bool(); !b {
		t.Errorf("doubleSided false")
	}
	if !mustAttr(t, cube, "radius").IsBlocked() {
		t.Errorf("radius not blocked")
	}
	if !mustAttr(t, cube, "note").Custom {
		t.Errorf("note not custom")
	}

	mat, _ := st.PrimAtPath(spath.MustParse("/World/Looks/Mat"))
	out := mustAttr(t, mat, "outputs:surface")
	if !out.IsConnection() {
		t.Fatalf("outputs:surface is %s", out.Mode())
	}
	if diff := cmp.Diff([]string{"/World/Looks/Mat/Shader.outputs:surface"}, pathStrings(out.Connections())); diff != "" {
		t.Errorf("connection (-want +got):\n%s", diff)
	}
	shader, _ := st.PrimAtPath(spath.MustParse("/World/Looks/Mat/Shader"))
	if m := mustAttr(t, shader, "outputs:surface").Mode(); m != ir.ModeUnset {
		t.Errorf("shader output mode %s", m)
	}
}

func pathStrings(ps []spath.Path) []string {
	res := make([]string, len(ps))
	for i, p := range ps {
		res[i] = p.String()
	}
	return res
}

func TestParseValues(t *testing.T) {
	tests := []struct {
		decl string
		want string
	}{
		{`bool b = true`, `true`},
		{`bool b = 0`, `false`},
		{`int i = -7`, `-7`},
		{`uchar c = 255`, `255`},
		{`int64 i = 9007199254740993`, `9007199254740993`},
		{`uint64 u = 18446744073709551615`, `18446744073709551615`},
		{`float f = 1.5`, `1.5`},
		{`double d = 1e-3`, `0.001`},
		{`double d = -inf`, `-inf`},
		{`float f = nan`, `nan`},
		{`half h = 0.5`, `0.5`},
		{`int2 v = (1, -2)`, `(1, -2)`},
		{`double3[] v = []`, `[]`},
		{`quatf q = (1, 0, 0, 0)`, `(1, 0, 0, 0)`},
		{`matrix2d m = ((1, 2), (3, 4))`, `((1, 2), (3, 4))`},
		{`string s = "a\"b"`, `"a\"b"`},
		{`token[] t = ["x", 'y']`, `["x", "y"]`},
	}
	for _, test := range tests {
		t.Run(test.decl, func(t *testing.T) {
			st, err := Parse([]byte("#usda 1.0\ndef \"P\" {\n" + test.decl + "\n}\n"))
			if err != nil {
				t.Fatal(err)
			}
			p, _ := st.RootPrim(0)
			_, prop := firstProperty(p)
			a, err := prop.Attribute()
			if err != nil {
				t.Fatal(err)
			}
			v, err := a.Value()
			if err != nil {
				t.Fatal(err)
			}
			if got := v.String(); got != test.want {
				t.Errorf("got %s, want %s", got, test.want)
			}
		})
	}
}

func firstProperty(p *ir.Prim) (string, *ir.Property) {
	for name, prop := range p.Properties() {
		return name, prop
	}
	return "", nil
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		err  error
	}{
		{"no header", `def "a" {}`, ErrHeader},
		{"version", "#usda 2.0\n", ErrVersion},
		{"unknown prim type", "#usda 1.0\ndef Foo \"a\" {}", ir.ErrUnknownPrimType},
		{"bad prim name", "#usda 1.0\ndef \"a b\" {}", ir.ErrInvalidPath},
		{"tuple size", "#usda 1.0\ndef \"a\" {\n float3 x = (1, 2)\n}", ErrParse},
		{"int overflow", "#usda 1.0\ndef \"a\" {\n int x = 3000000000\n}", token.ErrNumber},
		{"float for int", "#usda 1.0\ndef \"a\" {\n int x = 1.5\n}", ErrParse},
		{"bad bool", "#usda 1.0\ndef \"a\" {\n bool x = 2\n}", ErrParse},
		{"unknown type", "#usda 1.0\ndef \"a\" {\n asset x = @a.png@\n}", value.ErrUnknownType},
		{"duplicate property", "#usda 1.0\ndef \"a\" {\n int x = 1\n int x = 2\n}", ir.ErrDuplicateProperty},
		{"duplicate prim", "#usda 1.0\ndef \"a\" {}\ndef \"a\" {}", ir.ErrDuplicatePrim},
		{"time sample value", "#usda 1.0\ndef \"a\" {\n float x.timeSamples = { 0: \"a\" }\n}", ErrParse},
		{"time sample time", "#usda 1.0\ndef \"a\" {\n float x.timeSamples = { a: 1 }\n}", token.ErrNumber},
		{"time samples type", "#usda 1.0\ndef \"a\" {\n float x = 1\n double x.timeSamples = { 0: 1 }\n}", ir.ErrTypeMismatch},
		{"relationship time samples", "#usda 1.0\ndef \"a\" {\n rel r.timeSamples = { 0: </a> }\n}", ErrUnsupported},
		{"variant set", "#usda 1.0\ndef \"a\" {\n variantSet \"v\" = {}\n}", ErrUnsupported},
		{"reference", "#usda 1.0\ndef \"a\" (\n references = @x.usda@\n) {}", ErrUnsupported},
		{"unterminated", "#usda 1.0\ndef \"a {}", token.ErrUnterminated},
		{"bad stage metadata", "#usda 1.0\n(\n upAxis = \"W\"\n)\n", ErrParse},
		{"stray token", "#usda 1.0\n42", ErrParse},
		{"connection to rel", "#usda 1.0\ndef \"a\" {\n rel r\n token r.connect = </a.x>\n}", ir.ErrDuplicateProperty},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Parse([]byte(test.in))
			if !errors.Is(err, test.err) {
				t.Fatalf("got %v, want %v", err, test.err)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("%v is not a parse error", err)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	_, err := Parse([]byte("#usda 1.0\ndef \"a\" {\n    float3 x = (1, 2)\n}\n"))
	var te *token.TokenizeErr
	if !errors.As(err, &te) {
		t.Fatalf("got %v", err)
	}
	if te.Pos.Line() != 3 || te.Pos.Col() != 21 {
		t.Errorf("got line %d col %d", te.Pos.Line(), te.Pos.Col())
	}
}

func TestParseLenient(t *testing.T) {
	in := `#usda 1.0
def Foo "a" (
    prepend references = @./other.usda@</Thing>
    prepend apiSchemas = ["MaterialBindingAPI"]
)
{
    asset tex = @./t.png@
    float radius.timeSamples = { 0: 1, 10: 2 }
    variantSet "v" = { "x" { } }
    float r = 1
    float r = 2
}
`
	var warnings []string
	st, err := Parse([]byte(in), Lenient(true), ParseWarnings(&warnings))
	if err != nil {
		t.Fatal(err)
	}
	a, _ := st.RootPrim(0)
	if a.Type() != ir.CustomType || a.TypeName() != "Foo" {
		t.Errorf("type %s %q", a.Type(), a.TypeName())
	}
	if v, ok := a.Meta.Get("prepend apiSchemas"); !ok || v.String() != `["MaterialBindingAPI"]` {
		t.Errorf("apiSchemas %v", v)
	}
	if diff := cmp.Diff([]string{"radius", "r"}, a.PropertyNames()); diff != "" {
		t.Errorf("properties (-want +got):\n%s", diff)
	}
	v, _ := mustAttr(t, a, "r").Value()
	if f, _ := v.Float(); f != 2 {
		t.Errorf("r = %v", f)
	}
	if len(warnings) != 5 {
		t.Errorf("got %d warnings:\n%q", len(warnings), warnings)
	}
}

func TestParseLenientHeader(t *testing.T) {
	var warnings []string
	st, err := Parse([]byte(`def "a" {}`), Lenient(true), ParseWarnings(&warnings))
	if err != nil {
		t.Fatal(err)
	}
	if st.NumRootPrims() != 1 || len(warnings) != 1 {
		t.Errorf("prims %d warnings %q", st.NumRootPrims(), warnings)
	}
}

func TestParseConnectionAfterValue(t *testing.T) {
	in := `#usda 1.0
def Shader "S"
{
    color3f inputs:c = (1, 1, 1)
    color3f inputs:c.connect = </T.outputs:rgb>
}
`
	var warnings []string
	st, err := Parse([]byte(in), ParseWarnings(&warnings))
	if err != nil {
		t.Fatal(err)
	}
	s, _ := st.RootPrim(0)
	c := mustAttr(t, s, "inputs:c")
	if !c.IsConnection() || c.NumConnections() != 1 {
		t.Errorf("mode %s", c.Mode())
	}
	if len(warnings) != 1 {
		t.Errorf("warnings %q", warnings)
	}
}

func TestParseTimeSamples(t *testing.T) {
	in := `#usda 1.0
def Xform "a"
{
    double3 xformOp:translate = (0, 0, 0)
    double3 xformOp:translate.timeSamples = {
        0: (0, 0, 0),
        -2.5: (1, 2, 3),
        10: None,
    }
    custom float[] w.timeSamples = { 1: [1, 2] } (
        interpolation = "vertex"
    )
}
`
	st, err := Parse([]byte(in))
	if err != nil {
		t.Fatal(err)
	}
	a, _ := st.RootPrim(0)
	tr := mustAttr(t, a, "xformOp:translate")
	if !tr.HasValue() || tr.NumTimeSamples() != 3 {
		t.Fatalf("translate %s with %d samples", tr.Mode(), tr.NumTimeSamples())
	}
	var got []string
	for _, s := range tr.TimeSamples() {
		got = append(got, fmt.Sprintf("%g: %s", s.Time, s.Value))
	}
	if diff := cmp.Diff([]string{"-2.5: (1, 2, 3)", "0: (0, 0, 0)", "10: None"}, got); diff != "" {
		t.Errorf("samples (-want +got):\n%s", diff)
	}
	w := mustAttr(t, a, "w")
	if !w.Custom || w.Mode() != ir.ModeUnset || w.TypeName() != "float[]" || w.NumTimeSamples() != 1 {
		t.Errorf("w %v %s %s %d", w.Custom, w.Mode(), w.TypeName(), w.NumTimeSamples())
	}
	if v, ok := w.Meta.Get("interpolation"); !ok || v.String() != `"vertex"` {
		t.Errorf("w metadata %v", v)
	}
}
