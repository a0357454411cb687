package libdiff

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/value"
)

func build(t *testing.T, radius float64, extra bool) *ir.Stage {
	t.Helper()
	st := ir.NewStage()
	st.SetMetadata(ir.Metadata{UpAxis: ir.Ptr(ir.AxisY), DefaultPrim: ir.Ptr("World")})
	world := ir.MustPrim("World", "Xform")
	ball := ir.MustPrim("Ball", "Mesh")
	if _, err := ball.AddAttribute("radius", value.NewDouble(radius)); err != nil {
		t.Fatal(err)
	}
	if err := world.AppendChild(ball); err != nil {
		t.Fatal(err)
	}
	if extra {
		if _, err := world.AddRelationship("proxy", spath.MustParse("/World/Ball")); err != nil {
			t.Fatal(err)
		}
		if err := world.AppendChild(ir.MustPrim("Light", "SphereLight")); err != nil {
			t.Fatal(err)
		}
	}
	if err := st.AppendRootPrim(world); err != nil {
		t.Fatal(err)
	}
	return st
}

func strs(cs []Change) []string {
	res := make([]string, len(cs))
	for i, c := range cs {
		res[i] = c.String()
	}
	return res
}

func TestDiffEqual(t *testing.T) {
	cs, err := Diff(build(t, 1, true), build(t, 1, true))
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 0 {
		t.Errorf("expected no changes, got %v", strs(cs))
	}
}

func TestDiff(t *testing.T) {
	from := build(t, 1, false)
	to := build(t, 2, true)
	md := to.Metadata()
	md.UpAxis = ir.Ptr(ir.AxisZ)
	md.MetersPerUnit = ir.Ptr(0.01)
	to.SetMetadata(md)

	cs, err := Diff(from, to)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		`~ / metadata.upAxis: Y -> Z`,
		`+ / metadata.metersPerUnit: 0.01`,
		`+ /World.proxy: rel = </World/Ball>`,
		`~ /World/Ball.radius: double = 1 -> double = 2`,
		`+ /World/Light: def SphereLight`,
	}
	if diff := cmp.Diff(want, strs(cs)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}

	back := strs(Reverse(cs))
	wantBack := []string{
		`~ / metadata.upAxis: Z -> Y`,
		`- / metadata.metersPerUnit: 0.01`,
		`- /World.proxy: rel = </World/Ball>`,
		`~ /World/Ball.radius: double = 2 -> double = 1`,
		`- /World/Light: def SphereLight`,
	}
	if diff := cmp.Diff(wantBack, back); diff != "" {
		t.Errorf("reverse (-want +got):\n%s", diff)
	}
}

func TestDiffPrimFields(t *testing.T) {
	from := build(t, 1, false)
	to := ir.NewStage()
	to.SetMetadata(from.Metadata())
	world := ir.MustPrim("World", "Scope")
	world.Specifier = ir.SpecifierOver
	world.Meta = ir.NewDict()
	world.Meta.Set("kind", value.NewFromString("group"))
	if err := to.AppendRootPrim(world); err != nil {
		t.Fatal(err)
	}
	cs, err := Diff(from, to)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		`~ /World specifier: def -> over`,
		`~ /World type: Xform -> Scope`,
		`+ /World metadata.kind: "group"`,
		`- /World/Ball: def Mesh`,
	}
	if diff := cmp.Diff(want, strs(cs)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestDiffOrder(t *testing.T) {
	mk := func(names ...string) *ir.Stage {
		st := ir.NewStage()
		for _, n := range names {
			if err := st.AppendRootPrim(ir.MustPrim(n, "")); err != nil {
				t.Fatal(err)
			}
		}
		return st
	}
	cs, err := Diff(mk("A", "B", "C"), mk("B", "C", "A"))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{`- /A: def`, `+ /A: def`}
	if diff := cmp.Diff(want, strs(cs)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestProperty(t *testing.T) {
	attr, err := ir.NewTypedAttribute("float")
	if err != nil {
		t.Fatal(err)
	}
	attr.Custom = true
	attr.Variability = ir.Uniform
	if err := attr.Block(); err != nil {
		t.Fatal(err)
	}
	conn, err := ir.NewTypedAttribute("color3f")
	if err != nil {
		t.Fatal(err)
	}
	if err := conn.SetConnection(spath.MustParse("/M.out")); err != nil {
		t.Fatal(err)
	}
	anim := ir.NewAttribute()
	if err := anim.SetTimeSample(1, value.NewFloat(2)); err != nil {
		t.Fatal(err)
	}
	if err := anim.SetTimeSample(0.5, nil); err != nil {
		t.Fatal(err)
	}
	rel := ir.NewRelationship(spath.MustParse("/A"), spath.MustParse("/B"))
	rel.Meta = ir.NewDict()
	rel.Meta.Set("doc", value.NewFromString("x"))

	for _, c := range []struct {
		prop *ir.Property
		want string
	}{
		{ir.NewAttributeProperty(attr), "custom uniform float = None"},
		{ir.NewAttributeProperty(conn), "color3f.connect = </M.out>"},
		{ir.NewAttributeProperty(anim), "float timeSamples = {0.5: None, 1: 2}"},
		{ir.NewRelationshipProperty(rel), `rel = [</A>, </B>] (doc = "x")`},
		{ir.NewRelationshipProperty(ir.NewBlockedRelationship()), "rel = None"},
		{ir.NewRelationshipProperty(ir.NewRelationship()), "rel"},
	} {
		if got := Property(c.prop); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestFreed(t *testing.T) {
	a := build(t, 1, false)
	b := build(t, 1, false)
	b.Free()
	if _, err := Diff(a, b); err == nil {
		t.Error("expected an error for a freed stage")
	}
}

func TestText(t *testing.T) {
	if got := Text("a\nb\n", "a\nb\n"); got != "" {
		t.Errorf("equal texts: got %q", got)
	}
	got := Text("a\nb\nc\n", "a\nB\nc\nd")
	want := strings.Join([]string{
		"  a",
		"- b",
		"+ B",
		"  c",
		"+ d",
		"",
	}, "\n")
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
