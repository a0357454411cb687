package spath

import (
	"errors"
	"slices"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	tests := []struct {
		in                 string
		root, prim, isProp bool
	}{
		{in: "/", root: true},
		{in: "/a", prim: true},
		{in: "/a/b", prim: true},
		{in: "/a/b.prop", isProp: true},
		{in: "/World/Mesh_1.xformOp:translate", isProp: true},
		{in: "/_x/y2.outputs:rgb", isProp: true},
	}
	for _, test := range tests {
		t.Run(test.in, func(t *testing.T) {
			p, err := Parse(test.in)
			if err != nil {
				t.Fatal(err)
			}
			if got := p.String(); got != test.in {
				t.Errorf("round trip: got %q", got)
			}
			if p.IsRoot() != test.root || p.IsPrimPath() != test.prim || p.IsPropertyPath() != test.isProp {
				t.Errorf("predicates: root=%v prim=%v prop=%v", p.IsRoot(), p.IsPrimPath(), p.IsPropertyPath())
			}
			n := 0
			for _, b := range []bool{p.IsRoot(), p.IsPrimPath(), p.IsPropertyPath()} {
				if b {
					n++
				}
			}
			if n != 1 {
				t.Errorf("%d predicates true", n)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"a/b",
		"//a",
		"/a//b",
		"/a/",
		"/a.",
		"/a.b.c",
		"/.x",
		"/a b",
		"/1a",
		"/a.x:",
		"/a.:x",
		"/a-b",
	} {
		t.Run(in, func(t *testing.T) {
			if _, err := Parse(in); !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Parse(%q) = %v, want ErrInvalidPath", in, err)
			}
		})
	}
}

func TestNavigation(t *testing.T) {
	p := MustParse("/World/Cube.points")
	if p.Name() != "points" || p.PropPart() != "points" {
		t.Errorf("name %q prop %q", p.Name(), p.PropPart())
	}
	if p.PrimPart() != MustParse("/World/Cube") {
		t.Errorf("prim part %s", p.PrimPart())
	}
	if p.Parent().Parent() != MustParse("/World") {
		t.Errorf("parent %s", p.Parent().Parent())
	}
	if !p.Parent().Parent().Parent().IsRoot() || !Root().Parent().IsRoot() {
		t.Errorf("root parent")
	}
	if got := p.PrimNames(); !slices.Equal(got, []string{"World", "Cube"}) {
		t.Errorf("prim names %v", got)
	}
	if p.Depth() != 2 || Root().Depth() != 0 {
		t.Errorf("depth")
	}

	c, err := Root().AppendChild("World")
	if err != nil {
		t.Fatal(err)
	}
	c, err = c.AppendChild("Cube")
	if err != nil {
		t.Fatal(err)
	}
	q, err := c.AppendProperty("points")
	if err != nil {
		t.Fatal(err)
	}
	if q != p {
		t.Errorf("built %s, want %s", q, p)
	}
	if _, err := q.AppendChild("x"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("child of property: %v", err)
	}
	if _, err := Root().AppendProperty("x"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("property of root: %v", err)
	}
	if _, err := PrimPath("ok", "not ok"); !errors.Is(err, ErrInvalidPath) {
		t.Errorf("PrimPath: %v", err)
	}
}

func TestCompareAndPrefix(t *testing.T) {
	paths := []Path{
		MustParse("/b"),
		MustParse("/a/b.x"),
		MustParse("/a/b"),
		Root(),
		MustParse("/a"),
		MustParse("/a/c"),
	}
	slices.SortFunc(paths, Path.Compare)
	var got []string
	for _, p := range paths {
		got = append(got, p.String())
	}
	want := []string{"/", "/a", "/a/b", "/a/b.x", "/a/c", "/b"}
	if !slices.Equal(got, want) {
		t.Errorf("sorted %v", got)
	}
	if !MustParse("/a/b.x").HasPrefix(MustParse("/a")) {
		t.Errorf("prefix /a")
	}
	if MustParse("/ab").HasPrefix(MustParse("/a")) {
		t.Errorf("/ab under /a")
	}
}

func TestResolve(t *testing.T) {
	base := MustParse("/World/Looks/Mat")
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{"/Abs/Path.x", "/Abs/Path.x", false},
		{"Shader", "/World/Looks/Mat/Shader", false},
		{"Shader.outputs:surface", "/World/Looks/Mat/Shader.outputs:surface", false},
		{".inputs:c", "/World/Looks/Mat.inputs:c", false},
		{"../Other", "/World/Looks/Other", false},
		{"../../Geo/Mesh.points", "/World/Geo/Mesh.points", false},
		{"./A", "/World/Looks/Mat/A", false},
		{"..", "/World/Looks", false},
		{"../../../..", "", true},
		{"a//b", "", true},
		{"", "", true},
		{"bad name", "", true},
	}
	for _, test := range tests {
		got, err := Resolve(base, test.in)
		if test.err {
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("%q: got %v, want ErrInvalidPath", test.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if got.String() != test.want {
			t.Errorf("%q: got %s, want %s", test.in, got, test.want)
		}
	}
}
