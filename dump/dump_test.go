package dump

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/google/go-cmp/cmp"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/value"
)

func testStage(t *testing.T) *ir.Stage {
	t.Helper()
	st := ir.NewStage()
	st.SetMetadata(ir.Metadata{UpAxis: ir.Ptr(ir.AxisZ), MetersPerUnit: ir.Ptr(0.5)})
	w := ir.MustPrim("W", "Xform")
	if _, err := w.AddAttribute("xformOp:translate", value.NewDouble3(value.Double3{1, 2, 3})); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddAttribute("ids", value.NewInt64Array([]int64{1 << 60, -1})); err != nil {
		t.Fatal(err)
	}
	if _, err := w.AddRelationship("look", spath.MustParse("/W/M")); err != nil {
		t.Fatal(err)
	}
	m := ir.MustPrim("M", "Material")
	a, err := m.AddAttribute("on", value.NewBool(true))
	if err != nil {
		t.Fatal(err)
	}
	a.Variability = ir.Uniform
	if err := w.AppendChild(m); err != nil {
		t.Fatal(err)
	}
	if err := st.AppendRootPrim(w); err != nil {
		t.Fatal(err)
	}
	return st
}

func TestStage(t *testing.T) {
	got, err := Stage(testStage(t))
	if err != nil {
		t.Fatal(err)
	}
	want := yaml.MapSlice{
		{Key: "metadata", Value: yaml.MapSlice{
			{Key: "upAxis", Value: "Z"},
			{Key: "metersPerUnit", Value: 0.5},
		}},
		{Key: "prims", Value: []any{
			yaml.MapSlice{
				{Key: "name", Value: "W"},
				{Key: "path", Value: "/W"},
				{Key: "specifier", Value: "def"},
				{Key: "type", Value: "Xform"},
				{Key: "properties", Value: yaml.MapSlice{
					{Key: "xformOp:translate", Value: yaml.MapSlice{
						{Key: "kind", Value: "attribute"},
						{Key: "type", Value: "double3"},
						{Key: "value", Value: []any{1.0, 2.0, 3.0}},
					}},
					{Key: "ids", Value: yaml.MapSlice{
						{Key: "kind", Value: "attribute"},
						{Key: "type", Value: "int64[]"},
						{Key: "value", Value: []any{int64(1 << 60), int64(-1)}},
					}},
					{Key: "look", Value: yaml.MapSlice{
						{Key: "kind", Value: "relationship"},
						{Key: "targets", Value: []string{"/W/M"}},
					}},
				}},
				{Key: "children", Value: []any{
					yaml.MapSlice{
						{Key: "name", Value: "M"},
						{Key: "path", Value: "/W/M"},
						{Key: "specifier", Value: "def"},
						{Key: "type", Value: "Material"},
						{Key: "properties", Value: yaml.MapSlice{
							{Key: "on", Value: yaml.MapSlice{
								{Key: "kind", Value: "attribute"},
								{Key: "type", Value: "bool"},
								{Key: "value", Value: true},
								{Key: "variability", Value: "uniform"},
							}},
						}},
					},
				}},
			},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestValue(t *testing.T) {
	tests := []struct {
		name string
		in   *value.Buffer
		want any
	}{
		{"int", value.NewInt(-4), int64(-4)},
		{"uint64", value.NewUInt64(1 << 63), uint64(1 << 63)},
		{"half", value.NewHalf(value.HalfFromFloat32(0.5)), 0.5},
		{"token", value.NewFromToken(value.NewToken("x")), "x"},
		{"strings", value.NewStringArray([]string{"a", "b"}), []any{"a", "b"}},
		{"bools", value.NewBoolArray([]bool{true, false}), []any{true, false}},
		{"matrix", value.NewMatrix2d(value.Identity2d()), []any{[]any{1.0, 0.0}, []any{0.0, 1.0}}},
		{"empty", value.NewFloatArray(nil), []any{}},
		{"texcoords", value.NewTexCoord2fArray([]value.Float2{{0, 1}}), []any{[]any{0.0, 1.0}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Value(tc.in)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSON(t *testing.T) {
	d, err := JSON(testStage(t))
	if err != nil {
		t.Fatal(err)
	}
	var v map[string]any
	if err := json.Unmarshal(d, &v); err != nil {
		t.Fatalf("%v:\n%s", err, d)
	}
	prims, ok := v["prims"].([]any)
	if !ok || len(prims) != 1 {
		t.Fatalf("prims: %v", v["prims"])
	}
}

func TestYAMLNoValues(t *testing.T) {
	d, err := YAML(testStage(t), Values(false))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(d), "value:") {
		t.Errorf("values present:\n%s", d)
	}
	var v map[string]any
	if err := yaml.Unmarshal(d, &v); err != nil {
		t.Fatal(err)
	}
	if _, ok := v["metadata"]; !ok {
		t.Errorf("no metadata in\n%s", d)
	}
}

func TestFreed(t *testing.T) {
	st := testStage(t)
	st.Free()
	if _, err := Stage(st); err == nil {
		t.Error("expected an error")
	}
}

func TestTimeSamples(t *testing.T) {
	a := ir.NewAttribute()
	if err := a.SetTimeSample(2, value.NewDouble(0.5)); err != nil {
		t.Fatal(err)
	}
	if err := a.SetTimeSample(1, nil); err != nil {
		t.Fatal(err)
	}
	prop := ir.NewAttributeProperty(a)
	got, err := (&dumpOpts{values: true}).property(prop)
	if err != nil {
		t.Fatal(err)
	}
	want := yaml.MapSlice{
		{Key: "kind", Value: "attribute"},
		{Key: "type", Value: "double"},
		{Key: "timeSamples", Value: []any{
			yaml.MapSlice{{Key: "time", Value: 1.0}, {Key: "value", Value: nil}},
			yaml.MapSlice{{Key: "time", Value: 2.0}, {Key: "value", Value: 0.5}},
		}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
	got, err = (&dumpOpts{}).property(prop)
	if err != nil {
		t.Fatal(err)
	}
	if n := got[len(got)-1]; n.Key != "timeSamples" || n.Value != 2 {
		t.Errorf("without values: %v", n)
	}
}
