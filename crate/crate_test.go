package crate

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/signadot/usd-format/go-usd/encode"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
	"github.com/signadot/usd-format/go-usd/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scene(t *testing.T) *ir.Stage {
	t.Helper()
	st := ir.NewStage()
	custom := ir.NewDict()
	custom.Set("author", value.NewFromString("crate test"))
	st.SetMetadata(ir.Metadata{
		Doc:           ir.Ptr("a \"small\" scene"),
		UpAxis:        ir.Ptr(ir.AxisY),
		MetersPerUnit: ir.Ptr(0.01),
		StartTimeCode: ir.Ptr(1.0),
		EndTimeCode:   ir.Ptr(24.0),
		DefaultPrim:   ir.Ptr("World"),
		Custom:        custom,
	})
	world := ir.MustPrim("World", "Xform")
	world.Meta.Set("kind", value.NewFromToken(value.NewToken("assembly")))
	_, err := world.AddRelationship("proxy", spath.MustParse("/World/Ball"), spath.MustParse("/World/Box"))
	require.NoError(t, err)

	ball := ir.MustPrim("Ball", "Mesh")
	radius, err := ball.AddAttribute("radius", value.NewDouble(2.5))
	require.NoError(t, err)
	require.NoError(t, radius.SetTimeSample(1, value.NewDouble(1)))
	require.NoError(t, radius.SetTimeSample(12.5, nil))
	require.NoError(t, radius.SetTimeSample(24, value.NewDouble(3)))
	purpose, err := ball.AddAttribute("purpose", value.NewFromToken(value.NewToken("render")))
	require.NoError(t, err)
	purpose.Variability = ir.Uniform
	ext, err := ir.NewTypedAttribute("float3[]")
	require.NoError(t, err)
	require.NoError(t, ext.SetConnection(spath.MustParse("/World.extent")))
	require.NoError(t, ball.AddProperty("extent", ir.NewAttributeProperty(ext)))
	r, err := ir.NewTypedAttribute("float")
	require.NoError(t, err)
	r.Custom = true
	require.NoError(t, r.Block())
	require.NoError(t, r.SetTimeSample(0, value.NewFloat(4)))
	require.NoError(t, ball.AddProperty("r", ir.NewAttributeProperty(r)))
	dc, err := ball.AddAttribute("primvars:displayColor", value.NewColor3fArray([]value.Float3{{1, 0, 0}, {0, 1, 0}}))
	require.NoError(t, err)
	dc.Meta = ir.NewDict()
	dc.Meta.Set("interpolation", value.NewFromToken(value.NewToken("vertex")))
	_, err = ball.AddAttribute("names", value.NewStringArray([]string{"a", "b", "a"}))
	require.NoError(t, err)
	_, err = ball.AddAttribute("xform", value.NewMatrix4d(value.Identity4d()))
	require.NoError(t, err)
	_, err = ball.AddAttribute("visible", value.NewBool(true))
	require.NoError(t, err)
	require.NoError(t, world.AppendChild(ball))

	box := ir.MustPrim("Box", "Scope")
	_, err = box.AddRelationship("material")
	require.NoError(t, err)
	require.NoError(t, world.AppendChild(box))
	require.NoError(t, st.AppendRootPrim(world))

	cls := ir.MustPrim("Base", "MyShape")
	cls.Specifier = ir.SpecifierClass
	require.NoError(t, st.AppendRootPrim(cls))
	return st
}

func TestRoundTrip(t *testing.T) {
	st := scene(t)
	data, err := Encode(st)
	require.NoError(t, err)
	assert.Equal(t, "PXR-USDC", string(data[:8]))

	got, warnings, err := Decode(data, false)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, encode.MustString(st), encode.MustString(got))

	p, err := got.PrimAtPath(spath.MustParse("/World/Ball"))
	require.NoError(t, err)
	assert.Equal(t, ir.MeshType, p.Type())
	attr, err := p.Attribute("xform")
	require.NoError(t, err)
	v, err := attr.Value()
	require.NoError(t, err)
	m, err := v.Matrix4d()
	require.NoError(t, err)
	assert.Equal(t, value.Identity4d(), m)

	radius, err := p.Attribute("radius")
	require.NoError(t, err)
	samples := radius.TimeSamples()
	require.Len(t, samples, 3)
	assert.Equal(t, 12.5, samples[1].Time)
	assert.True(t, samples[1].IsBlocked())
	f, err := samples[2].Value.Double()
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)
	r, err := p.Attribute("r")
	require.NoError(t, err)
	assert.True(t, r.IsBlocked())
	assert.Equal(t, 1, r.NumTimeSamples())
}

func TestEmptyStage(t *testing.T) {
	data, err := Encode(ir.NewStage())
	require.NoError(t, err)
	st, warnings, err := Decode(data, false)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 0, st.NumRootPrims())
	assert.True(t, st.Metadata().IsEmpty())
}

func TestCompressedSection(t *testing.T) {
	pts := make([]value.Float3, 2000)
	for i := range pts {
		pts[i] = value.Float3{float32(i % 7), 0, 1}
	}
	p := ir.MustPrim("Cloud", "Points")
	_, err := p.AddAttribute("points", value.NewPoint3fArray(pts))
	require.NoError(t, err)
	st := ir.NewStage()
	require.NoError(t, st.AppendRootPrim(p))

	data, err := Encode(st)
	require.NoError(t, err)
	bs, err := ReadBootstrap(data)
	require.NoError(t, err)
	toc, err := ReadTOC(data, bs.TOCOffset)
	require.NoError(t, err)
	sec, ok := toc.Find(SectionFields)
	require.True(t, ok)
	assert.Equal(t, payloadZstd, data[sec.Start])
	assert.Less(t, sec.Size, int64(len(pts)*12))

	got, _, err := Decode(data, false)
	require.NoError(t, err)
	attr, err := got.PrimAtPath(spath.MustParse("/Cloud"))
	require.NoError(t, err)
	a, err := attr.Attribute("points")
	require.NoError(t, err)
	v, err := a.Value()
	require.NoError(t, err)
	gotPts, err := v.Float3Array()
	require.NoError(t, err)
	assert.Equal(t, pts, gotPts)
	assert.Equal(t, value.TypePoint3f, v.Type())
}

func TestHeaderErrors(t *testing.T) {
	data, err := Encode(scene(t))
	require.NoError(t, err)

	bad := append([]byte(nil), data...)
	bad[0] = 'X'
	_, _, err = Decode(bad, true)
	assert.ErrorIs(t, err, ErrMagic)

	bad = append([]byte(nil), data...)
	bad[9] = 3
	_, _, err = Decode(bad, true)
	assert.ErrorIs(t, err, ErrVersion)

	bad = append([]byte(nil), data...)
	binary.LittleEndian.PutUint64(bad[16:], uint64(len(bad)+10))
	_, _, err = Decode(bad, true)
	assert.ErrorIs(t, err, ErrTOC)

	_, _, err = Decode([]byte("#usda 1.0\n"), true)
	assert.ErrorIs(t, err, ErrMagic)
	assert.ErrorIs(t, err, ErrParse)
}

func TestTruncated(t *testing.T) {
	data, err := Encode(scene(t))
	require.NoError(t, err)
	for i := range len(data) {
		_, _, err := Decode(data[:i], true)
		if !assert.ErrorIs(t, err, ErrParse, "truncated to %d bytes", i) {
			return
		}
	}
}

func TestCorrupted(t *testing.T) {
	data, err := Encode(scene(t))
	require.NoError(t, err)
	for i := BootstrapSize; i < len(data); i++ {
		bad := append([]byte(nil), data...)
		bad[i] ^= 0xff
		for _, lenient := range []bool{false, true} {
			st, _, err := Decode(bad, lenient)
			if err != nil {
				assert.ErrorIs(t, err, ErrParse, "byte %d", i)
				continue
			}
			assert.NotNil(t, st, "byte %d", i)
		}
	}
}

func TestUnknownField(t *testing.T) {
	w := newWriter()
	l := &fieldList{w: w}
	l.add("bogus", w.buffer(value.NewInt(1)))
	l.add(fieldPrimChildren, w.buffer(tokensBuf(nil)))
	require.NoError(t, w.spec(spath.Root(), SpecPseudoRoot, l))
	orphan := &fieldList{w: w}
	orphan.add(fieldSpecifier, w.buffer(tokenBuf("def")))
	require.NoError(t, w.spec(spath.MustParse("/Lost"), SpecPrim, orphan))
	data, err := w.bytes()
	require.NoError(t, err)

	_, _, err = Decode(data, false)
	assert.ErrorIs(t, err, ErrParse)

	st, warnings, err := Decode(data, true)
	require.NoError(t, err)
	assert.Len(t, warnings, 2)
	assert.Equal(t, 0, st.NumRootPrims())
}

func TestMissingPseudoRoot(t *testing.T) {
	w := newWriter()
	data, err := w.bytes()
	require.NoError(t, err)
	_, _, err = Decode(data, true)
	assert.ErrorIs(t, err, ErrParse)
}

func TestFreedStage(t *testing.T) {
	st := scene(t)
	st.Free()
	_, err := Encode(st)
	assert.ErrorIs(t, err, ir.ErrFreed)
}

func TestSmallCompressedSections(t *testing.T) {
	for _, n := range []int{20, 40, 60, 80, 120} {
		p := ir.MustPrim("Rig", "Xform")
		for i := range n {
			_, err := p.AddAttribute(fmt.Sprintf("weight%d", i), value.NewFloat(float32(i)))
			require.NoError(t, err)
		}
		st := ir.NewStage()
		require.NoError(t, st.AppendRootPrim(p))

		data, err := Encode(st)
		require.NoError(t, err)
		got, warnings, err := Decode(data, false)
		require.NoError(t, err, "%d attributes", n)
		assert.Empty(t, warnings)
		assert.Equal(t, encode.MustString(st), encode.MustString(got), "%d attributes", n)
	}
}
