package usdz

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/klauspost/compress/zip"
	"github.com/signadot/usd-format/go-usd/codec"
	"github.com/signadot/usd-format/go-usd/encode"
	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stage(t *testing.T) *ir.Stage {
	t.Helper()
	st := ir.NewStage()
	st.SetMetadata(ir.Metadata{UpAxis: ir.Ptr(ir.AxisZ), DefaultPrim: ir.Ptr("Root")})
	p := ir.MustPrim("Root", "Xform")
	_, err := p.AddAttribute("size", value.NewFloat(3))
	require.NoError(t, err)
	require.NoError(t, st.AppendRootPrim(p))
	return st
}

func TestWriteAligned(t *testing.T) {
	entries := []Entry{
		{Name: "a.usda", Data: []byte("#usda 1.0\n")},
		{Name: "textures/x.png", Data: bytes.Repeat([]byte{7}, 100)},
		{Name: "b", Data: nil},
		{Name: "some/longer/name.usdc", Data: []byte("PXR-USDC")},
	}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, entries))
	data := buf.Bytes()
	assert.Equal(t, format.USDZ, format.Sniff(data))

	a, warnings, err := Read(data)
	require.NoError(t, err)
	require.Len(t, a.Entries, len(entries))
	for i, e := range a.Entries {
		assert.Equal(t, entries[i].Name, e.Name)
		assert.Equal(t, len(entries[i].Data), len(e.Data))
		assert.Zero(t, e.Offset%Alignment, "entry %s at %d", e.Name, e.Offset)
	}
	assert.Equal(t, 0, a.Root)
	// The second layer is reported.
	assert.Len(t, warnings, 1)
}

func TestPadding(t *testing.T) {
	for off := int64(0); off < 2*Alignment; off++ {
		for _, name := range []string{"a", "root.usdc", "abcdefghijklmnopqrstuvwxyz.usda"} {
			extra := padding(off, name)
			end := off + localHeaderSize + int64(len(name)) + int64(len(extra))
			assert.Zero(t, end%Alignment, "off %d name %s", off, name)
			if len(extra) > 0 {
				assert.Equal(t, uint16(paddingID), binary.LittleEndian.Uint16(extra))
				assert.Equal(t, len(extra)-4, int(binary.LittleEndian.Uint16(extra[2:])))
			}
		}
	}
}

func TestCodecRoundTrip(t *testing.T) {
	for _, layer := range []format.Format{format.USDC, format.USDA} {
		t.Run(layer.String(), func(t *testing.T) {
			st := stage(t)
			c := Codec(layer)
			data, err := c.Serialize(st, codec.Options{})
			require.NoError(t, err)

			a, _, err := Read(data)
			require.NoError(t, err)
			root, err := a.RootLayer()
			require.NoError(t, err)
			assert.Equal(t, "root"+layer.Suffix(), root.Name)
			assert.Equal(t, layer, root.Format())

			got, warnings, err := c.Parse(data, codec.Options{})
			require.NoError(t, err)
			assert.Empty(t, warnings)
			assert.Equal(t, encode.MustString(st), encode.MustString(got))
		})
	}
}

func TestRegistered(t *testing.T) {
	c, err := codec.Get(format.USDZ)
	require.NoError(t, err)
	assert.Equal(t, format.USDZ, c.Format())
	_, err = codec.Get(format.USDC)
	assert.NoError(t, err)
}

func TestAssetsWarn(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Entry{
		{Name: "scene.usda", Data: []byte("#usda 1.0\ndef \"A\"\n{\n}\n")},
		{Name: "tex.png", Data: []byte{1, 2, 3}},
	}))
	st, warnings, err := Codec(format.USDC).Parse(buf.Bytes(), codec.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, st.NumRootPrims())
	assert.Equal(t, []string{"tex.png: asset not loaded"}, warnings)
}

func TestErrors(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, []Entry{{Name: "tex.png", Data: []byte{1}}}))
	_, _, err := Codec(format.USDC).Parse(buf.Bytes(), codec.Options{})
	assert.ErrorIs(t, err, ErrNoLayer)

	buf.Reset()
	zw := zip.NewWriter(&buf)
	w, err := zw.CreateHeader(&zip.FileHeader{Name: "a.usda", Method: zip.Deflate})
	require.NoError(t, err)
	_, err = w.Write([]byte("#usda 1.0\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, _, err = Read(buf.Bytes())
	assert.ErrorIs(t, err, ErrCompressed)

	_, _, err = Read([]byte("PK\x03\x04garbage"))
	assert.ErrorIs(t, err, ErrArchive)
	assert.ErrorIs(t, err, ErrParse)

	err = Write(&buf, []Entry{{Name: "x"}, {Name: "x"}})
	assert.Error(t, err)
}
