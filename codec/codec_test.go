package codec

import (
	"testing"

	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

type fake struct{ f format.Format }

func (c fake) Format() format.Format { return c.f }
func (fake) Parse([]byte, Options) (*ir.Stage, []string, error) {
	return ir.NewStage(), nil, nil
}
func (fake) Serialize(*ir.Stage, Options) ([]byte, error) { return nil, nil }

func TestRegistry(t *testing.T) {
	c := Lookup(format.USDA)
	require.NotNil(t, c)
	assert.Equal(t, format.USDA, c.Format())

	assert.ErrorIs(t, Register(USDA()), ErrCodecExists)
	assert.Error(t, Register(fake{format.Auto}))
	assert.Error(t, Register(fake{format.Unknown}))

	_, err := Get(format.USDC)
	assert.ErrorIs(t, err, ErrNoCodec)
	assert.Nil(t, Lookup(format.USDC))

	var fs []format.Format
	for _, c := range Codecs() {
		fs = append(fs, c.Format())
	}
	assert.Equal(t, []format.Format{format.USDA}, fs)
}

func TestUSDA(t *testing.T) {
	src := "#usda 1.0\n\ndef Scope \"A\"\n{\n    int x = 1\n}\n"
	core, logs := observer.New(zap.DebugLevel)
	c := USDA()
	st, warnings, err := c.Parse([]byte(src), Options{Logger: zap.New(core)})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, logs.FilterMessage("parsed usda").Len())

	out, err := c.Serialize(st, Options{Indent: 4})
	require.NoError(t, err)
	assert.Equal(t, src, string(out))

	_, err = c.Serialize(st, Options{})
	require.NoError(t, err)
}

func TestUSDALenient(t *testing.T) {
	src := "#usda 1.0\ndef Gizmo \"A\"\n{\n}\n"
	_, _, err := USDA().Parse([]byte(src), Options{})
	assert.ErrorIs(t, err, ir.ErrParse)

	st, warnings, err := USDA().Parse([]byte(src), Options{Lenient: true})
	require.NoError(t, err)
	assert.Len(t, warnings, 1)
	p, err := st.RootPrim(0)
	require.NoError(t, err)
	assert.Equal(t, ir.CustomType, p.Type())
}

func TestLogDefault(t *testing.T) {
	assert.NotNil(t, Options{}.Log())
	l := zap.NewExample()
	assert.Same(t, l, Options{Logger: l}.Log())
}
