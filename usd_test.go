package usd

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/signadot/usd-format/go-usd/encode"
	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const scene = `#usda 1.0
(
    upAxis = "Y"
    defaultPrim = "World"
)

def Xform "World"
{
    def Mesh "Ball"
    {
        point3f[] points = [(0, 0, 0), (1, 0, 0), (0, 1, 0)]
        int[] faceVertexIndices = [0, 1, 2]
        rel material:binding = </World/Mat>
    }

    def Material "Mat"
    {
    }
}
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestLoadFromMemory(t *testing.T) {
	st, warnings, err := LoadFromMemory([]byte(scene))
	if err != nil {
		t.Fatal(err)
	}
	if warnings != "" {
		t.Errorf("warnings: %s", warnings)
	}
	if st.NumPrims() != 3 {
		t.Errorf("got %d prims", st.NumPrims())
	}
	md := st.Metadata()
	if md.UpAxis == nil || *md.UpAxis != ir.AxisY {
		t.Errorf("up axis %v", md.UpAxis)
	}
	p, err := st.PrimAtPath(spath.MustParse("/World/Ball"))
	if err != nil {
		t.Fatal(err)
	}
	if p.Type() != ir.MeshType {
		t.Errorf("type %s", p.Type())
	}
}

func TestSaveLoadFormats(t *testing.T) {
	orig, _, err := LoadFromMemory([]byte(scene))
	if err != nil {
		t.Fatal(err)
	}
	want := encode.MustString(orig)
	for _, name := range []string{"a.usda", "a.usdc", "a.usdz", "a.usd"} {
		t.Run(name, func(t *testing.T) {
			p := filepath.Join(t.TempDir(), name)
			if err := SaveToFile(orig, p); err != nil {
				t.Fatal(err)
			}
			st, warnings, err := LoadFromFile(p)
			if err != nil {
				t.Fatal(err)
			}
			if warnings != "" {
				t.Errorf("warnings: %s", warnings)
			}
			if diff := cmp.Diff(want, encode.MustString(st)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestDetectFromContent(t *testing.T) {
	orig, _, err := LoadFromMemory([]byte(scene))
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range []format.Format{format.USDA, format.USDC, format.USDZ} {
		data, err := SaveToMemory(orig, f)
		if err != nil {
			t.Fatalf("%s: %v", f, err)
		}
		if got := format.Detect(data, ""); got != f {
			t.Errorf("detected %s, want %s", got, f)
		}
		// A misleading name does not matter when the format is forced.
		p := writeFile(t, "scene.bin", data)
		if _, _, err := LoadFromFile(p, WithFormat(f)); err != nil {
			t.Errorf("%s: %v", f, err)
		}
		if _, _, err := LoadFromFile(p); err != nil {
			t.Errorf("%s sniffed: %v", f, err)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		load func() error
		want error
	}{
		{"missing", func() error {
			_, _, err := LoadFromFile(filepath.Join(dir, "nope.usda"))
			return err
		}, ErrFileNotFound},
		{"directory", func() error {
			_, _, err := LoadFromFile(dir)
			return err
		}, ErrFileNotFound},
		{"unknown", func() error {
			_, _, err := LoadFromMemory([]byte("hello"))
			return err
		}, ErrUnsupportedFormat},
		{"empty", func() error {
			_, _, err := LoadFromMemory(nil)
			return err
		}, ErrUnsupportedFormat},
		{"bad text", func() error {
			_, _, err := LoadFromMemory([]byte("#usda 1.0\ndef Xform \"A\" {"))
			return err
		}, ErrParse},
		{"bad crate", func() error {
			_, _, err := LoadFromMemory([]byte("PXR-USDC\x00\x08\x00"))
			return err
		}, ErrParse},
		{"too large", func() error {
			p := writeFile(t, "big.usda", []byte(scene))
			_, _, err := LoadFromFile(p, MaxFileSize(10))
			return err
		}, ErrTooLarge},
		{"save unknown", func() error {
			_, err := SaveToMemory(ir.NewStage(), format.Unknown)
			return err
		}, ErrUnsupportedFormat},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.load()
			if !errors.Is(err, tc.want) {
				t.Errorf("got %v, want %v", err, tc.want)
			}
		})
	}
}

func TestLenientWarnings(t *testing.T) {
	text := `#usda 1.0
def Widget "W"
{
    float a = 1
    float a = 2
}
`
	if _, _, err := LoadFromMemory([]byte(text)); !errors.Is(err, ErrParse) {
		t.Fatalf("strict: got %v", err)
	}
	st, warnings, err := LoadFromMemory([]byte(text), Lenient(true))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(strings.Split(warnings, "\n")); n != 2 {
		t.Errorf("got %d warnings:\n%s", n, warnings)
	}
	if st.NumRootPrims() != 1 {
		t.Errorf("got %d roots", st.NumRootPrims())
	}
}

func TestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	_, _, err := LoadFromMemory([]byte(scene), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatal(err)
	}
	if logs.FilterMessage("loaded stage").Len() != 1 {
		t.Errorf("no load log in %v", logs.All())
	}
}
