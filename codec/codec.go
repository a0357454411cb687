package codec

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/signadot/usd-format/go-usd/format"
	"github.com/signadot/usd-format/go-usd/ir"

	"go.uber.org/zap"
)

// Options are passed to every codec call.
type Options struct {
	// Lenient asks the codec to skip content it cannot represent, reporting
	// warnings instead of failing.
	Lenient bool
	// Indent is the text indentation width. Zero means the codec default.
	Indent int
	Logger *zap.Logger
}

// Log returns the configured logger, or a no-op logger.
func (o Options) Log() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Codec reads and writes one file format.
type Codec interface {
	Format() format.Format
	// Parse decodes data into a new stage. Non-fatal diagnostics are
	// returned as warnings alongside the stage.
	Parse(data []byte, opts Options) (*ir.Stage, []string, error)
	Serialize(st *ir.Stage, opts Options) ([]byte, error)
}

var (
	mu sync.RWMutex
	d  = map[format.Format]Codec{}
)

var (
	ErrCodecExists = errors.New("codec exists")
	ErrNoCodec     = errors.New("no codec")
)

func Register(c Codec) error {
	f := c.Format()
	if !f.IsConcrete() {
		return fmt.Errorf("codec format %s is not concrete", f)
	}
	mu.Lock()
	defer mu.Unlock()
	if _, present := d[f]; present {
		return fmt.Errorf("%s: %w", f, ErrCodecExists)
	}
	d[f] = c
	return nil
}

func init() {
	if err := Register(USDA()); err != nil {
		panic(err)
	}
}

// Lookup returns the codec registered for f, or nil.
func Lookup(f format.Format) Codec {
	mu.RLock()
	defer mu.RUnlock()
	return d[f]
}

// Get is Lookup returning ErrNoCodec for a missing codec.
func Get(f format.Format) (Codec, error) {
	c := Lookup(f)
	if c == nil {
		return nil, fmt.Errorf("%w for %s", ErrNoCodec, f)
	}
	return c, nil
}

// Codecs returns the registered codecs ordered by format.
func Codecs() []Codec {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]Codec, 0, len(d))
	for _, c := range d {
		res = append(res, c)
	}
	slices.SortFunc(res, func(a, b Codec) int { return int(a.Format()) - int(b.Format()) })
	return res
}
