package crate

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/klauspost/compress/zstd"
)

// Section payloads start with a compression byte. Compressed payloads
// then carry their uncompressed size as a uvarint.
const (
	payloadRaw  byte = 0
	payloadZstd byte = 1

	// compressMin is the smallest payload worth compressing.
	compressMin = 512
	// maxSection bounds the uncompressed size of one section.
	maxSection = 1 << 30
)

type enc struct {
	b []byte
}

func (e *enc) u8(v byte) { e.b = append(e.b, v) }
func (e *enc) uv(v uint64) { e.b = binary.AppendUvarint(e.b, v) }
func (e *enc) raw(p []byte) { e.b = append(e.b, p...) }
func (e *enc) f64(v float64) { e.b = binary.LittleEndian.AppendUint64(e.b, math.Float64bits(v)) }
func (e *enc) str(s string) { e.uv(uint64(len(s))); e.b = append(e.b, s...) }
func (e *enc) uvs(v []uint64) {
	e.uv(uint64(len(v)))
	for _, x := range v {
		e.uv(x)
	}
}

// dec reads a section payload. The first error sticks; later reads
// return zero values.
type dec struct {
	b       []byte
	off     int
	section string
	err     error
}

func (d *dec) fail(format string, args ...any) {
	if d.err == nil {
		d.err = fmt.Errorf("%w: %s at offset %d: %s", ErrSection, d.section, d.off, fmt.Sprintf(format, args...))
	}
}

func (d *dec) u8() byte {
	if d.err != nil {
		return 0
	}
	if d.off >= len(d.b) {
		d.fail("unexpected end")
		return 0
	}
	v := d.b[d.off]
	d.off++
	return v
}

func (d *dec) uv() uint64 {
	if d.err != nil {
		return 0
	}
	v, n := binary.Uvarint(d.b[d.off:])
	if n <= 0 {
		d.fail("bad varint")
		return 0
	}
	d.off += n
	return v
}

// count reads a length whose items take at least minSize bytes each.
func (d *dec) count(minSize int) int {
	v := d.uv()
	if d.err != nil {
		return 0
	}
	if v > uint64((len(d.b)-d.off)/max(minSize, 1)) {
		d.fail("count %d exceeds the remaining %d bytes", v, len(d.b)-d.off)
		return 0
	}
	return int(v)
}

// index reads an index below n.
func (d *dec) index(n int, what string) int {
	v := d.uv()
	if d.err != nil {
		return 0
	}
	if v >= uint64(n) {
		d.fail("%s index %d out of range [0, %d)", what, v, n)
		return 0
	}
	return int(v)
}

func (d *dec) raw(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > len(d.b)-d.off {
		d.fail("%d bytes past the end", n)
		return nil
	}
	res := d.b[d.off : d.off+n]
	d.off += n
	return res
}

func (d *dec) f64() float64 {
	b := d.raw(8)
	if b == nil {
		return 0
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b))
}

func (d *dec) str() string {
	n := d.count(1)
	return string(d.raw(n))
}

func (d *dec) done() error {
	if d.err == nil && d.off != len(d.b) {
		d.fail("%d trailing bytes", len(d.b)-d.off)
	}
	return d.err
}

// packPayload frames p, compressing it with zstd when that pays off.
func packPayload(p []byte) ([]byte, error) {
	if len(p) >= compressMin {
		zw, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1))
		if err != nil {
			return nil, err
		}
		z := zw.EncodeAll(p, nil)
		if err := zw.Close(); err != nil {
			return nil, err
		}
		if len(z)+binary.MaxVarintLen64 < len(p) {
			res := []byte{payloadZstd}
			res = binary.AppendUvarint(res, uint64(len(p)))
			return append(res, z...), nil
		}
	}
	res := make([]byte, 0, len(p)+1)
	res = append(res, payloadRaw)
	return append(res, p...), nil
}

// unpackPayload undoes packPayload.
func unpackPayload(name string, p []byte) (*dec, error) {
	if len(p) == 0 {
		return nil, fmt.Errorf("%w: %s: empty payload", ErrSection, name)
	}
	d := &dec{b: p, section: name}
	switch d.u8() {
	case payloadRaw:
		return &dec{b: p[1:], section: name}, nil
	case payloadZstd:
		size := d.uv()
		if d.err != nil {
			return nil, d.err
		}
		if size > maxSection {
			return nil, fmt.Errorf("%w: %s: uncompressed size %d", ErrSection, name, size)
		}
		zr, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1), zstd.WithDecoderMaxMemory(maxSection))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		out, err := zr.DecodeAll(p[d.off:], nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrSection, name, err)
		}
		if uint64(len(out)) != size {
			return nil, fmt.Errorf("%w: %s: got %d bytes, want %d", ErrSection, name, len(out), size)
		}
		return &dec{b: out, section: name}, nil
	default:
		return nil, fmt.Errorf("%w: %s: unknown compression %d", ErrSection, name, p[0])
	}
}

// at reads an index into s and returns the element, or the zero value
// once d has failed.
func at[E any](d *dec, s []E, what string) E {
	i := d.index(len(s), what)
	if d.err != nil {
		var zero E
		return zero
	}
	return s[i]
}
