package usdz

import (
	"bytes"
	"fmt"
	"hash/crc32"
	"io"

	"github.com/klauspost/compress/zip"
	"github.com/signadot/usd-format/go-usd/format"
)

// Alignment is the required alignment of entry data within a package.
const Alignment = 64

// paddingID tags the extra field used to align entry data.
const paddingID = 0x1986

// Entry is one file of a package.
type Entry struct {
	Name string
	// Offset is the position of the entry data in the package. It is set
	// by Read.
	Offset int64
	Data   []byte
}

// Format returns the layer format of the entry: USDA or USDC by
// extension, the sniffed content for ".usd", and format.Unknown for
// assets, nested packages included.
func (e *Entry) Format() format.Format {
	switch f := format.FromSuffix(e.Name); f {
	case format.USDA, format.USDC:
		return f
	case format.Auto:
		if f := format.Sniff(e.Data); f == format.USDA || f == format.USDC {
			return f
		}
	}
	return format.Unknown
}

// Archive is the decoded content of a package.
type Archive struct {
	Entries []Entry
	// Root indexes the root layer in Entries, or is -1.
	Root int
}

// RootLayer returns the root layer entry.
func (a *Archive) RootLayer() (*Entry, error) {
	if a.Root < 0 {
		return nil, ErrNoLayer
	}
	return &a.Entries[a.Root], nil
}

// Read decodes a package. Entries must be stored uncompressed. Misaligned
// entries are reported as warnings.
func Read(data []byte) (*Archive, []string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrArchive, err)
	}
	a := &Archive{Root: -1}
	var warnings []string
	for _, f := range zr.File {
		if f.Method != zip.Store {
			return nil, nil, fmt.Errorf("%w: %s uses method %d", ErrCompressed, f.Name, f.Method)
		}
		if f.UncompressedSize64 > uint64(len(data)) {
			return nil, nil, fmt.Errorf("%w: %s claims %d bytes", ErrArchive, f.Name, f.UncompressedSize64)
		}
		off, err := f.DataOffset()
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrArchive, f.Name, err)
		}
		if off%Alignment != 0 {
			warnings = append(warnings, fmt.Sprintf("%s: data at offset %d is not %d byte aligned", f.Name, off, Alignment))
		}
		body, err := readEntry(f)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %w", ErrArchive, f.Name, err)
		}
		a.Entries = append(a.Entries, Entry{Name: f.Name, Offset: off, Data: body})
		e := &a.Entries[len(a.Entries)-1]
		switch {
		case e.Format() == format.Unknown:
		case a.Root < 0:
			a.Root = len(a.Entries) - 1
		default:
			warnings = append(warnings, fmt.Sprintf("%s: extra layer ignored, root layer is %s", e.Name, a.Entries[a.Root].Name))
		}
	}
	return a, warnings, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// Write writes entries as a package with stored, aligned data.
func Write(w io.Writer, entries []Entry) error {
	cw := &countWriter{w: w}
	zw := zip.NewWriter(cw)
	seen := map[string]bool{}
	for i := range entries {
		e := &entries[i]
		if e.Name == "" || seen[e.Name] {
			return fmt.Errorf("%w: bad or duplicate entry name %q", ErrArchive, e.Name)
		}
		seen[e.Name] = true
		if err := zw.Flush(); err != nil {
			return err
		}
		hdr := &zip.FileHeader{
			Name:               e.Name,
			Method:             zip.Store,
			CRC32:              crc32.ChecksumIEEE(e.Data),
			CompressedSize64:   uint64(len(e.Data)),
			UncompressedSize64: uint64(len(e.Data)),
			Extra:              padding(cw.n, e.Name),
		}
		fw, err := zw.CreateRaw(hdr)
		if err != nil {
			return err
		}
		if _, err := fw.Write(e.Data); err != nil {
			return err
		}
	}
	return zw.Close()
}

// localHeaderSize is the fixed part of a zip local file header.
const localHeaderSize = 30

// padding returns an extra field making the data of an entry whose local
// header starts at off land on an Alignment boundary.
func padding(off int64, name string) []byte {
	end := off + localHeaderSize + int64(len(name))
	if end%Alignment == 0 {
		return nil
	}
	// An extra field needs at least its 4 byte header.
	n := int(Alignment - (end+4)%Alignment)
	if n == Alignment {
		n = 0
	}
	extra := make([]byte, 4+n)
	extra[0], extra[1] = byte(paddingID&0xff), byte(paddingID>>8)
	extra[2], extra[3] = byte(n), byte(n>>8)
	return extra
}

type countWriter struct {
	w io.Writer
	n int64
}

func (c *countWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
