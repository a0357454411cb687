package crate

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

const (
	sectionNameSize  = 16
	sectionEntrySize = sectionNameSize + 16
)

// Section names, as in USD crate files.
const (
	SectionTokens    = "TOKENS"
	SectionStrings   = "STRINGS"
	SectionFields    = "FIELDS"
	SectionFieldSets = "FIELDSETS"
	SectionPaths     = "PATHS"
	SectionSpecs     = "SPECS"
)

// Section is a table of contents entry: a named byte range of the file.
type Section struct {
	Name  string
	Start int64
	Size  int64
}

type TOC []Section

// ReadTOC decodes the table of contents at off and checks that every
// section lies between the header and the table.
func ReadTOC(data []byte, off int64) (TOC, error) {
	if off < BootstrapSize || off+8 > int64(len(data)) {
		return nil, fmt.Errorf("%w: offset %d", ErrTOC, off)
	}
	n := binary.LittleEndian.Uint64(data[off:])
	rest := int64(len(data)) - off - 8
	if n > uint64(rest/sectionEntrySize) {
		return nil, fmt.Errorf("%w: %d sections do not fit in %d bytes", ErrTOC, n, rest)
	}
	toc := make(TOC, 0, n)
	p := off + 8
	for i := uint64(0); i < n; i++ {
		ent := data[p : p+sectionEntrySize]
		name := ent[:sectionNameSize]
		if j := bytes.IndexByte(name, 0); j >= 0 {
			name = name[:j]
		}
		s := Section{
			Name:  string(name),
			Start: int64(binary.LittleEndian.Uint64(ent[16:])),
			Size:  int64(binary.LittleEndian.Uint64(ent[24:])),
		}
		if s.Start < BootstrapSize || s.Size < 0 || s.Start > off || s.Size > off-s.Start {
			return nil, fmt.Errorf("%w: section %s [%d, +%d) outside [%d, %d)", ErrTOC, s.Name, s.Start, s.Size, BootstrapSize, off)
		}
		toc = append(toc, s)
		p += sectionEntrySize
	}
	return toc, nil
}

// Find returns the section named name.
func (t TOC) Find(name string) (Section, bool) {
	for _, s := range t {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Append appends the encoded table to dst.
func (t TOC) Append(dst []byte) []byte {
	dst = binary.LittleEndian.AppendUint64(dst, uint64(len(t)))
	for _, s := range t {
		var name [sectionNameSize]byte
		copy(name[:sectionNameSize-1], s.Name)
		dst = append(dst, name[:]...)
		dst = binary.LittleEndian.AppendUint64(dst, uint64(s.Start))
		dst = binary.LittleEndian.AppendUint64(dst, uint64(s.Size))
	}
	return dst
}
