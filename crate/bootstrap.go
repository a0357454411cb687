package crate

import (
	"encoding/binary"
	"fmt"

	"github.com/signadot/usd-format/go-usd/format"
)

// BootstrapSize is the size of the fixed header at the start of a crate
// file: magic, version, TOC offset and reserved space.
const BootstrapSize = 88

// Version is the crate version written by this package.
var Version = [3]uint8{0, 8, 0}

// MinVersion is the oldest readable crate version.
var MinVersion = [3]uint8{0, 4, 0}

type Bootstrap struct {
	Version   [3]uint8
	TOCOffset int64
}

func (b *Bootstrap) VersionString() string {
	return fmt.Sprintf("%d.%d.%d", b.Version[0], b.Version[1], b.Version[2])
}

// ReadBootstrap decodes and checks the header of data. The TOC offset must
// lie after the header and inside data.
func ReadBootstrap(data []byte) (*Bootstrap, error) {
	if len(data) < BootstrapSize {
		if len(data) >= len(format.CrateMagic) && string(data[:len(format.CrateMagic)]) == format.CrateMagic {
			return nil, fmt.Errorf("%w: %d bytes is shorter than the header", ErrTOC, len(data))
		}
		return nil, ErrMagic
	}
	if string(data[:8]) != format.CrateMagic {
		return nil, fmt.Errorf("%w: magic %q", ErrMagic, data[:8])
	}
	b := &Bootstrap{}
	copy(b.Version[:], data[8:11])
	if b.Version[0] != MinVersion[0] || b.Version[1] < MinVersion[1] {
		return nil, fmt.Errorf("%w: %s", ErrVersion, b.VersionString())
	}
	b.TOCOffset = int64(binary.LittleEndian.Uint64(data[16:24]))
	if b.TOCOffset <= BootstrapSize || b.TOCOffset >= int64(len(data)) {
		return nil, fmt.Errorf("%w: offset %d in a file of %d bytes", ErrTOC, b.TOCOffset, len(data))
	}
	return b, nil
}

// Append appends the encoded header to dst.
func (b *Bootstrap) Append(dst []byte) []byte {
	dst = append(dst, format.CrateMagic...)
	var ver [8]byte
	copy(ver[:], b.Version[:])
	dst = append(dst, ver[:]...)
	dst = binary.LittleEndian.AppendUint64(dst, uint64(b.TOCOffset))
	var reserved [BootstrapSize - 24]byte
	return append(dst, reserved[:]...)
}
