package format

import (
	"bytes"
	"errors"
	"io"
	"os"
)

const (
	// CrateMagic opens every binary crate file.
	CrateMagic = "PXR-USDC"
	// ZipMagic is the zip local file header signature.
	ZipMagic = "PK\x03\x04"
	// TextDirective opens every text layer, after optional white space.
	TextDirective = "#usda"

	// HeaderSize is the number of leading bytes DetectFile reads.
	HeaderSize = 1024
)

// Detect classifies data. A hint, if not empty or "auto", is either a
// format name ("usda") or a file name whose extension names a format
// ("scene.usdz"); a hint which names a format wins without looking at
// data. Otherwise data is sniffed, in order, for the crate magic, the zip
// signature and the text directive. Anything else, including empty data,
// is Unknown.
func Detect(data []byte, hint string) Format {
	if f := fromHint(hint); f.IsConcrete() {
		return f
	}
	return Sniff(data)
}

func fromHint(hint string) Format {
	if hint == "" {
		return Auto
	}
	if f, err := ParseFormat(hint); err == nil {
		return f
	}
	return FromSuffix(hint)
}

// Sniff classifies data by content alone.
func Sniff(data []byte) Format {
	switch {
	case bytes.HasPrefix(data, []byte(CrateMagic)):
		return USDC
	case bytes.HasPrefix(data, []byte(ZipMagic)):
		return USDZ
	case isText(data):
		return USDA
	}
	return Unknown
}

func isText(data []byte) bool {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	data = bytes.TrimLeft(data, " \t\r\n")
	if !bytes.HasPrefix(data, []byte(TextDirective)) {
		return false
	}
	rest := data[len(TextDirective):]
	return len(rest) == 0 || bytes.IndexByte([]byte(" \t\r\n"), rest[0]) >= 0
}

// DetectFile classifies the file at path by extension, falling back to
// its first HeaderSize bytes.
func DetectFile(path string) (Format, error) {
	if f := FromSuffix(path); f.IsConcrete() {
		if _, err := os.Stat(path); err != nil {
			return Unknown, err
		}
		return f, nil
	}
	hdr, err := readHeader(path)
	if err != nil {
		return Unknown, err
	}
	return Sniff(hdr), nil
}

func readHeader(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	buf := make([]byte, HeaderSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return buf[:n], nil
}

func IsUSDA(data []byte) bool { return Sniff(data) == USDA }
func IsUSDC(data []byte) bool { return Sniff(data) == USDC }
func IsUSDZ(data []byte) bool { return Sniff(data) == USDZ }
func IsUSD(data []byte) bool  { return Sniff(data).IsConcrete() }

// The File variants look at content only, so a misnamed file is
// classified by what it holds. Unreadable files are not USD.

func IsUSDAFile(path string) bool { return sniffFile(path) == USDA }
func IsUSDCFile(path string) bool { return sniffFile(path) == USDC }
func IsUSDZFile(path string) bool { return sniffFile(path) == USDZ }
func IsUSDFile(path string) bool  { return sniffFile(path).IsConcrete() }

func sniffFile(path string) Format {
	hdr, err := readHeader(path)
	if err != nil {
		return Unknown
	}
	return Sniff(hdr)
}
