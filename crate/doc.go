// Package crate reads and writes the binary USD layer format.
//
// A crate file starts with an 88 byte bootstrap header holding the
// "PXR-USDC" magic, a version and the offset of the table of contents
// (TOC). The TOC names the sections of the file: TOKENS, STRINGS, PATHS,
// FIELDS, FIELDSETS and SPECS. Each spec ties a path to a field set and a
// spec type; the stage is rebuilt from the pseudo-root spec by following
// primChildren and properties fields.
//
// Section payloads over a few hundred bytes are zstd compressed when that
// makes them smaller.
//
// This package writes its own field encoding, so files from other crate
// writers decode only as far as their sections follow the same layout.
//
// # Usage
//
//	data, err := crate.Encode(st)
//	if err != nil {
//	    return err
//	}
//	st2, warnings, err := crate.Decode(data, false)
//
// Importing the package registers the USDC codec with package codec.
//
// # Related Packages
//
//   - github.com/signadot/usd-format/go-usd/codec - Codec registry
//   - github.com/signadot/usd-format/go-usd/usdz - Zip packages of layers
package crate
