// Package usdz reads and writes USDZ packages: zip archives whose entries
// are stored uncompressed with their data aligned to 64 bytes.
//
// The first .usda or .usdc entry is the root layer. Other entries are
// assets; they are kept in the Archive and reported as warnings when a
// package is parsed as a stage.
//
// # Usage
//
//	a, warnings, err := usdz.Read(data)
//	if err != nil {
//	    return err
//	}
//	root, err := a.RootLayer()
//
// Importing the package registers the USDZ codec with package codec. Its
// Serialize writes a single root.usdc entry; use Codec(format.USDA) for a
// text root layer.
//
// # Related Packages
//
//   - github.com/signadot/usd-format/go-usd/crate - Binary layers
//   - github.com/signadot/usd-format/go-usd/codec - Codec registry
package usdz
