// Package usd loads and saves USD scene documents.
//
// A document is decoded into an *ir.Stage by the codec registered for
// its format: USDA text, USDC binary crate or a USDZ package. The format
// is forced with WithFormat or detected from the file extension and the
// leading bytes.
//
// # Usage
//
//	st, warnings, err := usd.LoadFromFile("scene.usda", usd.Lenient(true))
//	if err != nil {
//	    return err
//	}
//	defer st.Free()
//	if warnings != "" {
//	    log.Print(warnings)
//	}
//	err = usd.SaveToFile(st, "scene.usdc")
//
// Errors wrap ErrFileNotFound, ErrUnsupportedFormat or ErrParse and are
// tested with errors.Is.
//
// # Related Packages
//
//   - github.com/signadot/usd-format/go-usd/ir - Stage, prims and properties
//   - github.com/signadot/usd-format/go-usd/format - Format detection
//   - github.com/signadot/usd-format/go-usd/codec - Codec registry
//   - github.com/signadot/usd-format/go-usd/encode - USDA text output
package usd
