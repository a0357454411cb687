// Package encode encodes stages and prims to USDA text.
//
// # Usage
//
//	// Encode a stage
//	err := encode.Encode(st, os.Stdout)
//
//	// As a string, with 4 space indentation
//	text, err := encode.String(st, encode.Indent(4))
//
//	// Colored for a terminal
//	err = encode.Encode(st, os.Stdout, encode.EncodeColors(encode.NewColors()))
//
// Output starts with the "#usda 1.0" header and the layer metadata block,
// followed by the root prims in order. Properties are written in
// insertion order before child prims. The output parses back to an equal
// stage with package parse.
//
// # Related Packages
//
//   - github.com/signadot/usd-format/go-usd/ir - Stage and prim model
//   - github.com/signadot/usd-format/go-usd/parse - Parse USDA text
package encode
