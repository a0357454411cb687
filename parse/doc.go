// Package parse parses USDA text layers into stages.
//
// # Usage
//
//	st, err := parse.Parse(data)
//	if err != nil {
//	    return err
//	}
//
//	// Keep going past content the model does not represent
//	var warnings []string
//	st, err = parse.Parse(data, parse.Lenient(true), parse.ParseWarnings(&warnings))
//
// The accepted grammar is the "#usda 1.0" header, an optional layer
// metadata block, and def, over and class prims with attributes,
// connections, time samples, relationships and metadata. Composition arcs
// and variant sets are not modeled: they are errors by default and
// skipped with a warning under [Lenient].
//
// Errors wrap [ErrParse] and carry the line and column of the offending
// token.
//
// # Related Packages
//
//   - github.com/signadot/usd-format/go-usd/ir - Stage and prim model
//   - github.com/signadot/usd-format/go-usd/encode - Encode stages to USDA
//   - github.com/signadot/usd-format/go-usd/token - Tokenization
package parse
