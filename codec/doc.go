// Package codec defines the boundary between the stage model and the file
// formats, and a registry of codecs by format.
//
// The USDA text codec is registered here. Packages crate and usdz
// register the binary and packaged codecs when imported.
//
// # Usage
//
//	c, err := codec.Get(format.USDA)
//	if err != nil {
//	    return err
//	}
//	st, warnings, err := c.Parse(data, codec.Options{Lenient: true})
//
// # Related Packages
//
//   - github.com/signadot/usd-format/go-usd/format - Format detection
//   - github.com/signadot/usd-format/go-usd/crate - Binary codec
//   - github.com/signadot/usd-format/go-usd/usdz - Packaged codec
package codec
