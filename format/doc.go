// Package format names the encodings of scene documents and classifies
// byte streams and files among them.
//
// # Usage
//
//	f := format.Detect(data, "scene.usd") // sniffs: .usd may be text or binary
//	f, err := format.DetectFile("scene.usdz")
//	ok := format.IsUSDC(data)
//
// # Related Packages
//
//   - github.com/signadot/usd-format/go-usd - load and save entry points
//   - github.com/signadot/usd-format/go-usd/codec - per format codecs
package format
