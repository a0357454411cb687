// Package token provides tokenization of USDA text layers.
//
// [Tokenize] is a function for tokenizing bytes. It recognizes
// identifiers (including namespaced "inputs:rgb" and suffixed "x.connect"
// forms), numbers, quoted strings, <paths>, @asset@ paths and punctuation,
// and checks that brackets balance. Errors carry a [Pos] with line and
// column.
package token
