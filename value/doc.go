// Package value provides the typed value model for scene documents.
//
// # Value Types
//
// Every attribute value has a [ValueType] drawn from a closed set of
// scalar, vector, quaternion and matrix kinds in half, float and double
// precision, plus the textual kinds token and string. The byte size and
// component count of a type are pure functions of the tag:
//
//	value.Sizeof(value.TypeColor3f)     // 4
//	value.Components(value.TypeColor3f) // 3
//	value.ElementSize(value.TypeColor3f) // 12
//
// # Buffers
//
// A [Buffer] holds either a single element (NDim == 0) or a one dimensional
// array (NDim == 1, Shape[0] elements) of one value type. Components are
// kept in a flat slice whose Go element type is fixed by the scalar kind of
// the value type, so every consumer switches over a closed set of slice
// types:
//
//	b := value.NewFloat3(value.Float3{1, 2, 3})
//	v, err := b.Float3()
//
//	pts := value.NewFloat3Array([]value.Float3{{0, 0, 0}, {1, 1, 1}})
//	pts, err = pts.WithRole(value.TypePoint3f)
//
// Role types (color, point, normal, vector, texcoord) share their layout
// with the plain vector type of the same precision and arity; the typed
// accessors accept any role with a matching layout.
//
// # Tokens and Strings
//
// [Token] is an interned identifier compared by value with ==. [String] is
// an owned, mutable text buffer.
//
// # Related Packages
//
//   - github.com/signadot/usd-format/go-usd/ir - prims, properties and stages
//   - github.com/signadot/usd-format/go-usd/encode - text export
package value
