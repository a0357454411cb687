// Package ir provides the in-memory document model for scene descriptions.
//
// # Overview
//
// A [Stage] holds document metadata and an ordered list of root [Prim]s.
// Each Prim is a named, typed node owning an ordered set of named
// [Property] values and an ordered list of child Prims. All documents,
// whether parsed from text, decoded from binary, unpacked from a package or
// built programmatically, are represented this way.
//
// # Properties
//
// A Property is exactly one of
//
//   - an [Attribute]: typed data in one of the modes unset, value (a
//     value.Buffer), connection (source attribute paths) or blocked
//   - a [Relationship]: target paths, or blocked
//
// Besides its mode, an attribute may carry [TimeSample] values ordered by
// time code. Properties keep insertion order so that documents
// re-serialize in the order they were written.
//
// # Ownership
//
// A Prim has at most one owner: a parent Prim or a Stage. AppendChild and
// AppendRootPrim transfer ownership, and fail with ErrAlreadyOwned for a
// prim which already has an owner or which would create a cycle. Prims
// returned by Child, RootPrim, traversal and iteration are references.
// Deleting a prim through its owner frees its subtree.
//
// # Traversal
//
// Stage.Traverse walks the tree depth first in pre-order with a visitor
// which may stop the walk. Stage.All provides the same walk as a range
// over function iterator:
//
//	for path, prim := range st.All() {
//		if prim.Type() == ir.MeshType {
//			fmt.Println(path)
//		}
//	}
//
// # Concurrency
//
// Nothing in this package is safe for concurrent mutation. A stage which
// is no longer mutated may be read and traversed from any number of
// goroutines.
//
// # Related Packages
//
//   - github.com/signadot/usd-format/go-usd/value - value types and buffers
//   - github.com/signadot/usd-format/go-usd/ir/spath - scene paths
//   - github.com/signadot/usd-format/go-usd/encode - text export
package ir
