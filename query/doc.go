// Package query selects prims with boolean expr-lang expressions.
//
// An expression sees the fields of Env for each prim: name, type,
// specifier, path, depth (1 for root prims), props, numChildren and the
// function has(name).
//
// # Usage
//
//	paths, err := query.Find(st, `type == "Mesh" && has("points")`)
package query
