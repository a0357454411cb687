// Package spath implements scene paths, the addresses of prims and
// properties within a stage.
//
// Scene paths have three shapes:
//
//	/                      the root
//	/World/Cube            a prim path
//	/World/Cube.points     a property path
//
// Paths are parsed and printed canonically, so there is exactly one text
// form per Path and Path values may be compared with ==.
package spath
