// Package dump renders a stage as a YAML or JSON tree, for inspection and
// for tools that do not read USD.
//
// Key order follows the stage: metadata in document order, prims and
// properties in insertion order.
package dump
