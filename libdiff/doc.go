// Package libdiff computes structural differences between stages.
//
// Prims, properties and metadata entries are matched by name among their
// siblings; the sequences of names are aligned with a rune mapped text
// diff so order is preserved and moved entries show as a delete and an
// insert.
//
// # Usage
//
//	changes, err := libdiff.Diff(oldStage, newStage)
//	if err != nil {
//	    return err
//	}
//	for _, c := range changes {
//	    fmt.Println(c)
//	}
//
// Text gives a line diff of two renderings instead.
//
// # Related Packages
//
//   - github.com/signadot/usd-format/go-usd/ir - Stage representation
//   - github.com/signadot/usd-format/go-usd/encode - USDA rendering
package libdiff
