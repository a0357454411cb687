package libdiff

import (
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// step is one element of an aligned sequence: an index into from, into
// to, or both when the element is kept.
type step struct {
	op       diffpatch.Operation
	from, to int
}

// diffNames aligns two lists of unique names, keeping their order. Each
// name is mapped to a rune so the sequences can be diffed like text.
func diffNames(from, to []string) []step {
	m := map[string]rune{}
	fromRunes := mapNames(m, from)
	toRunes := mapNames(m, to)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)
	var res []step
	fi, ti := 0, 0
	for i := range diffs {
		d := &diffs[i]
		for range []rune(d.Text) {
			switch d.Type {
			case diffpatch.DiffDelete:
				res = append(res, step{op: d.Type, from: fi, to: -1})
				fi++
			case diffpatch.DiffEqual:
				res = append(res, step{op: d.Type, from: fi, to: ti})
				fi++
				ti++
			case diffpatch.DiffInsert:
				res = append(res, step{op: d.Type, from: -1, to: ti})
				ti++
			}
		}
	}
	return res
}

func mapNames(m map[string]rune, names []string) []rune {
	rs := make([]rune, len(names))
	for i, n := range names {
		r, ok := m[n]
		if !ok {
			// Stay clear of the surrogate range, which does not survive
			// the conversion to string inside the diff.
			r = rune(len(m))
			if r >= 0xd800 {
				r += 0x800
			}
			m[n] = r
		}
		rs[i] = r
	}
	return rs
}
