package libdiff

import (
	"strings"

	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

// Text returns a line diff of two texts, typically two USDA renderings.
// Each output line starts with "+ ", "- " or "  ". It returns "" when
// the texts are equal.
func Text(from, to string) string {
	if from == to {
		return ""
	}
	dmp := diffpatch.New()
	a, b, lines := dmp.DiffLinesToRunes(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMainRunes(a, b, false), lines)
	var sb strings.Builder
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffpatch.DiffInsert:
			prefix = "+ "
		case diffpatch.DiffDelete:
			prefix = "- "
		}
		for _, ln := range strings.SplitAfter(d.Text, "\n") {
			if ln == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(ln)
			if !strings.HasSuffix(ln, "\n") {
				sb.WriteByte('\n')
			}
		}
	}
	return sb.String()
}
