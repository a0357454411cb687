package libdiff

import (
	"strings"

	"github.com/signadot/usd-format/go-usd/ir/spath"
)

type Op int

const (
	Insert Op = iota
	Delete
	Replace
)

func (o Op) String() string {
	switch o {
	case Insert:
		return "+"
	case Delete:
		return "-"
	case Replace:
		return "~"
	}
	return "?"
}

// Change is one difference between two stages.
type Change struct {
	Op   Op
	Path spath.Path
	// Field names the prim field or metadata entry the change is about,
	// such as "type" or "metadata.kind". It is empty when a whole prim or
	// property is inserted, deleted or replaced.
	Field string
	// From and To summarize the old and new content. From is empty for
	// an Insert and To for a Delete.
	From, To string
}

func (c Change) String() string {
	var sb strings.Builder
	sb.WriteString(c.Op.String())
	sb.WriteByte(' ')
	sb.WriteString(c.Path.String())
	if c.Field != "" {
		sb.WriteByte(' ')
		sb.WriteString(c.Field)
	}
	switch c.Op {
	case Insert:
		summary(&sb, c.To)
	case Delete:
		summary(&sb, c.From)
	case Replace:
		sb.WriteString(": ")
		sb.WriteString(c.From)
		sb.WriteString(" -> ")
		sb.WriteString(c.To)
	}
	return sb.String()
}

func summary(sb *strings.Builder, s string) {
	if s == "" {
		return
	}
	sb.WriteString(": ")
	sb.WriteString(s)
}

// Reverse returns the changes turning the new stage back into the old
// one.
func Reverse(changes []Change) []Change {
	res := make([]Change, len(changes))
	for i, c := range changes {
		switch c.Op {
		case Insert:
			c.Op = Delete
		case Delete:
			c.Op = Insert
		}
		c.From, c.To = c.To, c.From
		res[i] = c
	}
	return res
}
