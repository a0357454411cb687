package query

import (
	"errors"
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/usd-format/go-usd/ir"
	"github.com/signadot/usd-format/go-usd/ir/spath"
)

var ErrQuery = errors.New("query error")

// Env is the environment a query sees for one prim.
type Env struct {
	Name        string            `expr:"name"`
	Type        string            `expr:"type"`
	Specifier   string            `expr:"specifier"`
	Path        string            `expr:"path"`
	Depth       int               `expr:"depth"`
	Props       []string          `expr:"props"`
	NumChildren int               `expr:"numChildren"`
	Has         func(string) bool `expr:"has"`
}

// NewEnv returns the environment of p at path.
func NewEnv(p *ir.Prim, path spath.Path) *Env {
	props := p.PropertyNames()
	return &Env{
		Name:        p.Name(),
		Type:        p.TypeName(),
		Specifier:   p.Specifier.String(),
		Path:        path.String(),
		Depth:       path.Depth(),
		Props:       props,
		NumChildren: p.NumChildren(),
		Has:         func(name string) bool { return slices.Contains(props, name) },
	}
}

// Query is a compiled boolean prim filter, such as
//
//	type == "Mesh" && has("points") && depth > 1
type Query struct {
	src  string
	prog *vm.Program
}

// Compile compiles src, which must evaluate to a bool.
func Compile(src string) (*Query, error) {
	prog, err := expr.Compile(src, expr.Env(&Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrQuery, err)
	}
	return &Query{src: src, prog: prog}, nil
}

func (q *Query) String() string { return q.src }

// Match reports whether p, found at path, satisfies q.
func (q *Query) Match(p *ir.Prim, path spath.Path) (bool, error) {
	out, err := vm.Run(q.prog, NewEnv(p, path))
	if err != nil {
		return false, fmt.Errorf("%w: %s at %s: %w", ErrQuery, q.src, path, err)
	}
	return out.(bool), nil
}

// Find returns the paths of the prims of st satisfying q, in traversal
// order.
func (q *Query) Find(st *ir.Stage) ([]spath.Path, error) {
	var res []spath.Path
	for path, p := range st.All() {
		ok, err := q.Match(p, path)
		if err != nil {
			return nil, err
		}
		if ok {
			res = append(res, path)
		}
	}
	return res, nil
}

// Find compiles src and runs it on st.
func Find(st *ir.Stage, src string) ([]spath.Path, error) {
	q, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return q.Find(st)
}
