package dump

import (
	"github.com/signadot/usd-format/go-usd/value"
)

// Value converts b to plain Go data: strings, bools, int64, uint64 and
// float64 scalars, with tuples, matrix rows and arrays as slices.
func Value(b *value.Buffer) (any, error) {
	if b.IsFreed() {
		return nil, value.ErrFreed
	}
	t := b.Type()
	switch t {
	case value.TypeToken:
		if !b.IsArray() {
			tok, err := b.Token()
			return tok.Str(), err
		}
		toks, err := b.TokenArray()
		if err != nil {
			return nil, err
		}
		res := make([]any, len(toks))
		for i, tok := range toks {
			res[i] = tok.Str()
		}
		return res, nil
	case value.TypeString:
		if !b.IsArray() {
			return b.Str()
		}
		strs, err := b.StringArray()
		if err != nil {
			return nil, err
		}
		res := make([]any, len(strs))
		for i, s := range strs {
			res[i] = s
		}
		return res, nil
	}
	comps, err := components(b)
	if err != nil {
		return nil, err
	}
	n := value.Components(t)
	elem := func(i int) any {
		c := comps[i*n : (i+1)*n]
		switch {
		case n == 1:
			return c[0]
		case isMatrix(t):
			dim := matrixDim(t)
			rows := make([]any, dim)
			for r := range dim {
				rows[r] = c[r*dim : (r+1)*dim]
			}
			return rows
		}
		return c
	}
	if !b.IsArray() {
		return elem(0), nil
	}
	res := make([]any, b.Len())
	for i := range res {
		res[i] = elem(i)
	}
	return res, nil
}

// components returns the flat components of a numeric buffer in the Go
// type that represents them exactly.
func components(b *value.Buffer) ([]any, error) {
	t := b.Type()
	switch t {
	case value.TypeInt64:
		vs, err := int64s(b)
		return boxed(vs), err
	case value.TypeUInt64:
		var vs []uint64
		var err error
		if b.IsArray() {
			vs, err = b.UInt64Array()
		} else {
			var v uint64
			v, err = b.UInt64()
			vs = []uint64{v}
		}
		return boxed(vs), err
	}
	fs, err := b.Float64s()
	if err != nil {
		return nil, err
	}
	res := make([]any, len(fs))
	for i, f := range fs {
		switch {
		case t == value.TypeBool:
			res[i] = f != 0
		case value.IsIntegral(t):
			res[i] = int64(f)
		default:
			res[i] = f
		}
	}
	return res, nil
}

func int64s(b *value.Buffer) ([]int64, error) {
	if b.IsArray() {
		return b.Int64Array()
	}
	v, err := b.Int64()
	return []int64{v}, err
}

func boxed[E any](vs []E) []any {
	res := make([]any, len(vs))
	for i, v := range vs {
		res[i] = v
	}
	return res
}

func isMatrix(t value.ValueType) bool {
	return matrixDim(t) != 0
}

func matrixDim(t value.ValueType) int {
	switch t {
	case value.TypeMatrix2d:
		return 2
	case value.TypeMatrix3d:
		return 3
	case value.TypeMatrix4d, value.TypeFrame4d:
		return 4
	}
	return 0
}
