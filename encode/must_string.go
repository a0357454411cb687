package encode

import (
	"bytes"

	"github.com/signadot/usd-format/go-usd/ir"
)

// String returns the USDA text of st.
func String(st *ir.Stage, opts ...EncodeOption) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := Encode(st, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// PrimString returns the USDA text of p and its subtree.
func PrimString(p *ir.Prim, opts ...EncodeOption) (string, error) {
	buf := bytes.NewBuffer(nil)
	if err := EncodePrim(p, buf, opts...); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func MustString(st *ir.Stage) string {
	s, err := String(st)
	if err != nil {
		panic(err)
	}
	return s
}
