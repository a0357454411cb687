package spath

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidPath = errors.New("invalid path")

// Path addresses a prim or a property of a prim within a stage. It is a
// comparable value: two paths are == exactly when their canonical text is
// equal. The zero Path is the root path "/".
//
// A Path is exactly one of
//   - the root path "/"
//   - a prim path "/a/b"
//   - a property path "/a/b.prop"
//
// Property names may be namespaced with ':' as in "xformOp:translate".
type Path struct {
	// prim is the prim part without its leading '/', "" for the root.
	prim string
	prop string
}

// Root returns the root path "/".
func Root() Path { return Path{} }

// PrimPath builds a prim path from prim names. PrimPath() is the root path.
func PrimPath(names ...string) (Path, error) {
	for _, n := range names {
		if !IsIdentifier(n) {
			return Path{}, fmt.Errorf("%w: bad prim name %q", ErrInvalidPath, n)
		}
	}
	return Path{prim: strings.Join(names, "/")}, nil
}

// MustPrimPath is PrimPath which panics on error.
func MustPrimPath(names ...string) Path {
	p, err := PrimPath(names...)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse parses the canonical text form of a path.
//
// Examples:
//   - "/" → root
//   - "/World/Cube" → prim path
//   - "/World/Cube.xformOp:translate" → property path
//
// Malformed text (a missing leading '/', an empty prim component, a
// trailing '/' or '.', a second '.', a property on the root, or characters
// outside identifiers) fails with ErrInvalidPath.
func Parse(text string) (Path, error) {
	if text == "/" {
		return Path{}, nil
	}
	if !strings.HasPrefix(text, "/") {
		return Path{}, fmt.Errorf("%w: %q does not start with '/'", ErrInvalidPath, text)
	}
	primPart, prop, hasProp := strings.Cut(text[1:], ".")
	if hasProp {
		if primPart == "" {
			return Path{}, fmt.Errorf("%w: %q has a property on the root", ErrInvalidPath, text)
		}
		if !IsPropertyName(prop) {
			return Path{}, fmt.Errorf("%w: %q has bad property name %q", ErrInvalidPath, text, prop)
		}
	}
	for i, n := range strings.Split(primPart, "/") {
		if n == "" {
			return Path{}, fmt.Errorf("%w: %q has an empty prim name at component %d", ErrInvalidPath, text, i)
		}
		if !IsIdentifier(n) {
			return Path{}, fmt.Errorf("%w: %q has bad prim name %q", ErrInvalidPath, text, n)
		}
	}
	return Path{prim: primPart, prop: prop}, nil
}

// MustParse is Parse which panics on error.
func MustParse(text string) Path {
	p, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Path) IsRoot() bool         { return p.prim == "" }
func (p Path) IsPrimPath() bool     { return p.prim != "" && p.prop == "" }
func (p Path) IsPropertyPath() bool { return p.prop != "" }

func (p Path) String() string {
	if p.prop != "" {
		return "/" + p.prim + "." + p.prop
	}
	return "/" + p.prim
}

func (p Path) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

func (p *Path) UnmarshalText(d []byte) error {
	q, err := Parse(string(d))
	if err != nil {
		return err
	}
	*p = q
	return nil
}

// PrimPart returns p without its property name.
func (p Path) PrimPart() Path { return Path{prim: p.prim} }

// PropPart returns the property name of p, or "" if p is not a property
// path.
func (p Path) PropPart() string { return p.prop }

// Name returns the last element of p: the property name of a property
// path, the prim name of a prim path and "" for the root.
func (p Path) Name() string {
	if p.prop != "" {
		return p.prop
	}
	if i := strings.LastIndexByte(p.prim, '/'); i >= 0 {
		return p.prim[i+1:]
	}
	return p.prim
}

// PrimNames returns the prim names of p from the root down.
func (p Path) PrimNames() []string {
	if p.prim == "" {
		return nil
	}
	return strings.Split(p.prim, "/")
}

// Depth is the number of prim names in p.
func (p Path) Depth() int {
	if p.prim == "" {
		return 0
	}
	return strings.Count(p.prim, "/") + 1
}

// Parent returns the prim containing a property path, or the parent prim
// of a prim path. The parent of the root is the root.
func (p Path) Parent() Path {
	if p.prop != "" {
		return Path{prim: p.prim}
	}
	if i := strings.LastIndexByte(p.prim, '/'); i >= 0 {
		return Path{prim: p.prim[:i]}
	}
	return Path{}
}

// AppendChild returns the prim path of a child named name under p, which
// must be a prim path or the root.
func (p Path) AppendChild(name string) (Path, error) {
	if p.prop != "" {
		return Path{}, fmt.Errorf("%w: child %q of property path %s", ErrInvalidPath, name, p)
	}
	if !IsIdentifier(name) {
		return Path{}, fmt.Errorf("%w: bad prim name %q", ErrInvalidPath, name)
	}
	if p.prim == "" {
		return Path{prim: name}, nil
	}
	return Path{prim: p.prim + "/" + name}, nil
}

// AppendProperty returns the property path of name on the prim path p.
func (p Path) AppendProperty(name string) (Path, error) {
	if !p.IsPrimPath() {
		return Path{}, fmt.Errorf("%w: property %q of %s", ErrInvalidPath, name, p)
	}
	if !IsPropertyName(name) {
		return Path{}, fmt.Errorf("%w: bad property name %q", ErrInvalidPath, name)
	}
	return Path{prim: p.prim, prop: name}, nil
}

// HasPrefix reports whether p is q or lies beneath q.
func (p Path) HasPrefix(q Path) bool {
	if q.prop != "" {
		return p == q
	}
	if q.prim == "" {
		return true
	}
	if p.prim == q.prim {
		return true
	}
	return strings.HasPrefix(p.prim, q.prim+"/")
}

func (p Path) Equal(q Path) bool { return p == q }

// Compare orders paths by prim names component-wise, so parents sort
// before their children, and a prim path before its property paths.
func (p Path) Compare(q Path) int {
	pn, qn := p.PrimNames(), q.PrimNames()
	for i := 0; i < len(pn) && i < len(qn); i++ {
		if c := strings.Compare(pn[i], qn[i]); c != 0 {
			return c
		}
	}
	switch {
	case len(pn) < len(qn):
		return -1
	case len(pn) > len(qn):
		return 1
	}
	return strings.Compare(p.prop, q.prop)
}

// IsIdentifier reports whether s is a valid prim name:
// [A-Za-z_][A-Za-z0-9_]*.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}

// IsPropertyName reports whether s is a valid, possibly namespaced,
// property name such as "points" or "inputs:diffuseColor".
func IsPropertyName(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ":") {
		if !IsIdentifier(part) {
			return false
		}
	}
	return true
}

// Resolve interprets text relative to the prim path base. Absolute text
// is parsed as is. Relative text is a '/' separated list of child names,
// "." and "..", optionally ending in a property: "../Tex.outputs:rgb",
// ".size" or "Child".
func Resolve(base Path, text string) (Path, error) {
	if strings.HasPrefix(text, "/") {
		return Parse(text)
	}
	if base.prop != "" {
		return Path{}, fmt.Errorf("%w: %q relative to property path %s", ErrInvalidPath, text, base)
	}
	if text == "" {
		return Path{}, fmt.Errorf("%w: empty path", ErrInvalidPath)
	}
	cur := base
	segs := strings.Split(text, "/")
	for i, seg := range segs {
		var prop string
		if i == len(segs)-1 && seg != ".." {
			if j := strings.IndexByte(seg, '.'); j >= 0 && seg != "." {
				seg, prop = seg[:j], seg[j+1:]
			}
		}
		switch seg {
		case "", ".":
			if seg == "" && prop == "" {
				return Path{}, fmt.Errorf("%w: empty segment in %q", ErrInvalidPath, text)
			}
		case "..":
			if cur.IsRoot() {
				return Path{}, fmt.Errorf("%w: %q leaves the root", ErrInvalidPath, text)
			}
			cur = cur.Parent()
		default:
			next, err := cur.AppendChild(seg)
			if err != nil {
				return Path{}, err
			}
			cur = next
		}
		if prop != "" {
			return cur.AppendProperty(prop)
		}
	}
	return cur, nil
}
