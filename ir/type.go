package ir

import "fmt"

// PrimType is the builtin schema of a prim. Prims with a type name outside
// the builtin set have type CustomType.
type PrimType int

const (
	ModelType PrimType = iota
	ScopeType
	XformType
	MeshType
	GeomSubsetType
	MaterialType
	ShaderType
	CameraType
	SphereLightType
	DistantLightType
	RectLightType
	CustomType
)

var primTypeNames = map[PrimType]string{
	ModelType:        "Model",
	ScopeType:        "Scope",
	XformType:        "Xform",
	MeshType:         "Mesh",
	GeomSubsetType:   "GeomSubset",
	MaterialType:     "Material",
	ShaderType:       "Shader",
	CameraType:       "Camera",
	SphereLightType:  "SphereLight",
	DistantLightType: "DistantLight",
	RectLightType:    "RectLight",
	CustomType:       "Custom",
}

var primTypesByName = func() map[string]PrimType {
	m := make(map[string]PrimType, len(primTypeNames))
	for t, n := range primTypeNames {
		if t != CustomType {
			m[n] = t
		}
	}
	return m
}()

func (t PrimType) String() string {
	s, ok := primTypeNames[t]
	if ok {
		return s
	}
	return "<unknown prim type>"
}

func (t PrimType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t *PrimType) UnmarshalText(d []byte) error {
	tt, err := PrimTypeFromString(string(d))
	if err != nil {
		return err
	}
	*t = tt
	return nil
}

// PrimTypeFromString returns the builtin prim type named s. The empty name
// is the untyped ModelType.
func PrimTypeFromString(s string) (PrimType, error) {
	if s == "" {
		return ModelType, nil
	}
	t, ok := primTypesByName[s]
	if !ok {
		return CustomType, fmt.Errorf("%w: %q", ErrUnknownPrimType, s)
	}
	return t, nil
}

// PrimTypes returns the builtin prim types.
func PrimTypes() []PrimType {
	return []PrimType{
		ModelType,
		ScopeType,
		XformType,
		MeshType,
		GeomSubsetType,
		MaterialType,
		ShaderType,
		CameraType,
		SphereLightType,
		DistantLightType,
		RectLightType,
	}
}

func (t PrimType) IsBuiltin() bool {
	return t >= ModelType && t < CustomType
}

func (t PrimType) IsLight() bool {
	switch t {
	case SphereLightType, DistantLightType, RectLightType:
		return true
	default:
		return false
	}
}

// Specifier says whether a prim spec defines, overrides or is a class.
type Specifier int

const (
	SpecifierDef Specifier = iota
	SpecifierOver
	SpecifierClass
)

func (s Specifier) String() string {
	switch s {
	case SpecifierDef:
		return "def"
	case SpecifierOver:
		return "over"
	case SpecifierClass:
		return "class"
	}
	return "<unknown specifier>"
}

func ParseSpecifier(s string) (Specifier, error) {
	switch s {
	case "def":
		return SpecifierDef, nil
	case "over":
		return SpecifierOver, nil
	case "class":
		return SpecifierClass, nil
	}
	return SpecifierDef, fmt.Errorf("unrecognized specifier %q", s)
}

// Variability distinguishes time varying properties from uniform ones.
type Variability int

const (
	Varying Variability = iota
	Uniform
)

func (v Variability) String() string {
	if v == Uniform {
		return "uniform"
	}
	return "varying"
}

// Axis is a stage up axis.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "<unknown axis>"
}

func ParseAxis(s string) (Axis, error) {
	switch s {
	case "X":
		return AxisX, nil
	case "Y":
		return AxisY, nil
	case "Z":
		return AxisZ, nil
	}
	return AxisY, fmt.Errorf("unrecognized up axis %q", s)
}

func (a Axis) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

func (a *Axis) UnmarshalText(d []byte) error {
	aa, err := ParseAxis(string(d))
	if err != nil {
		return err
	}
	*a = aa
	return nil
}
