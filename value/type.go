package value

import (
	"fmt"
	"strings"
)

type ValueType int

const (
	TypeInvalid ValueType = iota
	TypeToken
	TypeString
	TypeBool
	TypeChar
	TypeUChar
	TypeShort
	TypeUShort
	TypeInt
	TypeInt2
	TypeInt3
	TypeInt4
	TypeUInt
	TypeUInt2
	TypeUInt3
	TypeUInt4
	TypeInt64
	TypeUInt64
	TypeHalf
	TypeHalf2
	TypeHalf3
	TypeHalf4
	TypeFloat
	TypeFloat2
	TypeFloat3
	TypeFloat4
	TypeDouble
	TypeDouble2
	TypeDouble3
	TypeDouble4
	TypeQuath
	TypeQuatf
	TypeQuatd
	TypeColor3h
	TypeColor3f
	TypeColor3d
	TypeColor4h
	TypeColor4f
	TypeColor4d
	TypeTexCoord2h
	TypeTexCoord2f
	TypeTexCoord2d
	TypeTexCoord3h
	TypeTexCoord3f
	TypeTexCoord3d
	TypeNormal3h
	TypeNormal3f
	TypeNormal3d
	TypeVector3h
	TypeVector3f
	TypeVector3d
	TypePoint3h
	TypePoint3f
	TypePoint3d
	TypeMatrix2d
	TypeMatrix3d
	TypeMatrix4d
	TypeFrame4d

	numValueTypes
)

// scalarKind is the Go representation of one component. It selects the
// element type of a Buffer's flat component slice.
type scalarKind int

const (
	kindNone scalarKind = iota
	kindToken
	kindString
	kindBool
	kindInt8
	kindUint8
	kindInt16
	kindUint16
	kindInt32
	kindUint32
	kindInt64
	kindUint64
	kindHalf
	kindFloat32
	kindFloat64
)

func (k scalarKind) size() int {
	switch k {
	case kindBool, kindInt8, kindUint8:
		return 1
	case kindInt16, kindUint16, kindHalf:
		return 2
	case kindInt32, kindUint32, kindFloat32:
		return 4
	case kindInt64, kindUint64, kindFloat64:
		return 8
	default:
		return 0
	}
}

type typeInfo struct {
	name  string
	kind  scalarKind
	comps int
	// layout is the plain type sharing this type's component layout.
	layout ValueType
}

var typeTable = [numValueTypes]typeInfo{
	TypeInvalid: {name: "<invalid>"},
	TypeToken:   {"token", kindToken, 1, TypeToken},
	TypeString:  {"string", kindString, 1, TypeString},
	TypeBool:    {"bool", kindBool, 1, TypeBool},
	TypeChar:    {"char", kindInt8, 1, TypeChar},
	TypeUChar:   {"uchar", kindUint8, 1, TypeUChar},
	TypeShort:   {"short", kindInt16, 1, TypeShort},
	TypeUShort:  {"ushort", kindUint16, 1, TypeUShort},
	TypeInt:     {"int", kindInt32, 1, TypeInt},
	TypeInt2:    {"int2", kindInt32, 2, TypeInt2},
	TypeInt3:    {"int3", kindInt32, 3, TypeInt3},
	TypeInt4:    {"int4", kindInt32, 4, TypeInt4},
	TypeUInt:    {"uint", kindUint32, 1, TypeUInt},
	TypeUInt2:   {"uint2", kindUint32, 2, TypeUInt2},
	TypeUInt3:   {"uint3", kindUint32, 3, TypeUInt3},
	TypeUInt4:   {"uint4", kindUint32, 4, TypeUInt4},
	TypeInt64:   {"int64", kindInt64, 1, TypeInt64},
	TypeUInt64:  {"uint64", kindUint64, 1, TypeUInt64},
	TypeHalf:    {"half", kindHalf, 1, TypeHalf},
	TypeHalf2:   {"half2", kindHalf, 2, TypeHalf2},
	TypeHalf3:   {"half3", kindHalf, 3, TypeHalf3},
	TypeHalf4:   {"half4", kindHalf, 4, TypeHalf4},
	TypeFloat:   {"float", kindFloat32, 1, TypeFloat},
	TypeFloat2:  {"float2", kindFloat32, 2, TypeFloat2},
	TypeFloat3:  {"float3", kindFloat32, 3, TypeFloat3},
	TypeFloat4:  {"float4", kindFloat32, 4, TypeFloat4},
	TypeDouble:  {"double", kindFloat64, 1, TypeDouble},
	TypeDouble2: {"double2", kindFloat64, 2, TypeDouble2},
	TypeDouble3: {"double3", kindFloat64, 3, TypeDouble3},
	TypeDouble4: {"double4", kindFloat64, 4, TypeDouble4},

	TypeQuath: {"quath", kindHalf, 4, TypeHalf4},
	TypeQuatf: {"quatf", kindFloat32, 4, TypeFloat4},
	TypeQuatd: {"quatd", kindFloat64, 4, TypeDouble4},

	TypeColor3h: {"color3h", kindHalf, 3, TypeHalf3},
	TypeColor3f: {"color3f", kindFloat32, 3, TypeFloat3},
	TypeColor3d: {"color3d", kindFloat64, 3, TypeDouble3},
	TypeColor4h: {"color4h", kindHalf, 4, TypeHalf4},
	TypeColor4f: {"color4f", kindFloat32, 4, TypeFloat4},
	TypeColor4d: {"color4d", kindFloat64, 4, TypeDouble4},

	TypeTexCoord2h: {"texCoord2h", kindHalf, 2, TypeHalf2},
	TypeTexCoord2f: {"texCoord2f", kindFloat32, 2, TypeFloat2},
	TypeTexCoord2d: {"texCoord2d", kindFloat64, 2, TypeDouble2},
	TypeTexCoord3h: {"texCoord3h", kindHalf, 3, TypeHalf3},
	TypeTexCoord3f: {"texCoord3f", kindFloat32, 3, TypeFloat3},
	TypeTexCoord3d: {"texCoord3d", kindFloat64, 3, TypeDouble3},

	TypeNormal3h: {"normal3h", kindHalf, 3, TypeHalf3},
	TypeNormal3f: {"normal3f", kindFloat32, 3, TypeFloat3},
	TypeNormal3d: {"normal3d", kindFloat64, 3, TypeDouble3},
	TypeVector3h: {"vector3h", kindHalf, 3, TypeHalf3},
	TypeVector3f: {"vector3f", kindFloat32, 3, TypeFloat3},
	TypeVector3d: {"vector3d", kindFloat64, 3, TypeDouble3},
	TypePoint3h:  {"point3h", kindHalf, 3, TypeHalf3},
	TypePoint3f:  {"point3f", kindFloat32, 3, TypeFloat3},
	TypePoint3d:  {"point3d", kindFloat64, 3, TypeDouble3},

	TypeMatrix2d: {"matrix2d", kindFloat64, 4, TypeMatrix2d},
	TypeMatrix3d: {"matrix3d", kindFloat64, 9, TypeMatrix3d},
	TypeMatrix4d: {"matrix4d", kindFloat64, 16, TypeMatrix4d},
	TypeFrame4d:  {"frame4d", kindFloat64, 16, TypeMatrix4d},
}

var typesByName = func() map[string]ValueType {
	m := make(map[string]ValueType, numValueTypes)
	for t := TypeToken; t < numValueTypes; t++ {
		m[typeTable[t].name] = t
	}
	return m
}()

func (t ValueType) valid() bool {
	return t > TypeInvalid && t < numValueTypes
}

func (t ValueType) info() typeInfo {
	if !t.valid() {
		return typeTable[TypeInvalid]
	}
	return typeTable[t]
}

func (t ValueType) String() string {
	if !t.valid() {
		return fmt.Sprintf("<err: %d is not a value type>", int(t))
	}
	return typeTable[t].name
}

func (t ValueType) MarshalText() ([]byte, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	return []byte(typeTable[t].name), nil
}

func (t *ValueType) UnmarshalText(d []byte) error {
	vt, err := ParseValueType(string(d))
	if err != nil {
		return err
	}
	*t = vt
	return nil
}

// Name returns the text form name of t, e.g. "color3f".
func Name(t ValueType) string {
	return t.info().name
}

// ParseValueType looks up a value type by its text form name. An array
// suffix "[]" is not part of the name; see ParseTypeName.
func ParseValueType(name string) (ValueType, error) {
	t, ok := typesByName[name]
	if !ok {
		return TypeInvalid, fmt.Errorf("%w: %q", ErrUnknownType, name)
	}
	return t, nil
}

// ParseTypeName parses a declared attribute type such as "float3[]".
func ParseTypeName(name string) (ValueType, bool, error) {
	base, isArray := strings.CutSuffix(name, "[]")
	t, err := ParseValueType(base)
	if err != nil {
		return TypeInvalid, false, err
	}
	return t, isArray, nil
}

// TypeName returns the declared attribute type name for t, with an array
// suffix when isArray is set.
func TypeName(t ValueType, isArray bool) string {
	if isArray {
		return Name(t) + "[]"
	}
	return Name(t)
}

// Sizeof returns the size in bytes of one component of t. It returns 1 for
// bool and 0 for token, string and invalid types.
func Sizeof(t ValueType) int {
	return t.info().kind.size()
}

// Components returns the number of components of one element of t: 1 for
// scalars, 3 for float3, 16 for matrix4d. It returns 0 for token, string
// and invalid types.
func Components(t ValueType) int {
	info := t.info()
	if info.kind.size() == 0 {
		return 0
	}
	return info.comps
}

// ElementSize is the byte size of one element of t.
func ElementSize(t ValueType) int {
	return Sizeof(t) * Components(t)
}

// IsNumeric reports whether t has a fixed binary layout.
func IsNumeric(t ValueType) bool {
	return Sizeof(t) != 0
}

// IsFloating reports whether the components of t are half, float or double.
func IsFloating(t ValueType) bool {
	switch t.info().kind {
	case kindHalf, kindFloat32, kindFloat64:
		return true
	}
	return false
}

// IsIntegral reports whether the components of t are integers.
func IsIntegral(t ValueType) bool {
	switch t.info().kind {
	case kindInt8, kindUint8, kindInt16, kindUint16, kindInt32, kindUint32, kindInt64, kindUint64:
		return true
	}
	return false
}

// IsUnsigned reports whether the components of t are unsigned integers.
func IsUnsigned(t ValueType) bool {
	switch t.info().kind {
	case kindUint8, kindUint16, kindUint32, kindUint64:
		return true
	}
	return false
}

// SameLayout reports whether a and b store identical components, e.g.
// float3 and color3f.
func SameLayout(a, b ValueType) bool {
	if !a.valid() || !b.valid() {
		return false
	}
	return typeTable[a].layout == typeTable[b].layout
}

// Types returns all valid value types in declaration order.
func Types() []ValueType {
	res := make([]ValueType, 0, numValueTypes-1)
	for t := TypeToken; t < numValueTypes; t++ {
		res = append(res, t)
	}
	return res
}

func (t ValueType) isMatrix() bool {
	switch t {
	case TypeMatrix2d, TypeMatrix3d, TypeMatrix4d, TypeFrame4d:
		return true
	}
	return false
}

// matrixDim returns the row length of a matrix type.
func (t ValueType) matrixDim() int {
	switch t {
	case TypeMatrix2d:
		return 2
	case TypeMatrix3d:
		return 3
	case TypeMatrix4d, TypeFrame4d:
		return 4
	}
	return 0
}
