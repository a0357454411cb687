package value

import (
	"encoding/binary"
	"fmt"
	"math"
	"slices"
)

// MaxDim is the maximum array dimensionality of a Buffer.
const MaxDim = 1

// Buffer holds a single value or a one dimensional array of values of one
// ValueType. The components are kept in a flat slice whose element type is
// determined by the scalar kind of the value type:
//
//	bool                     []bool
//	char, uchar              []int8, []uint8
//	short, ushort            []int16, []uint16
//	int*, uint*              []int32, []uint32
//	int64, uint64            []int64, []uint64
//	half*                    []Half
//	float*                   []float32
//	double*, matrix*, frame* []float64
//	token                    []Token
//	string                   []string
//
// A Buffer owns its storage. Once freed, every accessor fails with ErrFreed.
type Buffer struct {
	vType ValueType
	ndim  int
	shape [MaxDim]uint64
	data  any
	freed bool
}

func newStorage(k scalarKind, n int) any {
	switch k {
	case kindBool:
		return make([]bool, n)
	case kindInt8:
		return make([]int8, n)
	case kindUint8:
		return make([]uint8, n)
	case kindInt16:
		return make([]int16, n)
	case kindUint16:
		return make([]uint16, n)
	case kindInt32:
		return make([]int32, n)
	case kindUint32:
		return make([]uint32, n)
	case kindInt64:
		return make([]int64, n)
	case kindUint64:
		return make([]uint64, n)
	case kindHalf:
		return make([]Half, n)
	case kindFloat32:
		return make([]float32, n)
	case kindFloat64:
		return make([]float64, n)
	case kindToken:
		return make([]Token, n)
	case kindString:
		return make([]string, n)
	default:
		panic("kind")
	}
}

// New returns a zero initialized single value of type t.
func New(t ValueType) (*Buffer, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	info := t.info()
	return &Buffer{vType: t, data: newStorage(info.kind, info.comps)}, nil
}

// NewArray returns a zero initialized array of n elements of type t. A zero
// length array is a valid value.
func NewArray(t ValueType, n int) (*Buffer, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: negative array length %d", ErrIndexOutOfRange, n)
	}
	info := t.info()
	b := &Buffer{vType: t, ndim: 1, data: newStorage(info.kind, n*info.comps)}
	b.shape[0] = uint64(n)
	return b, nil
}

func single[E any](t ValueType, comps ...E) *Buffer {
	return &Buffer{vType: t, data: comps}
}

func array[E any](t ValueType, n int, comps []E) *Buffer {
	b := &Buffer{vType: t, ndim: 1, data: comps}
	b.shape[0] = uint64(n)
	return b
}

func NewFromToken(tok Token) *Buffer       { return single(TypeToken, tok) }
func NewFromString(s string) *Buffer       { return single(TypeString, s) }
func NewFromOwnedString(s *String) *Buffer { return single(TypeString, s.Str()) }

func NewBool(v bool) *Buffer       { return single(TypeBool, v) }
func NewUChar(v uint8) *Buffer     { return single(TypeUChar, v) }
func NewInt(v int32) *Buffer       { return single(TypeInt, v) }
func NewInt2(v Int2) *Buffer       { return single(TypeInt2, v[:]...) }
func NewInt3(v Int3) *Buffer       { return single(TypeInt3, v[:]...) }
func NewInt4(v Int4) *Buffer       { return single(TypeInt4, v[:]...) }
func NewUInt(v uint32) *Buffer     { return single(TypeUInt, v) }
func NewUInt2(v UInt2) *Buffer     { return single(TypeUInt2, v[:]...) }
func NewUInt3(v UInt3) *Buffer     { return single(TypeUInt3, v[:]...) }
func NewUInt4(v UInt4) *Buffer     { return single(TypeUInt4, v[:]...) }
func NewInt64(v int64) *Buffer     { return single(TypeInt64, v) }
func NewUInt64(v uint64) *Buffer   { return single(TypeUInt64, v) }
func NewHalf(v Half) *Buffer       { return single(TypeHalf, v) }
func NewHalf2(v Half2) *Buffer     { return single(TypeHalf2, v[:]...) }
func NewHalf3(v Half3) *Buffer     { return single(TypeHalf3, v[:]...) }
func NewHalf4(v Half4) *Buffer     { return single(TypeHalf4, v[:]...) }
func NewFloat(v float32) *Buffer   { return single(TypeFloat, v) }
func NewFloat2(v Float2) *Buffer   { return single(TypeFloat2, v[:]...) }
func NewFloat3(v Float3) *Buffer   { return single(TypeFloat3, v[:]...) }
func NewFloat4(v Float4) *Buffer   { return single(TypeFloat4, v[:]...) }
func NewDouble(v float64) *Buffer  { return single(TypeDouble, v) }
func NewDouble2(v Double2) *Buffer { return single(TypeDouble2, v[:]...) }
func NewDouble3(v Double3) *Buffer { return single(TypeDouble3, v[:]...) }
func NewDouble4(v Double4) *Buffer { return single(TypeDouble4, v[:]...) }
func NewQuath(v Quath) *Buffer     { return single(TypeQuath, v[:]...) }
func NewQuatf(v Quatf) *Buffer     { return single(TypeQuatf, v[:]...) }
func NewQuatd(v Quatd) *Buffer     { return single(TypeQuatd, v[:]...) }
func NewColor3f(v Float3) *Buffer  { return single(TypeColor3f, v[:]...) }
func NewColor4f(v Float4) *Buffer  { return single(TypeColor4f, v[:]...) }
func NewPoint3f(v Float3) *Buffer  { return single(TypePoint3f, v[:]...) }
func NewNormal3f(v Float3) *Buffer { return single(TypeNormal3f, v[:]...) }
func NewVector3f(v Float3) *Buffer { return single(TypeVector3f, v[:]...) }

func NewTexCoord2f(v Float2) *Buffer { return single(TypeTexCoord2f, v[:]...) }

func NewMatrix2d(m Matrix2d) *Buffer {
	return single(TypeMatrix2d, flatMatrix2([]Matrix2d{m})...)
}

func NewMatrix3d(m Matrix3d) *Buffer {
	return single(TypeMatrix3d, flatMatrix3([]Matrix3d{m})...)
}

func NewMatrix4d(m Matrix4d) *Buffer {
	return single(TypeMatrix4d, flatMatrix4([]Matrix4d{m})...)
}

func NewFrame4d(m Matrix4d) *Buffer {
	return single(TypeFrame4d, flatMatrix4([]Matrix4d{m})...)
}

func NewTokenArray(v []Token) *Buffer { return array(TypeToken, len(v), slices.Clone(v)) }

func NewStringArray(v []string) *Buffer {
	return array(TypeString, len(v), slices.Clone(v))
}

func NewBoolArray(v []bool) *Buffer       { return array(TypeBool, len(v), slices.Clone(v)) }
func NewUCharArray(v []uint8) *Buffer     { return array(TypeUChar, len(v), slices.Clone(v)) }
func NewIntArray(v []int32) *Buffer       { return array(TypeInt, len(v), slices.Clone(v)) }
func NewInt2Array(v []Int2) *Buffer       { return array(TypeInt2, len(v), flat2(v)) }
func NewInt3Array(v []Int3) *Buffer       { return array(TypeInt3, len(v), flat3(v)) }
func NewInt4Array(v []Int4) *Buffer       { return array(TypeInt4, len(v), flat4(v)) }
func NewUIntArray(v []uint32) *Buffer     { return array(TypeUInt, len(v), slices.Clone(v)) }
func NewInt64Array(v []int64) *Buffer     { return array(TypeInt64, len(v), slices.Clone(v)) }
func NewUInt64Array(v []uint64) *Buffer   { return array(TypeUInt64, len(v), slices.Clone(v)) }
func NewHalfArray(v []Half) *Buffer       { return array(TypeHalf, len(v), slices.Clone(v)) }
func NewHalf3Array(v []Half3) *Buffer     { return array(TypeHalf3, len(v), flat3(v)) }
func NewFloatArray(v []float32) *Buffer   { return array(TypeFloat, len(v), slices.Clone(v)) }
func NewFloat2Array(v []Float2) *Buffer   { return array(TypeFloat2, len(v), flat2(v)) }
func NewFloat3Array(v []Float3) *Buffer   { return array(TypeFloat3, len(v), flat3(v)) }
func NewFloat4Array(v []Float4) *Buffer   { return array(TypeFloat4, len(v), flat4(v)) }
func NewDoubleArray(v []float64) *Buffer  { return array(TypeDouble, len(v), slices.Clone(v)) }
func NewDouble2Array(v []Double2) *Buffer { return array(TypeDouble2, len(v), flat2(v)) }
func NewDouble3Array(v []Double3) *Buffer { return array(TypeDouble3, len(v), flat3(v)) }
func NewDouble4Array(v []Double4) *Buffer { return array(TypeDouble4, len(v), flat4(v)) }
func NewQuatfArray(v []Quatf) *Buffer     { return array(TypeQuatf, len(v), flat4(v)) }
func NewPoint3fArray(v []Float3) *Buffer  { return array(TypePoint3f, len(v), flat3(v)) }
func NewNormal3fArray(v []Float3) *Buffer { return array(TypeNormal3f, len(v), flat3(v)) }
func NewColor3fArray(v []Float3) *Buffer  { return array(TypeColor3f, len(v), flat3(v)) }

func NewTexCoord2fArray(v []Float2) *Buffer {
	return array(TypeTexCoord2f, len(v), flat2(v))
}

func NewMatrix4dArray(v []Matrix4d) *Buffer {
	return array(TypeMatrix4d, len(v), flatMatrix4(v))
}

// NewFromBytes decodes n little endian elements of type t from raw. With
// ndim 0, n must be 1. The size of raw must be exactly n*ElementSize(t).
func NewFromBytes(t ValueType, ndim int, n int, raw []byte) (*Buffer, error) {
	if !t.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, int(t))
	}
	if !IsNumeric(t) {
		return nil, fmt.Errorf("%w: %s has no binary layout", ErrTypeMismatch, t)
	}
	if ndim < 0 || ndim > MaxDim {
		return nil, fmt.Errorf("%w: ndim %d", ErrTypeMismatch, ndim)
	}
	if ndim == 0 && n != 1 {
		return nil, fmt.Errorf("%w: %d elements for a single %s", ErrTypeMismatch, n, t)
	}
	if n < 0 || len(raw) != n*ElementSize(t) {
		return nil, fmt.Errorf("%w: %d bytes for %d elements of %s (element size %d)",
			ErrTypeMismatch, len(raw), n, t, ElementSize(t))
	}
	info := t.info()
	data := newStorage(info.kind, n*info.comps)
	switch d := data.(type) {
	case []bool:
		for i := range d {
			d[i] = raw[i] != 0
		}
	case []int8:
		for i := range d {
			d[i] = int8(raw[i])
		}
	case []uint8:
		copy(d, raw)
	case []int16:
		for i := range d {
			d[i] = int16(binary.LittleEndian.Uint16(raw[2*i:]))
		}
	case []uint16:
		for i := range d {
			d[i] = binary.LittleEndian.Uint16(raw[2*i:])
		}
	case []Half:
		for i := range d {
			d[i] = Half(binary.LittleEndian.Uint16(raw[2*i:]))
		}
	case []int32:
		for i := range d {
			d[i] = int32(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	case []uint32:
		for i := range d {
			d[i] = binary.LittleEndian.Uint32(raw[4*i:])
		}
	case []float32:
		for i := range d {
			d[i] = math.Float32frombits(binary.LittleEndian.Uint32(raw[4*i:]))
		}
	case []int64:
		for i := range d {
			d[i] = int64(binary.LittleEndian.Uint64(raw[8*i:]))
		}
	case []uint64:
		for i := range d {
			d[i] = binary.LittleEndian.Uint64(raw[8*i:])
		}
	case []float64:
		for i := range d {
			d[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[8*i:]))
		}
	default:
		panic("kind")
	}
	b := &Buffer{vType: t, ndim: ndim, data: data}
	if ndim == 1 {
		b.shape[0] = uint64(n)
	}
	return b, nil
}

// Bytes returns the little endian encoding of the components of a numeric
// buffer.
func (b *Buffer) Bytes() ([]byte, error) {
	if b.freed {
		return nil, ErrFreed
	}
	if !IsNumeric(b.vType) {
		return nil, fmt.Errorf("%w: %s has no binary layout", ErrTypeMismatch, b.vType)
	}
	res := make([]byte, 0, b.Len()*ElementSize(b.vType))
	switch d := b.data.(type) {
	case []bool:
		for _, v := range d {
			if v {
				res = append(res, 1)
			} else {
				res = append(res, 0)
			}
		}
	case []int8:
		for _, v := range d {
			res = append(res, byte(v))
		}
	case []uint8:
		res = append(res, d...)
	case []int16:
		for _, v := range d {
			res = binary.LittleEndian.AppendUint16(res, uint16(v))
		}
	case []uint16:
		for _, v := range d {
			res = binary.LittleEndian.AppendUint16(res, v)
		}
	case []Half:
		for _, v := range d {
			res = binary.LittleEndian.AppendUint16(res, uint16(v))
		}
	case []int32:
		for _, v := range d {
			res = binary.LittleEndian.AppendUint32(res, uint32(v))
		}
	case []uint32:
		for _, v := range d {
			res = binary.LittleEndian.AppendUint32(res, v)
		}
	case []float32:
		for _, v := range d {
			res = binary.LittleEndian.AppendUint32(res, math.Float32bits(v))
		}
	case []int64:
		for _, v := range d {
			res = binary.LittleEndian.AppendUint64(res, uint64(v))
		}
	case []uint64:
		for _, v := range d {
			res = binary.LittleEndian.AppendUint64(res, v)
		}
	case []float64:
		for _, v := range d {
			res = binary.LittleEndian.AppendUint64(res, math.Float64bits(v))
		}
	default:
		panic("kind")
	}
	return res, nil
}

func (b *Buffer) Type() ValueType { return b.vType }
func (b *Buffer) NDim() int       { return b.ndim }
func (b *Buffer) IsArray() bool   { return b.ndim == 1 }

// Shape returns the array shape. It is only meaningful when NDim is 1.
func (b *Buffer) Shape() [MaxDim]uint64 { return b.shape }

// TypeName is the declared attribute type of b, e.g. "float3[]".
func (b *Buffer) TypeName() string {
	return TypeName(b.vType, b.IsArray())
}

// Len returns the number of elements: 1 for a single value, Shape[0] for
// an array.
func (b *Buffer) Len() int {
	if b.ndim == 0 {
		return 1
	}
	return int(b.shape[0])
}

func (b *Buffer) IsFreed() bool { return b.freed }

// Free releases the storage of b. Calling Free more than once is harmless.
func (b *Buffer) Free() {
	b.data = nil
	b.freed = true
}

func (b *Buffer) Clone() *Buffer {
	res := *b
	switch d := b.data.(type) {
	case []bool:
		res.data = slices.Clone(d)
	case []int8:
		res.data = slices.Clone(d)
	case []uint8:
		res.data = slices.Clone(d)
	case []int16:
		res.data = slices.Clone(d)
	case []uint16:
		res.data = slices.Clone(d)
	case []int32:
		res.data = slices.Clone(d)
	case []uint32:
		res.data = slices.Clone(d)
	case []int64:
		res.data = slices.Clone(d)
	case []uint64:
		res.data = slices.Clone(d)
	case []Half:
		res.data = slices.Clone(d)
	case []float32:
		res.data = slices.Clone(d)
	case []float64:
		res.data = slices.Clone(d)
	case []Token:
		res.data = slices.Clone(d)
	case []string:
		res.data = slices.Clone(d)
	case nil:
	default:
		panic("kind")
	}
	return &res
}

// Equal reports whether a and o hold the same type, shape and components.
// Floating point components compare with ==, so NaN is never equal.
func (b *Buffer) Equal(o *Buffer) bool {
	if b == nil || o == nil {
		return b == o
	}
	if b.vType != o.vType || b.ndim != o.ndim || b.shape != o.shape || b.freed != o.freed {
		return false
	}
	switch d := b.data.(type) {
	case []bool:
		return slices.Equal(d, o.data.([]bool))
	case []int8:
		return slices.Equal(d, o.data.([]int8))
	case []uint8:
		return slices.Equal(d, o.data.([]uint8))
	case []int16:
		return slices.Equal(d, o.data.([]int16))
	case []uint16:
		return slices.Equal(d, o.data.([]uint16))
	case []int32:
		return slices.Equal(d, o.data.([]int32))
	case []uint32:
		return slices.Equal(d, o.data.([]uint32))
	case []int64:
		return slices.Equal(d, o.data.([]int64))
	case []uint64:
		return slices.Equal(d, o.data.([]uint64))
	case []Half:
		return slices.Equal(d, o.data.([]Half))
	case []float32:
		return slices.Equal(d, o.data.([]float32))
	case []float64:
		return slices.Equal(d, o.data.([]float64))
	case []Token:
		return slices.Equal(d, o.data.([]Token))
	case []string:
		return slices.Equal(d, o.data.([]string))
	case nil:
		return o.data == nil
	default:
		panic("kind")
	}
}

// WithRole returns a copy of b retagged as t, which must share the
// component layout of b's type, e.g. float3 to point3f.
func (b *Buffer) WithRole(t ValueType) (*Buffer, error) {
	if b.freed {
		return nil, ErrFreed
	}
	if !SameLayout(b.vType, t) {
		return nil, fmt.Errorf("%w: %s does not share the layout of %s", ErrTypeMismatch, t, b.vType)
	}
	res := b.Clone()
	res.vType = t
	return res, nil
}

// Element returns a single value buffer holding a copy of element i.
func (b *Buffer) Element(i int) (*Buffer, error) {
	if b.freed {
		return nil, ErrFreed
	}
	if i < 0 || i >= b.Len() {
		return nil, fmt.Errorf("%w: element %d of %d", ErrIndexOutOfRange, i, b.Len())
	}
	if b.ndim == 0 {
		return b.Clone(), nil
	}
	n := b.vType.info().comps
	lo, hi := i*n, (i+1)*n
	res := &Buffer{vType: b.vType}
	switch d := b.data.(type) {
	case []bool:
		res.data = slices.Clone(d[lo:hi])
	case []int8:
		res.data = slices.Clone(d[lo:hi])
	case []uint8:
		res.data = slices.Clone(d[lo:hi])
	case []int16:
		res.data = slices.Clone(d[lo:hi])
	case []uint16:
		res.data = slices.Clone(d[lo:hi])
	case []int32:
		res.data = slices.Clone(d[lo:hi])
	case []uint32:
		res.data = slices.Clone(d[lo:hi])
	case []int64:
		res.data = slices.Clone(d[lo:hi])
	case []uint64:
		res.data = slices.Clone(d[lo:hi])
	case []Half:
		res.data = slices.Clone(d[lo:hi])
	case []float32:
		res.data = slices.Clone(d[lo:hi])
	case []float64:
		res.data = slices.Clone(d[lo:hi])
	case []Token:
		res.data = slices.Clone(d[lo:hi])
	case []string:
		res.data = slices.Clone(d[lo:hi])
	default:
		panic("kind")
	}
	return res, nil
}

// Float64s converts the components of a numeric buffer to float64 in
// storage order. Bools convert to 0 and 1.
func (b *Buffer) Float64s() ([]float64, error) {
	if b.freed {
		return nil, ErrFreed
	}
	switch d := b.data.(type) {
	case []bool:
		res := make([]float64, len(d))
		for i, v := range d {
			if v {
				res[i] = 1
			}
		}
		return res, nil
	case []int8:
		return convert(d), nil
	case []uint8:
		return convert(d), nil
	case []int16:
		return convert(d), nil
	case []uint16:
		return convert(d), nil
	case []int32:
		return convert(d), nil
	case []uint32:
		return convert(d), nil
	case []int64:
		return convert(d), nil
	case []uint64:
		return convert(d), nil
	case []Half:
		res := make([]float64, len(d))
		for i, v := range d {
			res[i] = float64(v.Float32())
		}
		return res, nil
	case []float32:
		return convert(d), nil
	case []float64:
		return slices.Clone(d), nil
	default:
		return nil, fmt.Errorf("%w: %s is not numeric", ErrTypeMismatch, b.vType)
	}
}

func convert[E int8 | uint8 | int16 | uint16 | int32 | uint32 | int64 | uint64 | float32](es []E) []float64 {
	res := make([]float64, len(es))
	for i, v := range es {
		res[i] = float64(v)
	}
	return res
}

// FromFloat64s builds a buffer of type t from float64 components, the
// inverse of Float64s. It is used by text readers, which see every number
// as a float64 first. The component count must be a multiple of
// Components(t).
func FromFloat64s(t ValueType, isArray bool, comps []float64) (*Buffer, error) {
	if !IsNumeric(t) {
		return nil, fmt.Errorf("%w: %s is not numeric", ErrTypeMismatch, t)
	}
	info := t.info()
	if len(comps)%info.comps != 0 || (!isArray && len(comps) != info.comps) {
		return nil, fmt.Errorf("%w: %d components for %s", ErrTypeMismatch, len(comps), TypeName(t, isArray))
	}
	n := len(comps) / info.comps
	data := newStorage(info.kind, len(comps))
	switch d := data.(type) {
	case []bool:
		for i, v := range comps {
			d[i] = v != 0
		}
	case []int8:
		for i, v := range comps {
			d[i] = int8(v)
		}
	case []uint8:
		for i, v := range comps {
			d[i] = uint8(v)
		}
	case []int16:
		for i, v := range comps {
			d[i] = int16(v)
		}
	case []uint16:
		for i, v := range comps {
			d[i] = uint16(v)
		}
	case []int32:
		for i, v := range comps {
			d[i] = int32(v)
		}
	case []uint32:
		for i, v := range comps {
			d[i] = uint32(v)
		}
	case []int64:
		for i, v := range comps {
			d[i] = int64(v)
		}
	case []uint64:
		for i, v := range comps {
			d[i] = uint64(v)
		}
	case []Half:
		for i, v := range comps {
			d[i] = HalfFromFloat32(float32(v))
		}
	case []float32:
		for i, v := range comps {
			d[i] = float32(v)
		}
	case []float64:
		copy(d, comps)
	default:
		panic("kind")
	}
	return wrap(t, isArray, n, data), nil
}

// FromInt64s is FromFloat64s for integral types, keeping the full 64 bit
// range.
func FromInt64s(t ValueType, isArray bool, comps []int64) (*Buffer, error) {
	if !IsIntegral(t) {
		return nil, fmt.Errorf("%w: %s is not integral", ErrTypeMismatch, t)
	}
	info := t.info()
	if len(comps)%info.comps != 0 || (!isArray && len(comps) != info.comps) {
		return nil, fmt.Errorf("%w: %d components for %s", ErrTypeMismatch, len(comps), TypeName(t, isArray))
	}
	n := len(comps) / info.comps
	data := newStorage(info.kind, len(comps))
	switch d := data.(type) {
	case []int8:
		for i, v := range comps {
			d[i] = int8(v)
		}
	case []uint8:
		for i, v := range comps {
			d[i] = uint8(v)
		}
	case []int16:
		for i, v := range comps {
			d[i] = int16(v)
		}
	case []uint16:
		for i, v := range comps {
			d[i] = uint16(v)
		}
	case []int32:
		for i, v := range comps {
			d[i] = int32(v)
		}
	case []uint32:
		for i, v := range comps {
			d[i] = uint32(v)
		}
	case []int64:
		copy(d, comps)
	case []uint64:
		for i, v := range comps {
			d[i] = uint64(v)
		}
	default:
		panic("kind")
	}
	return wrap(t, isArray, n, data), nil
}

func wrap(t ValueType, isArray bool, n int, data any) *Buffer {
	b := &Buffer{vType: t, data: data}
	if isArray {
		b.ndim = 1
		b.shape[0] = uint64(n)
	}
	return b
}
