package value

import "fmt"

// comps returns the flat component slice of b after checking that b's
// type matches the requested layout. Role types are accepted, so
// Float3 reads point3f and color3f buffers as well.
func comps[E any](b *Buffer, layout ValueType, isArray bool) ([]E, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil buffer", ErrTypeMismatch)
	}
	if b.freed {
		return nil, ErrFreed
	}
	if !SameLayout(b.vType, layout) {
		return nil, fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, b.TypeName(), TypeName(layout, isArray))
	}
	if b.IsArray() != isArray {
		return nil, fmt.Errorf("%w: have %s, want %s", ErrTypeMismatch, b.TypeName(), TypeName(layout, isArray))
	}
	d, ok := b.data.([]E)
	if !ok {
		return nil, fmt.Errorf("%w: storage of %s", ErrTypeMismatch, b.vType)
	}
	return d, nil
}

func one[E any](b *Buffer, layout ValueType) (E, error) {
	d, err := comps[E](b, layout, false)
	if err != nil {
		var zero E
		return zero, err
	}
	return d[0], nil
}

func vec2[V ~[2]E, E any](b *Buffer, layout ValueType) (V, error) {
	d, err := comps[E](b, layout, false)
	if err != nil {
		return V{}, err
	}
	return V{d[0], d[1]}, nil
}

func vec3[V ~[3]E, E any](b *Buffer, layout ValueType) (V, error) {
	d, err := comps[E](b, layout, false)
	if err != nil {
		return V{}, err
	}
	return V{d[0], d[1], d[2]}, nil
}

func vec4[V ~[4]E, E any](b *Buffer, layout ValueType) (V, error) {
	d, err := comps[E](b, layout, false)
	if err != nil {
		return V{}, err
	}
	return V{d[0], d[1], d[2], d[3]}, nil
}

func scalars[E any](b *Buffer, layout ValueType) ([]E, error) {
	d, err := comps[E](b, layout, true)
	if err != nil {
		return nil, err
	}
	res := make([]E, len(d))
	copy(res, d)
	return res, nil
}

func arr2[V ~[2]E, E any](b *Buffer, layout ValueType) ([]V, error) {
	d, err := comps[E](b, layout, true)
	if err != nil {
		return nil, err
	}
	return unflat2[V](d), nil
}

func arr3[V ~[3]E, E any](b *Buffer, layout ValueType) ([]V, error) {
	d, err := comps[E](b, layout, true)
	if err != nil {
		return nil, err
	}
	return unflat3[V](d), nil
}

func arr4[V ~[4]E, E any](b *Buffer, layout ValueType) ([]V, error) {
	d, err := comps[E](b, layout, true)
	if err != nil {
		return nil, err
	}
	return unflat4[V](d), nil
}

func (b *Buffer) Token() (Token, error)   { return one[Token](b, TypeToken) }
func (b *Buffer) Str() (string, error)    { return one[string](b, TypeString) }
func (b *Buffer) Bool() (bool, error)     { return one[bool](b, TypeBool) }
func (b *Buffer) UChar() (uint8, error)   { return one[uint8](b, TypeUChar) }
func (b *Buffer) Int() (int32, error)     { return one[int32](b, TypeInt) }
func (b *Buffer) Int2() (Int2, error)     { return vec2[Int2](b, TypeInt2) }
func (b *Buffer) Int3() (Int3, error)     { return vec3[Int3](b, TypeInt3) }
func (b *Buffer) Int4() (Int4, error)     { return vec4[Int4](b, TypeInt4) }
func (b *Buffer) UInt() (uint32, error)   { return one[uint32](b, TypeUInt) }
func (b *Buffer) UInt2() (UInt2, error)   { return vec2[UInt2](b, TypeUInt2) }
func (b *Buffer) UInt3() (UInt3, error)   { return vec3[UInt3](b, TypeUInt3) }
func (b *Buffer) UInt4() (UInt4, error)   { return vec4[UInt4](b, TypeUInt4) }
func (b *Buffer) Int64() (int64, error)   { return one[int64](b, TypeInt64) }
func (b *Buffer) UInt64() (uint64, error) { return one[uint64](b, TypeUInt64) }
func (b *Buffer) Half() (Half, error)     { return one[Half](b, TypeHalf) }
func (b *Buffer) Half2() (Half2, error)   { return vec2[Half2](b, TypeHalf2) }
func (b *Buffer) Half3() (Half3, error)   { return vec3[Half3](b, TypeHalf3) }
func (b *Buffer) Half4() (Half4, error)   { return vec4[Half4](b, TypeHalf4) }
func (b *Buffer) Float() (float32, error) { return one[float32](b, TypeFloat) }
func (b *Buffer) Float2() (Float2, error) { return vec2[Float2](b, TypeFloat2) }
func (b *Buffer) Float3() (Float3, error) { return vec3[Float3](b, TypeFloat3) }
func (b *Buffer) Float4() (Float4, error) { return vec4[Float4](b, TypeFloat4) }
func (b *Buffer) Double() (float64, error) {
	return one[float64](b, TypeDouble)
}
func (b *Buffer) Double2() (Double2, error) { return vec2[Double2](b, TypeDouble2) }
func (b *Buffer) Double3() (Double3, error) { return vec3[Double3](b, TypeDouble3) }
func (b *Buffer) Double4() (Double4, error) { return vec4[Double4](b, TypeDouble4) }

// Quaternion accessors accept only quaternion types, not plain 4-vectors.
func (b *Buffer) Quatf() (Quatf, error) {
	if b != nil && b.vType != TypeQuatf {
		return Quatf{}, fmt.Errorf("%w: have %s, want quatf", ErrTypeMismatch, b.TypeName())
	}
	return vec4[Quatf](b, TypeQuatf)
}

func (b *Buffer) Quatd() (Quatd, error) {
	if b != nil && b.vType != TypeQuatd {
		return Quatd{}, fmt.Errorf("%w: have %s, want quatd", ErrTypeMismatch, b.TypeName())
	}
	return vec4[Quatd](b, TypeQuatd)
}

func (b *Buffer) Quath() (Quath, error) {
	if b != nil && b.vType != TypeQuath {
		return Quath{}, fmt.Errorf("%w: have %s, want quath", ErrTypeMismatch, b.TypeName())
	}
	return vec4[Quath](b, TypeQuath)
}

func (b *Buffer) Matrix2d() (Matrix2d, error) {
	d, err := comps[float64](b, TypeMatrix2d, false)
	if err != nil {
		return Matrix2d{}, err
	}
	return unflatMatrix2(d)[0], nil
}

func (b *Buffer) Matrix3d() (Matrix3d, error) {
	d, err := comps[float64](b, TypeMatrix3d, false)
	if err != nil {
		return Matrix3d{}, err
	}
	return unflatMatrix3(d)[0], nil
}

// Matrix4d reads matrix4d and frame4d values.
func (b *Buffer) Matrix4d() (Matrix4d, error) {
	d, err := comps[float64](b, TypeMatrix4d, false)
	if err != nil {
		return Matrix4d{}, err
	}
	return unflatMatrix4(d)[0], nil
}

func (b *Buffer) TokenArray() ([]Token, error)   { return scalars[Token](b, TypeToken) }
func (b *Buffer) StringArray() ([]string, error) { return scalars[string](b, TypeString) }
func (b *Buffer) BoolArray() ([]bool, error)     { return scalars[bool](b, TypeBool) }
func (b *Buffer) UCharArray() ([]uint8, error)   { return scalars[uint8](b, TypeUChar) }
func (b *Buffer) IntArray() ([]int32, error)     { return scalars[int32](b, TypeInt) }
func (b *Buffer) Int2Array() ([]Int2, error)     { return arr2[Int2](b, TypeInt2) }
func (b *Buffer) Int3Array() ([]Int3, error)     { return arr3[Int3](b, TypeInt3) }
func (b *Buffer) Int4Array() ([]Int4, error)     { return arr4[Int4](b, TypeInt4) }
func (b *Buffer) UIntArray() ([]uint32, error)   { return scalars[uint32](b, TypeUInt) }
func (b *Buffer) Int64Array() ([]int64, error)   { return scalars[int64](b, TypeInt64) }
func (b *Buffer) UInt64Array() ([]uint64, error) { return scalars[uint64](b, TypeUInt64) }
func (b *Buffer) HalfArray() ([]Half, error)     { return scalars[Half](b, TypeHalf) }
func (b *Buffer) Half3Array() ([]Half3, error)   { return arr3[Half3](b, TypeHalf3) }
func (b *Buffer) FloatArray() ([]float32, error) { return scalars[float32](b, TypeFloat) }
func (b *Buffer) Float2Array() ([]Float2, error) { return arr2[Float2](b, TypeFloat2) }
func (b *Buffer) Float3Array() ([]Float3, error) { return arr3[Float3](b, TypeFloat3) }
func (b *Buffer) Float4Array() ([]Float4, error) { return arr4[Float4](b, TypeFloat4) }
func (b *Buffer) DoubleArray() ([]float64, error) {
	return scalars[float64](b, TypeDouble)
}
func (b *Buffer) Double2Array() ([]Double2, error) { return arr2[Double2](b, TypeDouble2) }
func (b *Buffer) Double3Array() ([]Double3, error) { return arr3[Double3](b, TypeDouble3) }
func (b *Buffer) Double4Array() ([]Double4, error) { return arr4[Double4](b, TypeDouble4) }

func (b *Buffer) Matrix4dArray() ([]Matrix4d, error) {
	d, err := comps[float64](b, TypeMatrix4d, true)
	if err != nil {
		return nil, err
	}
	return unflatMatrix4(d), nil
}
