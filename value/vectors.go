package value

type (
	Int2  [2]int32
	Int3  [3]int32
	Int4  [4]int32
	UInt2 [2]uint32
	UInt3 [3]uint32
	UInt4 [4]uint32

	Half2 [2]Half
	Half3 [3]Half
	Half4 [4]Half

	Float2 [2]float32
	Float3 [3]float32
	Float4 [4]float32

	Double2 [2]float64
	Double3 [3]float64
	Double4 [4]float64

	Matrix2d [2][2]float64
	Matrix3d [3][3]float64
	Matrix4d [4][4]float64
)

// Quaternions are stored in text order: real part first, then i, j, k.
type (
	Quath [4]Half
	Quatf [4]float32
	Quatd [4]float64
)

func Identity2d() Matrix2d {
	return Matrix2d{{1, 0}, {0, 1}}
}

func Identity3d() Matrix3d {
	return Matrix3d{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
}

func Identity4d() Matrix4d {
	return Matrix4d{{1, 0, 0, 0}, {0, 1, 0, 0}, {0, 0, 1, 0}, {0, 0, 0, 1}}
}

func flat2[V ~[2]E, E any](vs []V) []E {
	res := make([]E, 0, 2*len(vs))
	for _, v := range vs {
		res = append(res, v[0], v[1])
	}
	return res
}

func flat3[V ~[3]E, E any](vs []V) []E {
	res := make([]E, 0, 3*len(vs))
	for _, v := range vs {
		res = append(res, v[0], v[1], v[2])
	}
	return res
}

func flat4[V ~[4]E, E any](vs []V) []E {
	res := make([]E, 0, 4*len(vs))
	for _, v := range vs {
		res = append(res, v[0], v[1], v[2], v[3])
	}
	return res
}

func unflat2[V ~[2]E, E any](es []E) []V {
	res := make([]V, len(es)/2)
	for i := range res {
		res[i] = V{es[2*i], es[2*i+1]}
	}
	return res
}

func unflat3[V ~[3]E, E any](es []E) []V {
	res := make([]V, len(es)/3)
	for i := range res {
		res[i] = V{es[3*i], es[3*i+1], es[3*i+2]}
	}
	return res
}

func unflat4[V ~[4]E, E any](es []E) []V {
	res := make([]V, len(es)/4)
	for i := range res {
		res[i] = V{es[4*i], es[4*i+1], es[4*i+2], es[4*i+3]}
	}
	return res
}

func flatMatrix2(ms []Matrix2d) []float64 {
	res := make([]float64, 0, 4*len(ms))
	for _, m := range ms {
		for _, row := range m {
			res = append(res, row[:]...)
		}
	}
	return res
}

func flatMatrix3(ms []Matrix3d) []float64 {
	res := make([]float64, 0, 9*len(ms))
	for _, m := range ms {
		for _, row := range m {
			res = append(res, row[:]...)
		}
	}
	return res
}

func flatMatrix4(ms []Matrix4d) []float64 {
	res := make([]float64, 0, 16*len(ms))
	for _, m := range ms {
		for _, row := range m {
			res = append(res, row[:]...)
		}
	}
	return res
}

func unflatMatrix2(es []float64) []Matrix2d {
	res := make([]Matrix2d, len(es)/4)
	for i := range res {
		for r := 0; r < 2; r++ {
			copy(res[i][r][:], es[4*i+2*r:])
		}
	}
	return res
}

func unflatMatrix3(es []float64) []Matrix3d {
	res := make([]Matrix3d, len(es)/9)
	for i := range res {
		for r := 0; r < 3; r++ {
			copy(res[i][r][:], es[9*i+3*r:])
		}
	}
	return res
}

func unflatMatrix4(es []float64) []Matrix4d {
	res := make([]Matrix4d, len(es)/16)
	for i := range res {
		for r := 0; r < 4; r++ {
			copy(res[i][r][:], es[16*i+4*r:])
		}
	}
	return res
}
