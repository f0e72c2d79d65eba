package math3d

// Mat3 is a 3x3 matrix stored in column-major order.
//
// | 0 3 6 |
// | 1 4 7 |
// | 2 5 8 |
type Mat3 [9]float64

// Identity3 returns the 3x3 identity matrix.
func Identity3() Mat3 {
	return Mat3{
		1, 0, 0,
		0, 1, 0,
		0, 0, 1,
	}
}

// Get returns the element at (row, col).
func (m Mat3) Get(row, col int) float64 {
	return m[row+col*3]
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat3) Mul(b Mat3) Mat3 {
	var m Mat3
	for col := range 3 {
		for row := range 3 {
			var sum float64
			for k := range 3 {
				sum += a[row+k*3] * b[k+col*3]
			}
			m[row+col*3] = sum
		}
	}
	return m
}

// MulVec3 transforms v by the matrix.
func (m Mat3) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0]*v.X + m[3]*v.Y + m[6]*v.Z,
		m[1]*v.X + m[4]*v.Y + m[7]*v.Z,
		m[2]*v.X + m[5]*v.Y + m[8]*v.Z,
	}
}

// Transpose returns the transposed matrix.
func (m Mat3) Transpose() Mat3 {
	return Mat3{
		m[0], m[3], m[6],
		m[1], m[4], m[7],
		m[2], m[5], m[8],
	}
}

// Determinant returns the determinant of the matrix.
func (m Mat3) Determinant() float64 {
	return m[0]*(m[4]*m[8]-m[7]*m[5]) -
		m[3]*(m[1]*m[8]-m[7]*m[2]) +
		m[6]*(m[1]*m[5]-m[4]*m[2])
}

// Inverse returns the inverse of the matrix.
// Returns identity if the matrix is singular (det=0).
func (m Mat3) Inverse() Mat3 {
	det := m.Determinant()
	if det == 0 {
		return Identity3()
	}
	inv := 1.0 / det

	return Mat3{
		(m[4]*m[8] - m[7]*m[5]) * inv,
		-(m[1]*m[8] - m[7]*m[2]) * inv,
		(m[1]*m[5] - m[4]*m[2]) * inv,

		-(m[3]*m[8] - m[6]*m[5]) * inv,
		(m[0]*m[8] - m[6]*m[2]) * inv,
		-(m[0]*m[5] - m[3]*m[2]) * inv,

		(m[3]*m[7] - m[6]*m[4]) * inv,
		-(m[0]*m[7] - m[6]*m[1]) * inv,
		(m[0]*m[4] - m[3]*m[1]) * inv,
	}
}

// ApproxEqual reports whether every element of a and b differs by at most
// eps.
func (a Mat3) ApproxEqual(b Mat3, eps float64) bool {
	for i := range a {
		d := a[i] - b[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}

// Float32 converts the matrix to single precision, preserving layout.
func (m Mat3) Float32() [9]float32 {
	var out [9]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}
