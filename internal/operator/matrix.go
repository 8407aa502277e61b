package operator

import (
	"math/cmplx"

	"github.com/olonok69/quantum-computing/internal/gate"
)

// Matrix is a dense square complex matrix in row-major order.
//
// Operators over n qubits have Dim = 2^n. The representation is dense,
// which caps practical circuits around 10-12 qubits. A sparse or
// gate-fusion strategy can replace the Builder without changing consumers,
// which only see Matrix and MulVec.
type Matrix struct {
	// Dim is the number of rows (== columns).
	Dim int

	// Data holds Dim*Dim entries, row-major.
	Data []complex128
}

// NewMatrix allocates a zero matrix of the given dimension.
func NewMatrix(dim int) Matrix {
	return Matrix{Dim: dim, Data: make([]complex128, dim*dim)}
}

// Identity returns the dim x dim identity matrix.
func Identity(dim int) Matrix {
	m := NewMatrix(dim)
	for i := 0; i < dim; i++ {
		m.Data[i*dim+i] = 1
	}
	return m
}

// At returns the entry at row r, column c.
func (m Matrix) At(r, c int) complex128 {
	return m.Data[r*m.Dim+c]
}

// Set stores v at row r, column c.
func (m Matrix) Set(r, c int, v complex128) {
	m.Data[r*m.Dim+c] = v
}

// fromUnitary converts a catalog 2x2 unitary into a Matrix.
func fromUnitary(u gate.Unitary2) Matrix {
	m := NewMatrix(2)
	m.Set(0, 0, u[0][0])
	m.Set(0, 1, u[0][1])
	m.Set(1, 0, u[1][0])
	m.Set(1, 1, u[1][1])
	return m
}

// Kron returns the Kronecker product m ⊗ other.
// The receiver is the left factor: entry ((i*p+k),(j*q+l)) = m(i,j)*other(k,l)
// where other is p x q (here always square).
func (m Matrix) Kron(other Matrix) Matrix {
	dim := m.Dim * other.Dim
	out := NewMatrix(dim)
	for i := 0; i < m.Dim; i++ {
		for j := 0; j < m.Dim; j++ {
			a := m.At(i, j)
			if a == 0 {
				continue
			}
			for k := 0; k < other.Dim; k++ {
				for l := 0; l < other.Dim; l++ {
					out.Set(i*other.Dim+k, j*other.Dim+l, a*other.At(k, l))
				}
			}
		}
	}
	return out
}

// Add returns the entrywise sum m + other. Dimensions must match.
func (m Matrix) Add(other Matrix) Matrix {
	out := NewMatrix(m.Dim)
	for i, v := range m.Data {
		out.Data[i] = v + other.Data[i]
	}
	return out
}

// Mul returns the matrix product m * other. Dimensions must match.
func (m Matrix) Mul(other Matrix) Matrix {
	out := NewMatrix(m.Dim)
	for i := 0; i < m.Dim; i++ {
		for k := 0; k < m.Dim; k++ {
			a := m.At(i, k)
			if a == 0 {
				continue
			}
			for j := 0; j < m.Dim; j++ {
				out.Data[i*m.Dim+j] += a * other.At(k, j)
			}
		}
	}
	return out
}

// MulVec returns the matrix-vector product m * v as a new slice.
// The input vector is never mutated.
func (m Matrix) MulVec(v []complex128) []complex128 {
	out := make([]complex128, m.Dim)
	for i := 0; i < m.Dim; i++ {
		row := m.Data[i*m.Dim : (i+1)*m.Dim]
		var sum complex128
		for j, a := range row {
			if a != 0 {
				sum += a * v[j]
			}
		}
		out[i] = sum
	}
	return out
}

// ConjTranspose returns the conjugate transpose m†.
func (m Matrix) ConjTranspose() Matrix {
	out := NewMatrix(m.Dim)
	for i := 0; i < m.Dim; i++ {
		for j := 0; j < m.Dim; j++ {
			out.Set(j, i, cmplx.Conj(m.At(i, j)))
		}
	}
	return out
}

// IsIdentity reports whether m is the identity matrix within tol.
func (m Matrix) IsIdentity(tol float64) bool {
	for i := 0; i < m.Dim; i++ {
		for j := 0; j < m.Dim; j++ {
			want := complex128(0)
			if i == j {
				want = 1
			}
			if cmplx.Abs(m.At(i, j)-want) > tol {
				return false
			}
		}
	}
	return true
}
