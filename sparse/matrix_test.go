package sparse_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/randwalk/sparse"
)

// build is a test helper assembling a matrix from triplets.
func build(t *testing.T, rows, cols int, trip [][3]float64) *sparse.Matrix {
	t.Helper()
	b := sparse.NewBuilder(rows, cols, len(trip))
	for _, tr := range trip {
		b.Add(int(tr[0]), int(tr[1]), tr[2])
	}
	m, err := b.Done()
	require.NoError(t, err)

	return m
}

func TestBuilder_SumsDuplicates(t *testing.T) {
	m := build(t, 2, 2, [][3]float64{
		{0, 0, 1}, {0, 0, 2}, {0, 1, -1},
		{1, 1, 5},
	})
	require.Equal(t, 3.0, m.At(0, 0))
	require.Equal(t, -1.0, m.At(0, 1))
	require.Equal(t, 5.0, m.At(1, 1))
	require.Equal(t, 0.0, m.At(1, 0))
}

func TestBuilder_IndexOutOfRange(t *testing.T) {
	b := sparse.NewBuilder(2, 2, 1)
	b.Add(2, 0, 1)
	_, err := b.Done()
	require.ErrorIs(t, err, sparse.ErrIndexRange)
}

func TestMatrix_MulVec(t *testing.T) {
	// [[2,-1,0],[-1,2,-1],[0,-1,2]] · [1,2,3] = [0,0,4]
	m := build(t, 3, 3, [][3]float64{
		{0, 0, 2}, {0, 1, -1},
		{1, 0, -1}, {1, 1, 2}, {1, 2, -1},
		{2, 1, -1}, {2, 2, 2},
	})
	dst := make([]float64, 3)
	require.NoError(t, m.MulVec(dst, []float64{1, 2, 3}))
	require.InDeltaSlice(t, []float64{0, 0, 4}, dst, 1e-15)

	require.ErrorIs(t, m.MulVec(dst, []float64{1, 2}), sparse.ErrVecLength)
}

func TestMatrix_ImplementsGonumMatrix(t *testing.T) {
	m := build(t, 2, 3, [][3]float64{{0, 2, 7}, {1, 0, -3}})
	var gm mat.Matrix = m
	r, c := gm.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 3, c)
	require.Equal(t, 7.0, gm.At(0, 2))
	tr, tc := gm.T().Dims()
	require.Equal(t, 3, tr)
	require.Equal(t, 2, tc)
}

func TestMatrix_Transpose(t *testing.T) {
	m := build(t, 2, 3, [][3]float64{{0, 1, 4}, {0, 2, 5}, {1, 0, 6}})
	tt := m.Transpose()
	r, c := tt.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)
	for i := 0; i < 2; i++ {
		for j := 0; j < 3; j++ {
			require.Equal(t, m.At(i, j), tt.At(j, i))
		}
	}
}

func TestMatrix_Extract(t *testing.T) {
	m := build(t, 3, 3, [][3]float64{
		{0, 0, 1}, {0, 2, 2},
		{1, 1, 3},
		{2, 0, 4}, {2, 2, 5},
	})
	sub, err := m.Extract([]int{0, 2}, []int{0, 2})
	require.NoError(t, err)
	r, c := sub.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)
	require.Equal(t, 1.0, sub.At(0, 0))
	require.Equal(t, 2.0, sub.At(0, 1))
	require.Equal(t, 4.0, sub.At(1, 0))
	require.Equal(t, 5.0, sub.At(1, 1))
}

func TestMatrix_Mul(t *testing.T) {
	a := build(t, 2, 3, [][3]float64{{0, 0, 1}, {0, 1, 2}, {1, 2, 3}})
	b := build(t, 3, 2, [][3]float64{{0, 0, 4}, {1, 0, 5}, {1, 1, 6}, {2, 1, 7}})
	p, err := a.Mul(b)
	require.NoError(t, err)
	// Dense reference product.
	want := [2][2]float64{{14, 12}, {0, 21}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			require.InDelta(t, want[i][j], p.At(i, j), 1e-15)
		}
	}
	_, err = b.Mul(a.Transpose())
	require.ErrorIs(t, err, sparse.ErrDims)
}

func TestMatrix_AddDiag(t *testing.T) {
	m := build(t, 2, 2, [][3]float64{{0, 1, -1}, {1, 0, -1}})
	a, err := m.AddDiag([]float64{2, 3})
	require.NoError(t, err)
	require.Equal(t, 2.0, a.At(0, 0))
	require.Equal(t, 3.0, a.At(1, 1))
	require.Equal(t, -1.0, a.At(0, 1))

	_, err = m.AddDiag([]float64{1})
	require.ErrorIs(t, err, sparse.ErrVecLength)
}

func TestMatrix_ToSym(t *testing.T) {
	m := build(t, 2, 2, [][3]float64{{0, 0, 2}, {0, 1, -1}, {1, 0, -1}, {1, 1, 2}})
	s, err := m.ToSym()
	require.NoError(t, err)
	require.Equal(t, -1.0, s.At(1, 0))

	rect := build(t, 1, 2, [][3]float64{{0, 1, 1}})
	_, err = rect.ToSym()
	require.ErrorIs(t, err, sparse.ErrDims)
}
