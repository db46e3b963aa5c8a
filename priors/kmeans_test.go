package priors_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/randwalk/priors"
	"github.com/katalvlaran/randwalk/walker"
)

// bimodal is an 8x8 image with a clean two-level histogram: half the
// pixels near 0, half near 1. k-means cannot miss this split.
func bimodal() *walker.Field {
	rows := make([][]float64, 8)
	for x := range rows {
		rows[x] = make([]float64, 8)
		for y := range rows[x] {
			if y >= 4 {
				rows[x][y] = 1.0 + 0.01*float64(x%3)
			} else {
				rows[x][y] = 0.01 * float64(y)
			}
		}
	}

	return walker.NewField2D(rows)
}

func TestFromKMeans_ShapeAndNormalization(t *testing.T) {
	img := bimodal()
	prior, err := priors.FromKMeans(img, 2)
	require.NoError(t, err)
	require.Len(t, prior, 2)
	for ell := range prior {
		require.Len(t, prior[ell], len(img.Data))
	}
	for i := range img.Data {
		var sum float64
		for ell := range prior {
			p := prior[ell][i]
			require.GreaterOrEqual(t, p, 0.0, "class %d pixel %d", ell, i)
			require.LessOrEqual(t, p, 1.0, "class %d pixel %d", ell, i)
			sum += p
		}
		require.InDelta(t, 1, sum, 1e-12, "pixel %d", i)
	}
}

func TestFromKMeans_BimodalSplit(t *testing.T) {
	// Classes are numbered by ascending center, so dark pixels must favor
	// class 1 and bright pixels class 2 regardless of k-means seeding.
	img := bimodal()
	prior, err := priors.FromKMeans(img, 2)
	require.NoError(t, err)
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			i := img.Shape.Index(x, y, 0)
			if y >= 4 {
				require.Greater(t, prior[1][i], prior[0][i], "(%d,%d)", x, y)
			} else {
				require.Greater(t, prior[0][i], prior[1][i], "(%d,%d)", x, y)
			}
		}
	}
}

func TestFromKMeans_FeedsSegmentation(t *testing.T) {
	img := bimodal()
	prior, err := priors.FromKMeans(img, 2)
	require.NoError(t, err)
	out, err := walker.SegmentWithPriors(img, prior)
	require.NoError(t, err)
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			want := 1
			if y >= 4 {
				want = 2
			}
			require.Equal(t, want, out.At(x, y, 0), "(%d,%d)", x, y)
		}
	}
}

func TestFromKMeans_ConstantImage(t *testing.T) {
	// Zero variance floors the bandwidth instead of dividing by zero.
	rows := make([][]float64, 4)
	for x := range rows {
		rows[x] = []float64{2, 2, 2, 2}
	}
	prior, err := priors.FromKMeans(walker.NewField2D(rows), 2)
	require.NoError(t, err)
	for i := 0; i < 16; i++ {
		var sum float64
		for ell := range prior {
			sum += prior[ell][i]
		}
		require.InDelta(t, 1, sum, 1e-12)
	}
}

func TestFromKMeans_Validation(t *testing.T) {
	img := bimodal()

	_, err := priors.FromKMeans(nil, 2)
	require.ErrorIs(t, err, walker.ErrNilInput)

	_, err = priors.FromKMeans(img, 1)
	require.ErrorIs(t, err, priors.ErrBadClassCount)

	_, err = priors.FromKMeans(img, len(img.Data)+1)
	require.ErrorIs(t, err, priors.ErrBadClassCount)
}
