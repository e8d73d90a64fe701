package face_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
)

func randomSignature(r *rand.Rand, dim int) face.Signature {
	s := make(face.Signature, dim)
	for i := range s {
		s[i] = r.Float64()*2 - 1
	}
	return s
}

func TestDistance_SelfIsZero(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 50; i++ {
		v := randomSignature(r, 128)
		assert.InDelta(t, 0, face.Distance(v, v), 1e-6)
		assert.InDelta(t, 0, face.Distance(v.Normalize(), v.Normalize()), 1e-6)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 50; i++ {
		a, b := randomSignature(r, 64), randomSignature(r, 64)
		assert.Equal(t, face.Distance(a, b), face.Distance(b, a))
	}
}

func TestDistance_RangeForNormalizedInputs(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for i := 0; i < 200; i++ {
		a := randomSignature(r, 16).Normalize()
		b := randomSignature(r, 16).Normalize()
		d := face.Distance(a, b)
		assert.GreaterOrEqual(t, d, 0.0)
		assert.LessOrEqual(t, d, 2.0)
	}
}

func TestDistance_OppositeIsTwo(t *testing.T) {
	a := face.Signature{0.6, 0.8}
	b := face.Signature{-0.6, -0.8}
	assert.InDelta(t, 2, face.Distance(a, b), 1e-12)
}

func TestDistance_OrthogonalIsOne(t *testing.T) {
	assert.InDelta(t, 1, face.Distance(face.Signature{1, 0}, face.Signature{0, 1}), 1e-12)
}

func TestDistance_UnnormalizedInputsUseNorms(t *testing.T) {
	// Same direction, different magnitudes.
	a := face.Signature{3, 4}
	b := face.Signature{30, 40}
	assert.InDelta(t, 0, face.Distance(a, b), 1e-12)

	// cos = 0.6 between (3,4) and (5,0) scaled arbitrarily.
	assert.InDelta(t, 0.4, face.Distance(face.Signature{3, 4}, face.Signature{50, 0}), 1e-12)
}

func TestDistance_ZeroVectorNeverMatches(t *testing.T) {
	zero := face.Signature{0, 0, 0}
	v := face.Signature{1, 2, 3}
	d := face.Distance(zero, v)
	assert.False(t, math.IsNaN(d))
	assert.Equal(t, 1.0, d)
	assert.Equal(t, 1.0, face.Distance(zero, zero))
}

func TestCompare_DimensionMismatch(t *testing.T) {
	_, err := face.Compare(face.Signature{1, 0}, face.Signature{1, 0, 0})
	require.ErrorIs(t, err, face.ErrDimensionMismatch)

	_, err = face.Compare(nil, nil)
	require.ErrorIs(t, err, face.ErrDimensionMismatch)

	d, err := face.Compare(face.Signature{1, 0}, face.Signature{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0, d, 1e-12)
}

func TestConfidence(t *testing.T) {
	assert.InDelta(t, 95, face.Confidence(0.05), 1e-9)
	assert.InDelta(t, 100, face.Confidence(0), 1e-9)
	assert.Equal(t, 0.0, face.Confidence(1.5))
	// Not bounded above: negative distances (rounding) can exceed 100.
	assert.Greater(t, face.Confidence(-0.01), 100.0)
}
