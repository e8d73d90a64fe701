package face_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
)

func TestDeterministicExtractor_SameImageSameSignature(t *testing.T) {
	ex := face.NewDeterministicExtractor(128)
	img := gradientPNG(t, 7)

	a, err := ex.Extract(context.Background(), img)
	require.NoError(t, err)
	b, err := ex.Extract(context.Background(), img)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, 128, a.Dim())
	assert.InDelta(t, 1, a.Norm(), 1e-9)
	assert.InDelta(t, 0, face.Distance(a, b), 1e-9)
}

func TestDeterministicExtractor_DifferentImagesDiffer(t *testing.T) {
	ex := face.NewDeterministicExtractor(64)

	a, err := ex.Extract(context.Background(), gradientPNG(t, 1))
	require.NoError(t, err)
	b, err := ex.Extract(context.Background(), gradientPNG(t, 2))
	require.NoError(t, err)

	assert.Greater(t, face.Distance(a, b), 0.2)
}

func TestDeterministicExtractor_UniformImageIsNoFace(t *testing.T) {
	ex := face.NewDeterministicExtractor(64)

	_, err := ex.Extract(context.Background(), uniformPNG(t))
	ee, ok := face.AsExtractionError(err)
	require.True(t, ok, "expected extraction error, got %v", err)
	assert.Equal(t, face.NoFace, ee.Kind)
	assert.False(t, face.IsConfigFault(err))
}

func TestDeterministicExtractor_GarbageIsBadImage(t *testing.T) {
	ex := face.NewDeterministicExtractor(64)

	for _, img := range [][]byte{nil, []byte("definitely not an image")} {
		_, err := ex.Extract(context.Background(), img)
		ee, ok := face.AsExtractionError(err)
		require.True(t, ok)
		assert.Equal(t, face.BadImage, ee.Kind)
	}
}

func TestDeterministicExtractor_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := face.NewDeterministicExtractor(8).Extract(ctx, gradientPNG(t, 1))
	require.ErrorIs(t, err, context.Canceled)
}

func TestProbe_DeterministicHasNoBackend(t *testing.T) {
	require.NoError(t, face.Probe(context.Background(), face.NewDeterministicExtractor(8)))
}
