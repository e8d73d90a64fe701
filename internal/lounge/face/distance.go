package face

import (
	"fmt"
	"math"
)

// Similarity is the cosine similarity dot(a,b) / (‖a‖·‖b‖). The norms are
// always computed so unnormalised input is handled correctly. When either
// vector has zero magnitude the similarity is 0.
//
// a and b must have the same length; use Compare when that is not known.
func Similarity(a, b Signature) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	denom := math.Sqrt(na) * math.Sqrt(nb)
	if denom == 0 {
		return 0
	}
	sim := dot / denom

	// Rounding can push |sim| a hair past 1 for identical vectors.
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return sim
}

// Distance is the cosine distance 1 - Similarity(a, b), in [0, 2].
func Distance(a, b Signature) float64 {
	return 1 - Similarity(a, b)
}

// Compare is Distance with a length check.
func Compare(a, b Signature) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("%w: empty signature", ErrDimensionMismatch)
	}
	return Distance(a, b), nil
}

// Confidence is a display score derived from a distance: max(0, 100·(1-d)).
// It is not a probability.
func Confidence(distance float64) float64 {
	return math.Max(0, 100*(1-distance))
}
