// Package face turns face images into signatures and compares them.
package face

import (
	"errors"
	"math"
)

// ErrDimensionMismatch is returned when two signatures (or a signature and
// the configured model) disagree on vector length. It points at a deployment
// problem, not at the person standing at the gate.
var ErrDimensionMismatch = errors.New("face: signature dimension mismatch")

// ErrModelMismatch is returned when a stored signature was enrolled with a
// different model than the one serving live captures.
var ErrModelMismatch = errors.New("face: signature model mismatch")

// Signature is an L2-normalised face embedding. Two signatures are only
// comparable when they come from the same model and dimension.
type Signature []float64

func (s Signature) Dim() int { return len(s) }

// Norm returns the Euclidean length of s.
func (s Signature) Norm() float64 {
	var sum float64
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// IsZero reports whether every component is zero. A zero signature never
// matches anything.
func (s Signature) IsZero() bool {
	for _, v := range s {
		if v != 0 {
			return false
		}
	}
	return true
}

// Normalize returns a unit-length copy of s. A zero-magnitude vector is
// returned as-is (copied) since it has no direction to preserve.
func (s Signature) Normalize() Signature {
	out := make(Signature, len(s))
	copy(out, s)

	n := s.Norm()
	if n == 0 {
		return out
	}
	for i := range out {
		out[i] /= n
	}
	return out
}

// Clone returns an independent copy of s.
func (s Signature) Clone() Signature {
	if s == nil {
		return nil
	}
	out := make(Signature, len(s))
	copy(out, s)
	return out
}
