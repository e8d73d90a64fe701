// Package eligibility turns a face match and booking facts into an
// admit/deny decision for a lounge gate.
package eligibility

import (
	"context"
	"fmt"

	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
)

// DefaultThreshold is the cosine distance below which two signatures are
// considered the same person.
const DefaultThreshold = 0.20

// Config is fixed at construction so tests can vary it freely.
type Config struct {
	Threshold float64
}

// Reservation is the booking the identity holds for the venue, if any.
type Reservation struct {
	ID   int64
	Paid bool
	// Slot such as "10:00-12:00". Recorded but not enforced.
	Slot string
}

// Input holds the facts for one verification attempt. Enrolled and
// Reservation must come from one consistent read.
type Input struct {
	Enrolled    face.Signature // nil when the identity never enrolled
	Image       []byte
	Reservation *Reservation // nil when no booking exists for the venue
}

// Decider evaluates the rule chain. It keeps no state between calls.
type Decider struct {
	extractor face.Extractor
	threshold float64
}

func New(ex face.Extractor, cfg Config) *Decider {
	th := cfg.Threshold
	if th <= 0 {
		th = DefaultThreshold
	}
	return &Decider{extractor: ex, threshold: th}
}

func (d *Decider) Threshold() float64 { return d.threshold }

// evaluation carries what earlier rules learned to later ones.
type evaluation struct {
	distance float64
	measured bool
}

// Decide runs the rules in order; the first denial wins. Every per-user
// problem (not enrolled, no face, mismatch, no booking, unpaid) is a denial.
// An error is returned only for configuration faults such as an unreachable
// model or a signature dimension mismatch.
func (d *Decider) Decide(ctx context.Context, in Input) (Decision, error) {
	var ev evaluation
	for _, r := range chain {
		denied, err := r.check(ctx, d, in, &ev)
		if err != nil {
			return Decision{}, fmt.Errorf("eligibility: %s: %w", r.name, err)
		}
		if denied != nil {
			return denied.withDistance(ev.distance, ev.measured), nil
		}
	}
	return Decision{Granted: true, Code: CodeGranted, Reason: ReasonGranted}.withDistance(ev.distance, ev.measured), nil
}
