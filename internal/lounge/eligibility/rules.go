package eligibility

import (
	"context"
	"fmt"

	"github.com/harshimysarla/LuxeAI/internal/lounge/face"
)

type rule struct {
	name  string
	check func(ctx context.Context, d *Decider, in Input, ev *evaluation) (*Decision, error)
}

// chain order decides which reason a user sees when several facts fail.
var chain = []rule{
	{name: "registered", check: checkRegistered},
	{name: "face_match", check: checkFaceMatch},
	{name: "booking_exists", check: checkBookingExists},
	{name: "booking_paid", check: checkBookingPaid},
	{name: "time_slot", check: checkTimeSlot},
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	out := make([]string, len(chain))
	for i, r := range chain {
		out[i] = r.name
	}
	return out
}

func checkRegistered(_ context.Context, _ *Decider, in Input, _ *evaluation) (*Decision, error) {
	if len(in.Enrolled) == 0 {
		dec := deny(CodeNotRegistered, ReasonNotRegistered)
		return &dec, nil
	}
	return nil, nil
}

func checkFaceMatch(ctx context.Context, d *Decider, in Input, ev *evaluation) (*Decision, error) {
	if len(in.Image) == 0 {
		dec := deny(CodeExtractionFailed, face.BadImage.Reason())
		return &dec, nil
	}
	live, err := d.extractor.Extract(ctx, in.Image)
	if err != nil {
		if ee, ok := face.AsExtractionError(err); ok {
			dec := deny(CodeExtractionFailed, ee.Kind.Reason())
			return &dec, nil
		}
		return nil, err
	}

	dist, err := face.Compare(in.Enrolled, live)
	if err != nil {
		return nil, err
	}
	ev.distance, ev.measured = dist, true

	// Written so a NaN distance also fails.
	if !(dist < d.threshold) {
		dec := deny(CodeFaceMismatch, fmt.Sprintf("Face verification failed (Distance: %.4f)", dist))
		return &dec, nil
	}
	return nil, nil
}

// checkBookingExists only asks whether some booking links the identity and
// venue. The booking date is not considered.
func checkBookingExists(_ context.Context, _ *Decider, in Input, _ *evaluation) (*Decision, error) {
	if in.Reservation == nil {
		dec := deny(CodeNoBooking, ReasonNoBooking)
		return &dec, nil
	}
	return nil, nil
}

func checkBookingPaid(_ context.Context, _ *Decider, in Input, _ *evaluation) (*Decision, error) {
	if !in.Reservation.Paid {
		dec := deny(CodeNotPaid, ReasonNotPaid)
		return &dec, nil
	}
	return nil, nil
}

// checkTimeSlot is a placeholder: a booking is valid for the whole day
// whatever its slot says. It stays in the chain so slot enforcement can be
// added without reshaping the rules.
func checkTimeSlot(_ context.Context, _ *Decider, in Input, _ *evaluation) (*Decision, error) {
	_ = in.Reservation.Slot
	return nil, nil
}
