package eligibility

import "github.com/harshimysarla/LuxeAI/internal/lounge/face"

// Code identifies which rule produced a decision. Codes are stable and safe
// to use as metric labels.
type Code string

const (
	CodeNotRegistered    Code = "not_registered"
	CodeExtractionFailed Code = "extraction_failed"
	CodeFaceMismatch     Code = "face_mismatch"
	CodeNoBooking        Code = "no_booking"
	CodeNotPaid          Code = "not_paid"
	CodeGranted          Code = "granted"
)

// User-facing reasons. The face-mismatch reason also carries the distance.
const (
	ReasonNotRegistered = "Face not registered"
	ReasonNoBooking     = "No booking found for this lounge"
	ReasonNotPaid       = "Booking not paid"
	ReasonGranted       = "Access Granted"
)

// Audit statuses.
const (
	StatusGranted = "Access Granted"
	StatusDenied  = "Access Denied"
)

// Decision is the immutable outcome of one evaluation.
type Decision struct {
	Granted bool
	Code    Code
	Reason  string

	distance float64
	measured bool
}

func deny(code Code, reason string) Decision {
	return Decision{Code: code, Reason: reason}
}

// Distance returns the match distance once the face rule has run.
func (d Decision) Distance() (float64, bool) {
	return d.distance, d.measured
}

// Confidence is the display score for the measured distance.
func (d Decision) Confidence() (float64, bool) {
	if !d.measured {
		return 0, false
	}
	return face.Confidence(d.distance), true
}

// Status is the audit-log status string.
func (d Decision) Status() string {
	if d.Granted {
		return StatusGranted
	}
	return StatusDenied
}

func (d Decision) withDistance(dist float64, measured bool) Decision {
	d.distance = dist
	d.measured = measured
	return d
}
