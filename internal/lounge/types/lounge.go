package types

type LoungeResponse struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Airport          string  `json:"airport"`
	TotalSeats       int     `json:"total_seats"`
	Occupancy        int     `json:"occupancy"`
	OccupancyPercent float64 `json:"occupancy_percent"`
}

// BookingRequest books a seat. A non-empty PaymentReference marks the
// booking paid; no payment is processed.
type BookingRequest struct {
	IdentityID       int64  `json:"identity_id" validate:"required,gt=0"`
	LoungeID         int64  `json:"lounge_id" validate:"required,gt=0"`
	Date             string `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Slot             string `json:"slot,omitempty" validate:"max=32"`
	FlightNumber     string `json:"flight_number,omitempty" validate:"max=16"`
	PaymentReference string `json:"payment_reference,omitempty" validate:"max=128"`
}

type BookingResponse struct {
	ID           int64  `json:"booking_id"`
	IdentityID   int64  `json:"identity_id"`
	LoungeID     int64  `json:"lounge_id"`
	Date         string `json:"date"`
	Slot         string `json:"slot,omitempty"`
	Status       string `json:"status"`
	Paid         bool   `json:"is_paid"`
	FlightNumber string `json:"flight_number,omitempty"`
	QRCode       string `json:"qr_code"`
}
