package types

type StatsResponse struct {
	TotalUsers    int64   `json:"total_users"`
	TotalBookings int64   `json:"total_bookings"`
	TotalEntries  int64   `json:"total_entries"`
	Revenue       float64 `json:"revenue"`
}

type EntryLogResponse struct {
	ID         int64    `json:"id"`
	IdentityID int64    `json:"identity_id"`
	Username   string   `json:"user"`
	LoungeID   int64    `json:"lounge_id"`
	LoungeName string   `json:"lounge"`
	Timestamp  string   `json:"timestamp"`
	Status     string   `json:"status"`
	Reason     string   `json:"reason"`
	Distance   *float64 `json:"distance,omitempty"`
}
