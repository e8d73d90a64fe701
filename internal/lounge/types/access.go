package types

// VerifyRequest is one gate verification attempt. Image holds the raw upload.
type VerifyRequest struct {
	IdentityID int64
	VenueID    int64
	Image      []byte
}

type VerifyResponse struct {
	AccessGranted bool     `json:"access_granted"`
	Status        string   `json:"status"`
	Code          string   `json:"code"`
	Reason        string   `json:"reason"`
	Distance      *float64 `json:"distance,omitempty"`
	Confidence    *float64 `json:"confidence,omitempty"`
	IdentityID    int64    `json:"identity_id"`
	VenueID       int64    `json:"venue_id"`
	ServerTime    string   `json:"server_time"`
}
