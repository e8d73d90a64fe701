package types

type CreateIdentityRequest struct {
	Username string `json:"username" validate:"required,min=3,max=64"`
	Role     string `json:"role,omitempty" validate:"omitempty,oneof=user premium admin"`
}

type IdentityResponse struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Role      string `json:"role"`
	Active    bool   `json:"active"`
	CreatedAt string `json:"created_at"`
}

type EnrollResponse struct {
	IdentityID int64  `json:"identity_id"`
	Model      string `json:"model"`
	Dim        int    `json:"dim"`
	UpdatedAt  string `json:"updated_at"`
}
