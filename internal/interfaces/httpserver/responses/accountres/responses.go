package accountres

import (
	"time"

	"focusframe-server/internal/domain/owner"
)

// AccountResponse is the account page payload.
type AccountResponse struct {
	ID           string    `json:"id"`
	Object       string    `json:"object"`
	Email        string    `json:"email,omitempty"`
	DisplayName  string    `json:"display_name,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastSignInAt time.Time `json:"last_sign_in_at"`
	ItemCount    int64     `json:"item_count"`
}

// AccountDeletedResponse acknowledges account forgetting.
type AccountDeletedResponse struct {
	ID      string `json:"id"`
	Object  string `json:"object"`
	Deleted bool   `json:"deleted"`
}

// NewAccountResponse converts an owner profile.
func NewAccountResponse(p owner.Profile) AccountResponse {
	return AccountResponse{
		ID:           p.Owner.ID,
		Object:       "account",
		Email:        p.Owner.Email,
		DisplayName:  p.Owner.DisplayName,
		CreatedAt:    p.Owner.CreatedAt,
		LastSignInAt: p.Owner.LastSignInAt,
		ItemCount:    p.ItemCount,
	}
}
