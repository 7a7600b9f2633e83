package auth

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"focusframe-server/internal/domain/owner"
)

// Claims are the token fields the service reads.
type Claims struct {
	Email             string `json:"email,omitempty"`
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	jwt.RegisteredClaims
}

// Identity maps the claims onto an owner identity.
func (c *Claims) Identity() owner.Identity {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		name = strings.TrimSpace(c.PreferredUsername)
	}
	return owner.Identity{
		ID:          strings.TrimSpace(c.Subject),
		Email:       strings.TrimSpace(c.Email),
		DisplayName: name,
	}
}
