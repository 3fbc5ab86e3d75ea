package models

import (
	"time"

	"bclub/backend/libs/auth"
)

// User is a staff account allowed to operate the counter.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         string
	Capabilities auth.CapabilitySet
	CreatedAt    time.Time
}

// Principal converts the stored account into the identity carried by tokens.
func (u *User) Principal() auth.Principal {
	return auth.Principal{
		UserID:       u.ID,
		Username:     u.Username,
		Role:         u.Role,
		Capabilities: auth.ForRole(u.Role, u.Capabilities),
	}
}
