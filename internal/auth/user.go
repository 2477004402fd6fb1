package auth

import "time"

// User is a registered account. PasswordHash is a bcrypt hash and never
// leaves this package.
type User struct {
	CreatedAt    time.Time `json:"createdAt"`
	UID          string    `json:"uid"`
	Email        string    `json:"email"`
	DisplayName  string    `json:"displayName,omitempty"`
	PasswordHash []byte    `json:"-"`
}
