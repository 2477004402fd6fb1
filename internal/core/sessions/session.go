package sessions

import "time"

// Session represents one authenticated identity held by a signed-in client.
// Sessions are owned and mutated by the auth provider; the Store only
// observes and republishes them.
type Session struct {
	CreatedAt   time.Time `json:"createdAt"`
	ExpiresAt   time.Time `json:"expiresAt"`
	Token       string    `json:"-"`
	UID         string    `json:"uid"`
	DisplayName string    `json:"displayName,omitempty"`
	Email       string    `json:"email"`
}

// Name returns the author-facing name for this identity: the display name
// when one is set, otherwise the email address. Post and comment records
// snapshot this value at creation time.
func (s *Session) Name() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Email
}

// Event is one change emitted on the auth-state stream. Session is nil when
// the identity behind Token signed out or was invalidated.
type Event struct {
	Session *Session
	Token   string
}
