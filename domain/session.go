package domain

import "time"

// Session is a login bound to a signed token through its ID (the token's sid claim).
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}

// Claims is what a verified token asserts about its bearer.
type Claims struct {
	SessionID string
	User      PublicUser
	ExpiresAt time.Time
}
