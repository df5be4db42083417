package domain

import (
	"strings"
	"time"
)

// User represents a registered account in the auth service directory.
type User struct {
	ID           string     `json:"id"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Profession   Profession `json:"profession,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// PublicUser is the safe projection returned to clients and embedded in tokens.
type PublicUser struct {
	ID         string     `json:"id"`
	FullName   string     `json:"fullName"`
	Email      string     `json:"email"`
	Profession Profession `json:"profession,omitempty"`
}

func (u *User) Public() PublicUser {
	if u == nil {
		return PublicUser{}
	}
	return PublicUser{
		ID:         u.ID,
		FullName:   u.FullName,
		Email:      u.Email,
		Profession: u.Profession,
	}
}

// NormalizeEmail is the key used for duplicate detection and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
