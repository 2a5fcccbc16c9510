package domain

import (
	"strings"
	"time"
)

// User is the profile of an authenticated account as returned on login.
type User struct {
	ID            string   `json:"id"`
	Username      string   `json:"username"`
	Email         string   `json:"email"`
	FirstName     string   `json:"firstName,omitempty"`
	LastName      string   `json:"lastName,omitempty"`
	ContactNumber string   `json:"contactNumber,omitempty"`
	Roles         []string `json:"roles"`
}

// HasRole reports whether the user carries role, with or without the
// ROLE_ prefix.
func (u User) HasRole(role string) bool {
	want := strings.TrimPrefix(strings.ToUpper(role), "ROLE_")
	for _, r := range u.Roles {
		if strings.TrimPrefix(strings.ToUpper(r), "ROLE_") == want {
			return true
		}
	}
	return false
}

// IsAdmin is a shorthand for HasRole("ADMIN").
func (u User) IsAdmin() bool {
	return u.HasRole("ADMIN")
}

// Session is the client-side authentication state. Token and User are either
// both set or both empty.
type Session struct {
	Token     string     `json:"token"`
	User      *User      `json:"user"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
}

// Valid reports whether both halves of the session are present.
func (s Session) Valid() bool {
	return s.Token != "" && s.User != nil
}

// Expired reports whether the session carries an expiry that lies before now.
func (s Session) Expired(now time.Time) bool {
	return s.ExpiresAt != nil && !now.Before(*s.ExpiresAt)
}

// Credentials are used once to build a login request and are never stored.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignUp is the new-account payload.
type SignUp struct {
	Username      string   `json:"username"`
	FirstName     string   `json:"firstName"`
	LastName      string   `json:"lastName"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	ContactNumber string   `json:"contactNumber"`
	Roles         []string `json:"role,omitempty"`
}

// LoginResult is what the authentication endpoint hands back.
type LoginResult struct {
	Token string
	User  User
}
