package session

import (
	"errors"
	"regexp"
	"time"
)

// DefaultTimezone is applied to profiles that never set one.
const DefaultTimezone = "UTC+3"

// User is a demo account. Nothing here is secret; the password is never kept.
type User struct {
	Username     string    `json:"username"`
	Email        string    `json:"email,omitempty"`
	Fullname     string    `json:"fullname,omitempty"`
	Organization string    `json:"organization,omitempty"`
	Bio          string    `json:"bio,omitempty"`
	Timezone     string    `json:"timezone"`
	CreatedAt    time.Time `json:"createdAt"`
	Stats        Stats     `json:"stats"`
}

// DisplayName prefers the full name over the username.
func (u User) DisplayName() string {
	if u.Fullname != "" {
		return u.Fullname
	}
	return u.Username
}

// AccountAgeDays is the number of whole days since the account was created.
func (u User) AccountAgeDays(now time.Time) int {
	if u.CreatedAt.IsZero() || now.Before(u.CreatedAt) {
		return 0
	}
	return int(now.Sub(u.CreatedAt) / (24 * time.Hour))
}

// Stats are cosmetic counters shown on the profile page.
type Stats struct {
	EmailsSent  int `json:"emailsSent"`
	StorageUsed int `json:"storageUsed"`
}

// Registration is the sign-up form.
type Registration struct {
	Username     string `json:"username"`
	Email        string `json:"email"`
	Fullname     string `json:"fullname"`
	Organization string `json:"organization"`
}

// ProfileUpdate carries editable profile fields. Empty fields are left as is.
type ProfileUpdate struct {
	Fullname     string `json:"fullname"`
	Organization string `json:"organization"`
	Bio          string `json:"bio"`
	Timezone     string `json:"timezone"`
}

var (
	ErrInvalidUsername    = errors.New("username may contain only letters, digits, dots, dashes and underscores, minimum 3 characters")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("username already registered")
	ErrNoSession          = errors.New("no active session")
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]+$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateUsername enforces the sign-up username rules.
func ValidateUsername(s string) error {
	if len(s) < 3 || !usernamePattern.MatchString(s) {
		return ErrInvalidUsername
	}
	return nil
}

// ValidateEmail performs the same loose shape check as the sign-up form.
func ValidateEmail(s string) error {
	if !emailPattern.MatchString(s) {
		return ErrInvalidEmail
	}
	return nil
}
