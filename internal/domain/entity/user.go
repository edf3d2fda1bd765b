package entity

import "noteweaver/internal/auth"

// User is the general basic structure of all users across the platform.
//
// PasswordHash is an argon2id encoded string and never holds the plaintext
// password; a user cannot authenticate before it is set.
type User struct {
	ID           int    `gorm:"primaryKey"`
	Username     string `gorm:"not null;uniqueIndex"`
	Email        string `gorm:"not null;uniqueIndex"`
	PasswordHash string `gorm:"not null;size:128"`
	Country      string `gorm:"not null;default:United States"`
	TimeZone     string `gorm:"not null;default:America/New_York"`
	CreatedAt    int64  `gorm:"not null;index;autoUpdateTime:false"`
}

var _ auth.Principal = (*User)(nil)

// PrincipalID returns the stable identifier the session layer keys on.
func (u *User) PrincipalID() int {
	return u.ID
}

// IsActive reports whether the user may authenticate.
// There is no deactivation state, all existing users are active.
func (u *User) IsActive() bool {
	return true
}

// String is a debug label for logs and tests, never for display.
func (u *User) String() string {
	return "User: " + u.Username
}
