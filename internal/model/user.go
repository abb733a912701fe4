package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles a user can hold. Route allow-lists reference these.
const (
	RoleUser      = "user"
	RoleGuide     = "guide"
	RoleLeadGuide = "lead-guide"
	RoleAdmin     = "admin"
)

// User is a registered account.
//
// PasswordHash and the reset-token pair are internal credential state:
// excluded from JSON and from the default read projection, and only
// selected explicitly on the login/reset paths.
type User struct {
	ID    uuid.UUID `db:"id" json:"id"`
	Name  string    `db:"name" json:"name"`
	Email string    `db:"email" json:"email"`
	Photo string    `db:"photo" json:"photo"`
	Role  string    `db:"role" json:"role"`

	PasswordHash         string     `db:"password_hash" json:"-"`
	PasswordChangedAt    *time.Time `db:"password_changed_at" json:"-"`
	PasswordResetToken   *string    `db:"password_reset_token" json:"-"`
	PasswordResetExpires *time.Time `db:"password_reset_expires" json:"-"`

	Active    bool      `db:"active" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// PasswordChangedAfter reports whether the user's credentials changed at or
// after the given token issue time. Tokens issued before a password change
// are no longer honored.
func (u *User) PasswordChangedAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	// Compare at second precision: token iat claims are unix seconds.
	return !u.PasswordChangedAt.Truncate(time.Second).Before(issuedAt.Truncate(time.Second))
}
