package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPasswordChangedAfter(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("never changed", func(t *testing.T) {
		u := &User{}
		assert.False(t, u.PasswordChangedAfter(issuedAt))
	})

	t.Run("changed before issue", func(t *testing.T) {
		changed := issuedAt.Add(-time.Hour)
		u := &User{PasswordChangedAt: &changed}
		assert.False(t, u.PasswordChangedAfter(issuedAt))
	})

	t.Run("changed after issue", func(t *testing.T) {
		changed := issuedAt.Add(time.Hour)
		u := &User{PasswordChangedAt: &changed}
		assert.True(t, u.PasswordChangedAfter(issuedAt))
	})

	t.Run("changed in same second", func(t *testing.T) {
		// iat claims carry second precision, so a change within the same
		// second invalidates the token.
		changed := issuedAt.Add(500 * time.Millisecond)
		u := &User{PasswordChangedAt: &changed}
		assert.True(t, u.PasswordChangedAfter(issuedAt))
	})
}
