package domain

import (
	"errors"
	"time"
)

// ErrExpirationInPast is returned when a license expiration precedes the current time.
var ErrExpirationInPast = errors.New("license expiration date must not be in the past")

// License tracks a purchased software entitlement and when it lapses.
type License struct {
	ID           string
	Name         string
	Quantity     int
	DepartmentID *string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ChangeExpiration sets a new expiration date. Dates before now are rejected
// and leave the license untouched.
func (l *License) ChangeExpiration(expiresAt, now time.Time) error {
	if expiresAt.Before(now) {
		return ErrExpirationInPast
	}
	l.ExpiresAt = expiresAt
	return nil
}

// IsExpired reports whether the license has lapsed at the given instant.
func (l *License) IsExpired(now time.Time) bool {
	return l.ExpiresAt.Before(now)
}

// ExpiresWithin reports whether the license is still valid but lapses within d.
func (l *License) ExpiresWithin(now time.Time, d time.Duration) bool {
	return !l.IsExpired(now) && !l.ExpiresAt.After(now.Add(d))
}
