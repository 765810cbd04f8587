package domain

import "time"

// User is an employee that belongs to a department and may hold a badge.
type User struct {
	ID           string
	Name         string
	Email        string
	Badge        string
	Phone        *string
	DepartmentID string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanAuthenticate reports whether the user has credentials for session login.
func (u *User) CanAuthenticate() bool {
	return u.PasswordHash != ""
}
