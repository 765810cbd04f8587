package dto

import (
	"time"

	"github.com/spec-kit/it-manager/internal/domain"
)

// RegisterUserRequest is the body of POST /users.
type RegisterUserRequest struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Email        string  `json:"email" validate:"required,email"`
	Badge        string  `json:"badge" validate:"required,max=40"`
	Phone        *string `json:"phone"`
	DepartmentID string  `json:"departmentId" validate:"required"`
	Password     string  `json:"password" validate:"omitempty,min=6,max=72"`
}

// EditUserRequest is the body of PATCH /users/:userId/edit-department.
type EditUserRequest struct {
	Name         string  `json:"name" validate:"required,max=120"`
	Email        string  `json:"email" validate:"required,email"`
	Badge        string  `json:"badge" validate:"required,max=40"`
	Phone        *string `json:"phone"`
	DepartmentID string  `json:"departmentId" validate:"required"`
}

// UserResponse is the wire shape of a user. The password hash never leaves the service.
type UserResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Badge        string    `json:"badge"`
	Phone        *string   `json:"phone"`
	DepartmentID string    `json:"departmentId"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		Badge:        u.Badge,
		Phone:        u.Phone,
		DepartmentID: u.DepartmentID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// NewUserListResponse maps a list, never returning nil.
func NewUserListResponse(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, NewUserResponse(&users[i]))
	}
	return out
}
