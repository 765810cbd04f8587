package dto

import "github.com/spec-kit/it-manager/internal/domain"

// DepartmentRequest is the body of POST and PUT /departments.
type DepartmentRequest struct {
	Description string  `json:"description" validate:"required,max=120"`
	Email       string  `json:"email" validate:"required,email"`
	ChiefID     *string `json:"chiefId"`
}

// DepartmentResponse is the wire shape of a department.
type DepartmentResponse struct {
	ID          string  `json:"id"`
	Description string  `json:"description"`
	Email       string  `json:"email"`
	Slug        string  `json:"slug"`
	ChiefID     *string `json:"chiefId"`
}

// NewDepartmentResponse maps a domain department.
func NewDepartmentResponse(d *domain.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Description: d.Description,
		Email:       d.Email,
		Slug:        d.Slug,
		ChiefID:     d.ChiefID,
	}
}

// NewDepartmentListResponse maps a list, never returning nil.
func NewDepartmentListResponse(depts []domain.Department) []DepartmentResponse {
	out := make([]DepartmentResponse, 0, len(depts))
	for i := range depts {
		out = append(out, NewDepartmentResponse(&depts[i]))
	}
	return out
}
