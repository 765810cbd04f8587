package dto

import (
	"time"

	"github.com/spec-kit/it-manager/internal/domain"
)

// CreateLicenseRequest is the body of POST /licenses.
type CreateLicenseRequest struct {
	Name         string    `json:"name" validate:"required,max=120"`
	Quantity     int       `json:"quantity" validate:"required,min=1"`
	DepartmentID *string   `json:"departmentId"`
	ExpiresAt    time.Time `json:"expiresAt" validate:"required"`
}

// EditLicenseExpireDateRequest is the body of PATCH /licenses/:licenseId/expire-date.
type EditLicenseExpireDateRequest struct {
	ExpiresAt time.Time `json:"expiresAt" validate:"required"`
}

// LicenseResponse is the wire shape of a license.
type LicenseResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Quantity     int       `json:"quantity"`
	DepartmentID *string   `json:"departmentId"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewLicenseResponse maps a domain license.
func NewLicenseResponse(l *domain.License) LicenseResponse {
	return LicenseResponse{
		ID:           l.ID,
		Name:         l.Name,
		Quantity:     l.Quantity,
		DepartmentID: l.DepartmentID,
		ExpiresAt:    l.ExpiresAt,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
	}
}

// NewLicenseListResponse maps a list, never returning nil.
func NewLicenseListResponse(licenses []domain.License) []LicenseResponse {
	out := make([]LicenseResponse, 0, len(licenses))
	for i := range licenses {
		out = append(out, NewLicenseResponse(&licenses[i]))
	}
	return out
}
