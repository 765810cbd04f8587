package domain

import "time"

// Department represents an organizational unit that owns users and licenses.
type Department struct {
	ID          string
	Description string
	Email       string
	Slug        string
	ChiefID     *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewDepartment builds a department with its slug derived from the description.
func NewDepartment(id, description, email string, chiefID *string) *Department {
	return &Department{
		ID:          id,
		Description: description,
		Email:       email,
		Slug:        Slugify(description),
		ChiefID:     chiefID,
	}
}

// Rename changes the description and re-derives the slug.
func (d *Department) Rename(description string) {
	d.Description = description
	d.Slug = Slugify(description)
}
