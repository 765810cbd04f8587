package events

import (
	"time"

	"github.com/spec-kit/it-manager/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventDepartmentCreated        EventType = "department_created"
	EventUserDepartmentChanged    EventType = "user_department_changed"
	EventLicenseExpirationChanged EventType = "license_expiration_changed"
	EventLicenseExpiring          EventType = "license_expiring"
	EventInkStockChanged          EventType = "ink_stock_changed"
	EventInkStockDepleted         EventType = "ink_stock_depleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	SubjectID string    `json:"subject_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// DepartmentCreatedPayload payload.
type DepartmentCreatedPayload struct {
	Slug  string `json:"slug"`
	Email string `json:"email"`
}

// UserDepartmentChangedPayload payload.
type UserDepartmentChangedPayload struct {
	OldDepartmentID string `json:"old_department_id"`
	NewDepartmentID string `json:"new_department_id"`
}

// LicenseExpirationChangedPayload payload.
type LicenseExpirationChangedPayload struct {
	OldExpiresAt time.Time `json:"old_expires_at"`
	NewExpiresAt time.Time `json:"new_expires_at"`
}

// LicenseExpiringPayload payload.
type LicenseExpiringPayload struct {
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InkStockChangedPayload payload.
type InkStockChangedPayload struct {
	PrinterName string                        `json:"printer_name"`
	Entries     []domain.InkStockHistoryEntry `json:"entries"`
}

// InkStockDepletedPayload payload.
type InkStockDepletedPayload struct {
	PrinterName string            `json:"printer_name"`
	Colors      []domain.InkColor `json:"colors"`
}
