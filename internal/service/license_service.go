package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/events"
	"github.com/spec-kit/it-manager/internal/repository"
	apperrors "github.com/spec-kit/it-manager/pkg/util/errorutil"
)

// LicenseService implements the license use cases.
type LicenseService struct {
	licenses    repository.LicenseRepository
	departments repository.DepartmentRepository
	events      publisher
	now         Clock
}

// LicenseDependencies bundles what LicenseService needs.
type LicenseDependencies struct {
	LicenseRepo    repository.LicenseRepository
	DepartmentRepo repository.DepartmentRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	Clock          Clock
}

// LicenseInput carries the fields of a new license.
type LicenseInput struct {
	Name         string
	Quantity     int
	DepartmentID *string
	ExpiresAt    time.Time
}

// NewLicenseService constructs the service.
func NewLicenseService(deps LicenseDependencies) *LicenseService {
	return &LicenseService{
		licenses:    deps.LicenseRepo,
		departments: deps.DepartmentRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: loggerOrNop(deps.Logger)},
		now:         clockOrSystem(deps.Clock),
	}
}

// CreateLicense stores a license that has not expired yet.
func (s *LicenseService) CreateLicense(ctx context.Context, input LicenseInput) (*domain.License, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("name is required", nil)
	}
	if input.Quantity < 1 {
		return nil, apperrors.NewValidationError("quantity must be at least 1", map[string]any{"quantity": input.Quantity})
	}
	license := &domain.License{
		ID:           uuid.NewString(),
		Name:         name,
		Quantity:     input.Quantity,
		DepartmentID: normalizeID(input.DepartmentID),
	}
	if err := license.ChangeExpiration(input.ExpiresAt.UTC(), s.now()); err != nil {
		return nil, expirationError(err, input.ExpiresAt)
	}
	if license.DepartmentID != nil {
		if _, err := s.departments.GetByID(ctx, *license.DepartmentID); err != nil {
			return nil, notFound(err, "department", "department_id", *license.DepartmentID)
		}
	}
	if err := s.licenses.Create(ctx, license); err != nil {
		return nil, apperrors.MapError(err)
	}
	return license, nil
}

// ListLicenses returns every license ordered by expiration.
func (s *LicenseService) ListLicenses(ctx context.Context) ([]domain.License, error) {
	licenses, err := s.licenses.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return licenses, nil
}

// GetLicenseByID fetches a license.
func (s *LicenseService) GetLicenseByID(ctx context.Context, id string) (*domain.License, error) {
	license, err := s.licenses.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "license", "license_id", id)
	}
	return license, nil
}

// EditLicenseExpireDate moves the expiration date. A date in the past is
// rejected and the stored license stays as it was.
func (s *LicenseService) EditLicenseExpireDate(ctx context.Context, id string, expiresAt time.Time) (*domain.License, error) {
	license, err := s.GetLicenseByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previous := license.ExpiresAt
	if err := license.ChangeExpiration(expiresAt.UTC(), s.now()); err != nil {
		return nil, expirationError(err, expiresAt)
	}
	if err := s.licenses.Update(ctx, license); err != nil {
		return nil, notFound(err, "license", "license_id", id)
	}
	s.events.publish(ctx, events.Event{
		Type:      events.EventLicenseExpirationChanged,
		SubjectID: license.ID,
		Payload:   events.LicenseExpirationChangedPayload{OldExpiresAt: previous, NewExpiresAt: license.ExpiresAt},
	})
	return license, nil
}

// DeleteLicense removes a license.
func (s *LicenseService) DeleteLicense(ctx context.Context, id string) error {
	if err := s.licenses.Delete(ctx, id); err != nil {
		return notFound(err, "license", "license_id", id)
	}
	return nil
}

// ListExpiringLicenses returns licenses that are still valid but lapse within the window.
func (s *LicenseService) ListExpiringLicenses(ctx context.Context, within time.Duration) ([]domain.License, error) {
	now := s.now()
	licenses, err := s.licenses.ListExpiringBetween(ctx, now, now.Add(within))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return licenses, nil
}

// NotifyExpiringLicenses publishes license_expiring for each license lapsing within the window.
func (s *LicenseService) NotifyExpiringLicenses(ctx context.Context, within time.Duration) (int, error) {
	licenses, err := s.ListExpiringLicenses(ctx, within)
	if err != nil {
		return 0, err
	}
	for _, license := range licenses {
		s.events.publish(ctx, events.Event{
			Type:      events.EventLicenseExpiring,
			SubjectID: license.ID,
			Payload:   events.LicenseExpiringPayload{Name: license.Name, ExpiresAt: license.ExpiresAt},
		})
	}
	return len(licenses), nil
}

func expirationError(err error, expiresAt time.Time) error {
	if errors.Is(err, domain.ErrExpirationInPast) {
		return apperrors.NewValidationError(err.Error(), map[string]any{"expiresAt": expiresAt})
	}
	return apperrors.MapError(err)
}
