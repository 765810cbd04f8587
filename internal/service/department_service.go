package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/events"
	"github.com/spec-kit/it-manager/internal/repository"
	apperrors "github.com/spec-kit/it-manager/pkg/util/errorutil"
)

// DepartmentService implements the department use cases.
type DepartmentService struct {
	departments repository.DepartmentRepository
	users       repository.UserRepository
	events      publisher
}

// DepartmentDependencies bundles what DepartmentService needs.
type DepartmentDependencies struct {
	DepartmentRepo repository.DepartmentRepository
	UserRepo       repository.UserRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
}

// DepartmentInput carries the editable department fields.
type DepartmentInput struct {
	Description string
	Email       string
	ChiefID     *string
}

// NewDepartmentService constructs the service.
func NewDepartmentService(deps DepartmentDependencies) *DepartmentService {
	return &DepartmentService{
		departments: deps.DepartmentRepo,
		users:       deps.UserRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: loggerOrNop(deps.Logger)},
	}
}

// CreateDepartment registers a department and derives its slug.
func (s *DepartmentService) CreateDepartment(ctx context.Context, input DepartmentInput) (*domain.Department, error) {
	dept := domain.NewDepartment(uuid.NewString(), strings.TrimSpace(input.Description), strings.TrimSpace(input.Email), normalizeID(input.ChiefID))
	if err := s.validate(ctx, dept); err != nil {
		return nil, err
	}
	if err := s.departments.Create(ctx, dept); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.events.publish(ctx, events.Event{
		Type:      events.EventDepartmentCreated,
		SubjectID: dept.ID,
		Payload:   events.DepartmentCreatedPayload{Slug: dept.Slug, Email: dept.Email},
	})
	return dept, nil
}

// ListDepartments returns every department ordered by description.
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]domain.Department, error) {
	depts, err := s.departments.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return depts, nil
}

// GetDepartmentByID fetches a department.
func (s *DepartmentService) GetDepartmentByID(ctx context.Context, id string) (*domain.Department, error) {
	dept, err := s.departments.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "department", "department_id", id)
	}
	return dept, nil
}

// EditDepartment replaces the editable fields; the slug follows the description.
func (s *DepartmentService) EditDepartment(ctx context.Context, id string, input DepartmentInput) (*domain.Department, error) {
	dept, err := s.GetDepartmentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dept.Rename(strings.TrimSpace(input.Description))
	dept.Email = strings.TrimSpace(input.Email)
	dept.ChiefID = normalizeID(input.ChiefID)
	if err := s.validate(ctx, dept); err != nil {
		return nil, err
	}
	if err := s.departments.Update(ctx, dept); err != nil {
		return nil, notFound(err, "department", "department_id", id)
	}
	return dept, nil
}

// DeleteDepartment removes a department that no longer has users.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id string) error {
	if _, err := s.GetDepartmentByID(ctx, id); err != nil {
		return err
	}
	count, err := s.users.CountByDepartment(ctx, id)
	if err != nil {
		return apperrors.MapError(err)
	}
	if count > 0 {
		return apperrors.NewConflict("department still has users", map[string]any{"department_id": id, "users": count})
	}
	if err := s.departments.Delete(ctx, id); err != nil {
		return notFound(err, "department", "department_id", id)
	}
	return nil
}

func (s *DepartmentService) validate(ctx context.Context, dept *domain.Department) error {
	if dept.Slug == "" {
		return apperrors.NewValidationError("description must contain letters or digits", map[string]any{"description": dept.Description})
	}
	if existing, err := s.departments.GetBySlug(ctx, dept.Slug); err == nil && existing.ID != dept.ID {
		return apperrors.NewConflict("department already exists", map[string]any{"slug": dept.Slug})
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.MapError(err)
	}
	if dept.ChiefID != nil {
		if _, err := s.users.GetByID(ctx, *dept.ChiefID); err != nil {
			return notFound(err, "chief", "chief_id", *dept.ChiefID)
		}
	}
	return nil
}

func normalizeID(id *string) *string {
	if id == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*id)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
