package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/it-manager/internal/auth"
	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/events"
	"github.com/spec-kit/it-manager/internal/repository"
	apperrors "github.com/spec-kit/it-manager/pkg/util/errorutil"
)

// UserService implements user registration and department moves.
type UserService struct {
	users       repository.UserRepository
	departments repository.DepartmentRepository
	events      publisher
	bcryptCost  int
}

// UserDependencies bundles what UserService needs.
type UserDependencies struct {
	UserRepo       repository.UserRepository
	DepartmentRepo repository.DepartmentRepository
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	BcryptCost     int
}

// UserInput carries user fields shared by register and edit.
type UserInput struct {
	Name         string
	Email        string
	Badge        string
	Phone        *string
	DepartmentID string
	Password     string
}

// NewUserService constructs the service.
func NewUserService(deps UserDependencies) *UserService {
	return &UserService{
		users:       deps.UserRepo,
		departments: deps.DepartmentRepo,
		events:      publisher{dispatcher: deps.Dispatcher, logger: loggerOrNop(deps.Logger)},
		bcryptCost:  deps.BcryptCost,
	}
}

// RegisterUser creates a user inside an existing department.
func (s *UserService) RegisterUser(ctx context.Context, input UserInput) (*domain.User, error) {
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(input.Name),
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Badge:        strings.TrimSpace(input.Badge),
		Phone:        normalizeID(input.Phone),
		DepartmentID: strings.TrimSpace(input.DepartmentID),
	}
	if err := s.ensureDepartment(ctx, user.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, user); err != nil {
		return nil, err
	}
	if input.Password != "" {
		hash, err := auth.HashPassword(input.Password, s.bcryptCost)
		if err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		user.PasswordHash = hash
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, apperrors.MapError(err)
	}
	return user, nil
}

// GetUserByID fetches a user.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user", "user_id", id)
	}
	return user, nil
}

// ListUsers lists users, optionally restricted to one department.
func (s *UserService) ListUsers(ctx context.Context, filter repository.UserFilter) ([]domain.User, error) {
	users, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return users, nil
}

// EditUser replaces the user's profile, including the department it belongs to.
// The password hash is kept as is.
func (s *UserService) EditUser(ctx context.Context, id string, input UserInput) (*domain.User, error) {
	user, err := s.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	previousDepartment := user.DepartmentID

	user.Name = strings.TrimSpace(input.Name)
	user.Email = strings.ToLower(strings.TrimSpace(input.Email))
	user.Badge = strings.TrimSpace(input.Badge)
	user.Phone = normalizeID(input.Phone)
	user.DepartmentID = strings.TrimSpace(input.DepartmentID)

	if err := s.ensureDepartment(ctx, user.DepartmentID); err != nil {
		return nil, err
	}
	if err := s.ensureUnique(ctx, user); err != nil {
		return nil, err
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, notFound(err, "user", "user_id", id)
	}

	if previousDepartment != user.DepartmentID {
		s.events.publish(ctx, events.Event{
			Type:      events.EventUserDepartmentChanged,
			SubjectID: user.ID,
			Payload: events.UserDepartmentChangedPayload{
				OldDepartmentID: previousDepartment,
				NewDepartmentID: user.DepartmentID,
			},
		})
	}
	return user, nil
}

// DeleteUser removes a user.
func (s *UserService) DeleteUser(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFound(err, "user", "user_id", id)
	}
	return nil
}

func (s *UserService) ensureDepartment(ctx context.Context, departmentID string) error {
	if departmentID == "" {
		return apperrors.NewValidationError("departmentId is required", nil)
	}
	if _, err := s.departments.GetByID(ctx, departmentID); err != nil {
		return notFound(err, "department", "department_id", departmentID)
	}
	return nil
}

func (s *UserService) ensureUnique(ctx context.Context, user *domain.User) error {
	if existing, err := s.users.GetByEmail(ctx, user.Email); err == nil && existing.ID != user.ID {
		return apperrors.NewConflict("email already registered", map[string]any{"email": user.Email})
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.MapError(err)
	}
	if existing, err := s.users.GetByBadge(ctx, user.Badge); err == nil && existing.ID != user.ID {
		return apperrors.NewConflict("badge already registered", map[string]any{"badge": user.Badge})
	} else if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return apperrors.MapError(err)
	}
	return nil
}
