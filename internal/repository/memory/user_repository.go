package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/repository"
)

// UserRepository is an in-memory repository.UserRepository.
type UserRepository struct {
	mu    sync.RWMutex
	Items []domain.User
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository returns an empty repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkUnique(user); err != nil {
		return err
	}
	user.CreatedAt = now()
	user.UpdatedAt = user.CreatedAt
	r.Items = append(r.Items, copyUser(*user))
	return nil
}

func (r *UserRepository) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(user.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	if err := r.checkUnique(user); err != nil {
		return err
	}
	user.UpdatedAt = now()
	r.Items[i] = copyUser(*user)
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.Items = append(r.Items[:i], r.Items[i+1:]...)
	return nil
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByBadge(_ context.Context, badge string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Badge == badge })
}

func (r *UserRepository) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.User
	for _, item := range r.Items {
		if filter.DepartmentID != nil && item.DepartmentID != *filter.DepartmentID {
			continue
		}
		out = append(out, copyUser(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *UserRepository) CountByDepartment(_ context.Context, departmentID string) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	count := 0
	for _, item := range r.Items {
		if item.DepartmentID == departmentID {
			count++
		}
	}
	return count, nil
}

func (r *UserRepository) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.Items {
		if match(item) {
			user := copyUser(item)
			return &user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) indexOf(id string) int {
	for i, item := range r.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (r *UserRepository) checkUnique(user *domain.User) error {
	for _, item := range r.Items {
		if item.ID == user.ID {
			continue
		}
		if item.Email == user.Email {
			return uniqueViolation("users_email_key")
		}
		if item.Badge == user.Badge {
			return uniqueViolation("users_badge_key")
		}
	}
	return nil
}

func copyUser(u domain.User) domain.User {
	u.Phone = cloneString(u.Phone)
	return u
}
