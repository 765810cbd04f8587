package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/repository"
)

// DepartmentRepository is an in-memory repository.DepartmentRepository.
type DepartmentRepository struct {
	mu    sync.RWMutex
	Items []domain.Department
}

var _ repository.DepartmentRepository = (*DepartmentRepository)(nil)

// NewDepartmentRepository returns an empty repository.
func NewDepartmentRepository() *DepartmentRepository {
	return &DepartmentRepository{}
}

func (r *DepartmentRepository) Create(_ context.Context, dept *domain.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.slugTaken(dept.Slug, dept.ID) {
		return uniqueViolation("departments_slug_key")
	}
	dept.CreatedAt = now()
	dept.UpdatedAt = dept.CreatedAt
	r.Items = append(r.Items, copyDepartment(*dept))
	return nil
}

func (r *DepartmentRepository) Update(_ context.Context, dept *domain.Department) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(dept.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	if r.slugTaken(dept.Slug, dept.ID) {
		return uniqueViolation("departments_slug_key")
	}
	dept.UpdatedAt = now()
	r.Items[i] = copyDepartment(*dept)
	return nil
}

func (r *DepartmentRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.Items = append(r.Items[:i], r.Items[i+1:]...)
	return nil
}

func (r *DepartmentRepository) GetByID(_ context.Context, id string) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		dept := copyDepartment(r.Items[i])
		return &dept, nil
	}
	return nil, repository.ErrNotFound
}

func (r *DepartmentRepository) GetBySlug(_ context.Context, slug string) (*domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, item := range r.Items {
		if item.Slug == slug {
			dept := copyDepartment(item)
			return &dept, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *DepartmentRepository) List(_ context.Context) ([]domain.Department, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.Department, 0, len(r.Items))
	for _, item := range r.Items {
		out = append(out, copyDepartment(item))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Description < out[j].Description })
	return out, nil
}

func (r *DepartmentRepository) indexOf(id string) int {
	for i, item := range r.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (r *DepartmentRepository) slugTaken(slug, exceptID string) bool {
	for _, item := range r.Items {
		if item.Slug == slug && item.ID != exceptID {
			return true
		}
	}
	return false
}

func copyDepartment(d domain.Department) domain.Department {
	d.ChiefID = cloneString(d.ChiefID)
	return d
}
