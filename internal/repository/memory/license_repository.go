package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/repository"
)

// LicenseRepository is an in-memory repository.LicenseRepository.
type LicenseRepository struct {
	mu    sync.RWMutex
	Items []domain.License
}

var _ repository.LicenseRepository = (*LicenseRepository)(nil)

// NewLicenseRepository returns an empty repository.
func NewLicenseRepository() *LicenseRepository {
	return &LicenseRepository{}
}

// Seed stores licenses as-is, bypassing creation rules. Test fixtures use it
// to plant already-expired licenses.
func (r *LicenseRepository) Seed(licenses ...domain.License) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range licenses {
		r.Items = append(r.Items, copyLicense(l))
	}
}

func (r *LicenseRepository) Create(_ context.Context, license *domain.License) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	license.CreatedAt = now()
	license.UpdatedAt = license.CreatedAt
	r.Items = append(r.Items, copyLicense(*license))
	return nil
}

func (r *LicenseRepository) Update(_ context.Context, license *domain.License) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(license.ID)
	if i < 0 {
		return repository.ErrNotFound
	}
	license.UpdatedAt = now()
	r.Items[i] = copyLicense(*license)
	return nil
}

func (r *LicenseRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i := r.indexOf(id)
	if i < 0 {
		return repository.ErrNotFound
	}
	r.Items = append(r.Items[:i], r.Items[i+1:]...)
	return nil
}

func (r *LicenseRepository) GetByID(_ context.Context, id string) (*domain.License, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := r.indexOf(id); i >= 0 {
		license := copyLicense(r.Items[i])
		return &license, nil
	}
	return nil, repository.ErrNotFound
}

func (r *LicenseRepository) List(_ context.Context) ([]domain.License, error) {
	return r.filter(func(domain.License) bool { return true }), nil
}

func (r *LicenseRepository) ListExpiringBetween(_ context.Context, from, to time.Time) ([]domain.License, error) {
	return r.filter(func(l domain.License) bool {
		return !l.ExpiresAt.Before(from) && !l.ExpiresAt.After(to)
	}), nil
}

func (r *LicenseRepository) filter(keep func(domain.License) bool) []domain.License {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.License
	for _, item := range r.Items {
		if keep(item) {
			out = append(out, copyLicense(item))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	return out
}

func (r *LicenseRepository) indexOf(id string) int {
	for i, item := range r.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func copyLicense(l domain.License) domain.License {
	l.DepartmentID = cloneString(l.DepartmentID)
	return l
}
