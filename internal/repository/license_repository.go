package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/it-manager/internal/domain"
)

// LicenseRepository manages license persistence.
type LicenseRepository interface {
	Create(ctx context.Context, license *domain.License) error
	Update(ctx context.Context, license *domain.License) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.License, error)
	List(ctx context.Context) ([]domain.License, error)
	ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.License, error)
}

type licenseRepository struct {
	pool *pgxpool.Pool
}

// NewLicenseRepository builds the repository.
func NewLicenseRepository(pool *pgxpool.Pool) LicenseRepository {
	return &licenseRepository{pool: pool}
}

const licenseColumns = `id, name, quantity, department_id, expires_at, created_at, updated_at`

func (r *licenseRepository) Create(ctx context.Context, license *domain.License) error {
	const query = `
        INSERT INTO licenses (id, name, quantity, department_id, expires_at)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		license.ID,
		license.Name,
		license.Quantity,
		license.DepartmentID,
		license.ExpiresAt,
	).Scan(&license.CreatedAt, &license.UpdatedAt)
}

func (r *licenseRepository) Update(ctx context.Context, license *domain.License) error {
	const query = `
        UPDATE licenses SET name=$1, quantity=$2, department_id=$3, expires_at=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`
	return r.pool.QueryRow(ctx, query,
		license.Name,
		license.Quantity,
		license.DepartmentID,
		license.ExpiresAt,
		license.ID,
	).Scan(&license.UpdatedAt)
}

func (r *licenseRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM licenses WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *licenseRepository) GetByID(ctx context.Context, id string) (*domain.License, error) {
	var license domain.License
	if err := r.pool.QueryRow(ctx, `SELECT `+licenseColumns+` FROM licenses WHERE id=$1`, id).Scan(
		&license.ID,
		&license.Name,
		&license.Quantity,
		&license.DepartmentID,
		&license.ExpiresAt,
		&license.CreatedAt,
		&license.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &license, nil
}

func (r *licenseRepository) List(ctx context.Context) ([]domain.License, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+licenseColumns+` FROM licenses ORDER BY expires_at ASC`)
	if err != nil {
		return nil, err
	}
	return scanLicenses(rows)
}

func (r *licenseRepository) ListExpiringBetween(ctx context.Context, from, to time.Time) ([]domain.License, error) {
	const query = `SELECT ` + licenseColumns + ` FROM licenses
        WHERE expires_at >= $1 AND expires_at <= $2 ORDER BY expires_at ASC`
	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, err
	}
	return scanLicenses(rows)
}

func scanLicenses(rows pgx.Rows) ([]domain.License, error) {
	defer rows.Close()

	var result []domain.License
	for rows.Next() {
		var license domain.License
		if err := rows.Scan(
			&license.ID,
			&license.Name,
			&license.Quantity,
			&license.DepartmentID,
			&license.ExpiresAt,
			&license.CreatedAt,
			&license.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, license)
	}
	return result, rows.Err()
}
