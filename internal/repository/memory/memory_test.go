package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/repository"
)

func constraintOf(t *testing.T, err error) string {
	t.Helper()
	var pgErr *pgconn.PgError
	require.True(t, errors.As(err, &pgErr), "expected a PgError, got %v", err)
	assert.Equal(t, "23505", pgErr.Code)
	return pgErr.ConstraintName
}

func TestUserRepositoryUniqueness(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Name: "Ana", Email: "ana@corp.io", Badge: "100", DepartmentID: "d1"}))

	err := repo.Create(ctx, &domain.User{ID: "u2", Name: "Bia", Email: "ana@corp.io", Badge: "200", DepartmentID: "d1"})
	assert.Equal(t, "users_email_key", constraintOf(t, err))

	err = repo.Create(ctx, &domain.User{ID: "u2", Name: "Bia", Email: "bia@corp.io", Badge: "100", DepartmentID: "d1"})
	assert.Equal(t, "users_badge_key", constraintOf(t, err))

	// updating a user with its own email and badge is not a clash
	require.NoError(t, repo.Update(ctx, &domain.User{ID: "u1", Name: "Ana Maria", Email: "ana@corp.io", Badge: "100", DepartmentID: "d2"}))

	err = repo.Update(ctx, &domain.User{ID: "missing"})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepositoryListFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	for _, u := range []domain.User{
		{ID: "1", Name: "Carla", Email: "c@x.io", Badge: "1", DepartmentID: "rh"},
		{ID: "2", Name: "Ana", Email: "a@x.io", Badge: "2", DepartmentID: "rh"},
		{ID: "3", Name: "Bruno", Email: "b@x.io", Badge: "3", DepartmentID: "ti"},
	} {
		u := u
		require.NoError(t, repo.Create(ctx, &u))
	}

	rh := "rh"
	users, err := repo.List(ctx, repository.UserFilter{DepartmentID: &rh})
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Ana", users[0].Name)
	assert.Equal(t, "Carla", users[1].Name)

	page, err := repo.List(ctx, repository.UserFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Bruno", page[0].Name)

	count, err := repo.CountByDepartment(ctx, "rh")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUserRepositoryReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()
	phone := "555-0100"
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "a@x.io", Badge: "1", Phone: &phone}))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	*got.Phone = "changed"

	again, err := repo.GetByEmail(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, "555-0100", *again.Phone)
}

func TestPrinterRepositoryStockAndLedger(t *testing.T) {
	ctx := context.Background()
	repo := NewPrinterRepository()
	printer := domain.NewPrinter("p1", "HP", true, domain.PrinterDepartmentRH)
	require.NoError(t, repo.Create(ctx, printer))
	assert.Equal(t, "printers_pkey", constraintOf(t, repo.Create(ctx, printer)))

	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	returned, err := repo.UpdateStock(ctx, "p1", func(current domain.Printer) (domain.Printer, []domain.InkStockHistoryEntry, error) {
		return current.WithInkDelta(domain.InkCyan, 2), []domain.InkStockHistoryEntry{
			{ID: "2", PrinterID: "p1", Date: base.Add(time.Minute), Amount: 1, Color: domain.InkBlack, Type: domain.InkMovementOutcome},
			{ID: "1", PrinterID: "p1", Date: base, Amount: 2, Color: domain.InkCyan, Type: domain.InkMovementIncome},
		}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", returned.ID)

	stored, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	amount, ok := stored.Amount(domain.InkCyan)
	require.True(t, ok)
	assert.Equal(t, 2, amount)

	history, err := repo.ListByPrinter(ctx, "p1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "1", history[0].ID)
	assert.Equal(t, "2", history[1].ID)

	other, err := repo.ListByPrinter(ctx, "p2")
	require.NoError(t, err)
	assert.Empty(t, other)

	_, err = repo.UpdateStock(ctx, "p2", func(current domain.Printer) (domain.Printer, []domain.InkStockHistoryEntry, error) {
		t.Fatal("mutation must not run for an unknown printer")
		return current, nil, nil
	})
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPrinterRepositoryMutationErrorKeepsState(t *testing.T) {
	ctx := context.Background()
	repo := NewPrinterRepository()
	require.NoError(t, repo.Create(ctx, domain.NewPrinter("p1", "HP", false, domain.PrinterDepartmentRH)))

	rejected := errors.New("rejected")
	_, err := repo.UpdateStock(ctx, "p1", func(current domain.Printer) (domain.Printer, []domain.InkStockHistoryEntry, error) {
		return current.WithInkDelta(domain.InkBlack, 3), nil, rejected
	})
	assert.ErrorIs(t, err, rejected)

	stored, err := repo.GetByID(ctx, "p1")
	require.NoError(t, err)
	amount, _ := stored.Amount(domain.InkBlack)
	assert.Zero(t, amount)
}

func TestDepartmentRepositorySlugClash(t *testing.T) {
	ctx := context.Background()
	repo := NewDepartmentRepository()
	require.NoError(t, repo.Create(ctx, domain.NewDepartment("d1", "Recursos Humanos", "rh@corp.io", nil)))

	err := repo.Create(ctx, domain.NewDepartment("d2", "recursos  humanos", "rh2@corp.io", nil))
	assert.Equal(t, "departments_slug_key", constraintOf(t, err))

	found, err := repo.GetBySlug(ctx, "recursos-humanos")
	require.NoError(t, err)
	assert.Equal(t, "d1", found.ID)

	require.NoError(t, repo.Delete(ctx, "d1"))
	assert.ErrorIs(t, repo.Delete(ctx, "d1"), repository.ErrNotFound)
}
