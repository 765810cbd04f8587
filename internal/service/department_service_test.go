package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/it-manager/internal/events"
	apperrors "github.com/spec-kit/it-manager/pkg/util/errorutil"
)

func TestCreateDepartmentDerivesSlug(t *testing.T) {
	f := newFixture(t)

	dept, err := f.departmentSvc.CreateDepartment(context.Background(), DepartmentInput{
		Description: "Test",
		Email:       "test@example.com",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, dept.ID)
	assert.Equal(t, "Test", dept.Description)
	assert.Equal(t, "test", dept.Slug)
	assert.Equal(t, "test@example.com", dept.Email)
	assert.Nil(t, dept.ChiefID)
	assert.Len(t, f.events.ofType(events.EventDepartmentCreated), 1)
}

func TestCreateDepartmentRejectsDuplicateSlug(t *testing.T) {
	f := newFixture(t)
	f.department(t, "Recursos Humanos")

	_, err := f.departmentSvc.CreateDepartment(context.Background(), DepartmentInput{Description: "recursos  humanos", Email: "rh@example.com"})
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))
}

func TestCreateDepartmentRejectsSymbolOnlyDescription(t *testing.T) {
	f := newFixture(t)

	_, err := f.departmentSvc.CreateDepartment(context.Background(), DepartmentInput{Description: "!!!", Email: "x@example.com"})
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestCreateDepartmentRequiresExistingChief(t *testing.T) {
	f := newFixture(t)
	missing := "6f1c1c9e-0000-4000-8000-000000000000"

	_, err := f.departmentSvc.CreateDepartment(context.Background(), DepartmentInput{Description: "TI", Email: "ti@example.com", ChiefID: &missing})
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))

	host := f.department(t, "Diretoria")
	chief := f.user(t, host.ID, "chief@example.com", "B-1")
	dept, err := f.departmentSvc.CreateDepartment(context.Background(), DepartmentInput{Description: "TI", Email: "ti@example.com", ChiefID: &chief.ID})
	require.NoError(t, err)
	require.NotNil(t, dept.ChiefID)
	assert.Equal(t, chief.ID, *dept.ChiefID)
}

func TestEditDepartmentRederivesSlug(t *testing.T) {
	f := newFixture(t)
	dept := f.department(t, "Manutencao")

	_, err := f.departmentSvc.EditDepartment(context.Background(), dept.ID, DepartmentInput{Description: "Manutenção Predial", Email: "predial@example.com"})
	require.NoError(t, err)

	stored, err := f.departmentSvc.GetDepartmentByID(context.Background(), dept.ID)
	require.NoError(t, err)
	assert.Equal(t, "manutencao-predial", stored.Slug)
	assert.Equal(t, "predial@example.com", stored.Email)
}

func TestEditDepartmentKeepsOwnSlug(t *testing.T) {
	f := newFixture(t)
	dept := f.department(t, "Compras")

	_, err := f.departmentSvc.EditDepartment(context.Background(), dept.ID, DepartmentInput{Description: "Compras", Email: "new@example.com"})
	assert.NoError(t, err)
}

func TestDeleteDepartmentWithUsersConflicts(t *testing.T) {
	f := newFixture(t)
	dept := f.department(t, "Financeiro")
	user := f.user(t, dept.ID, "fin@example.com", "F-1")

	err := f.departmentSvc.DeleteDepartment(context.Background(), dept.ID)
	assert.True(t, apperrors.IsCode(err, "CONFLICT"))

	require.NoError(t, f.userSvc.DeleteUser(context.Background(), user.ID))
	require.NoError(t, f.departmentSvc.DeleteDepartment(context.Background(), dept.ID))

	_, err = f.departmentSvc.GetDepartmentByID(context.Background(), dept.ID)
	assert.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}
