package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	httptransport "github.com/spec-kit/it-manager/internal/api/http"
	"github.com/spec-kit/it-manager/internal/auth"
	"github.com/spec-kit/it-manager/internal/events"
	"github.com/spec-kit/it-manager/internal/observability"
	"github.com/spec-kit/it-manager/internal/repository/memory"
	"github.com/spec-kit/it-manager/internal/service"
)

type testServer struct {
	app         *fiber.App
	departments *service.DepartmentService
	users       *service.UserService
	metrics     *observability.Metrics
}

func newTestServer(t *testing.T, authRequired bool) *testServer {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher()
	departmentRepo := memory.NewDepartmentRepository()
	userRepo := memory.NewUserRepository()
	licenseRepo := memory.NewLicenseRepository()
	printerRepo := memory.NewPrinterRepository()
	sessions := service.NewSessionService(userRepo, auth.NewTokenManager("test-secret", 30))

	s := &testServer{
		departments: service.NewDepartmentService(service.DepartmentDependencies{
			DepartmentRepo: departmentRepo, UserRepo: userRepo, Dispatcher: dispatcher,
		}),
		users: service.NewUserService(service.UserDependencies{
			UserRepo: userRepo, DepartmentRepo: departmentRepo, Dispatcher: dispatcher, BcryptCost: bcrypt.MinCost,
		}),
		metrics: observability.NewMetrics(),
	}
	s.app = httptransport.NewServer(httptransport.ServerDependencies{
		Name:           "it-manager-test",
		Version:        "test",
		RequestTimeout: 5 * time.Second,
		AuthRequired:   authRequired,
		Metrics:        s.metrics,
		Departments:    s.departments,
		Users:          s.users,
		Licenses: service.NewLicenseService(service.LicenseDependencies{
			LicenseRepo: licenseRepo, DepartmentRepo: departmentRepo, Dispatcher: dispatcher,
		}),
		Printers: service.NewPrinterService(service.PrinterDependencies{
			PrinterRepo: printerRepo, HistoryRepo: printerRepo, Dispatcher: dispatcher,
		}),
		Sessions:       sessions,
		AuthMiddleware: auth.NewAuthMiddleware(sessions.TokenManager(), userRepo),
	})
	return s
}

func (s *testServer) do(t *testing.T, method, path string, body any, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func decode(t *testing.T, raw []byte) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func errorCode(t *testing.T, raw []byte) string {
	t.Helper()
	body := decode(t, raw)
	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok, string(raw))
	return errBody["code"].(string)
}

func (s *testServer) createDepartment(t *testing.T, description string) string {
	t.Helper()
	resp, raw := s.do(t, http.MethodPost, "/departments", map[string]any{
		"description": description,
		"email":       "dept@example.com",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	return decode(t, raw)["department"].(map[string]any)["id"].(string)
}

func (s *testServer) createUser(t *testing.T, departmentID, email, badge string) string {
	t.Helper()
	resp, raw := s.do(t, http.MethodPost, "/users", map[string]any{
		"name":         "Ana",
		"email":        email,
		"badge":        badge,
		"departmentId": departmentID,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	return decode(t, raw)["user"].(map[string]any)["id"].(string)
}

func TestCreateDepartment(t *testing.T) {
	s := newTestServer(t, false)

	resp, raw := s.do(t, http.MethodPost, "/departments", map[string]any{
		"description": "Test",
		"email":       "test@example.com",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	dept := decode(t, raw)["department"].(map[string]any)
	assert.NotEmpty(t, dept["id"])
	assert.Equal(t, "Test", dept["description"])
	assert.Equal(t, "test@example.com", dept["email"])
	assert.Equal(t, "test", dept["slug"])
	chief, present := dept["chiefId"]
	assert.True(t, present)
	assert.Nil(t, chief)
}

func TestCreateDepartmentValidation(t *testing.T) {
	s := newTestServer(t, false)

	resp, raw := s.do(t, http.MethodPost, "/departments", map[string]any{"description": "", "email": "nope"}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, raw))
}

func TestDepartmentLifecycle(t *testing.T) {
	s := newTestServer(t, false)
	id := s.createDepartment(t, "Recursos Humanos")

	resp, raw := s.do(t, http.MethodPut, "/departments/"+id, map[string]any{
		"description": "Pessoas e Cultura",
		"email":       "pessoas@example.com",
	}, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(raw))

	resp, raw = s.do(t, http.MethodGet, "/departments/"+id, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "pessoas-e-cultura", decode(t, raw)["department"].(map[string]any)["slug"])

	resp, raw = s.do(t, http.MethodGet, "/departments", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode(t, raw)["departments"], 1)

	resp, _ = s.do(t, http.MethodDelete, "/departments/"+id, nil, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, raw = s.do(t, http.MethodGet, "/departments/"+id, nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestEditUserDepartment(t *testing.T) {
	s := newTestServer(t, false)
	from := s.createDepartment(t, "TI")
	to := s.createDepartment(t, "Financeiro")
	userID := s.createUser(t, from, "ana@example.com", "A-1")

	resp, raw := s.do(t, http.MethodPatch, "/users/"+userID+"/edit-department", map[string]any{
		"name":         "Ana",
		"email":        "ana@example.com",
		"badge":        "A-1",
		"departmentId": to,
		"phone":        "+55 11 99999-0000",
	}, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, raw)

	resp, raw = s.do(t, http.MethodGet, "/users/"+userID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := decode(t, raw)["user"].(map[string]any)
	assert.Equal(t, to, user["departmentId"])
	assert.Equal(t, "+55 11 99999-0000", user["phone"])
	assert.NotContains(t, user, "passwordHash")

	resp, raw = s.do(t, http.MethodGet, "/users?departmentId="+to, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, decode(t, raw)["users"], 1)
}

func TestEditUserDepartmentMissingDepartment(t *testing.T) {
	s := newTestServer(t, false)
	dept := s.createDepartment(t, "TI")
	userID := s.createUser(t, dept, "ana@example.com", "A-1")

	resp, raw := s.do(t, http.MethodPatch, "/users/"+userID+"/edit-department", map[string]any{
		"name":         "Ana",
		"email":        "ana@example.com",
		"badge":        "A-1",
		"departmentId": "00000000-0000-4000-8000-000000000000",
	}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestRegisterUserDuplicateEmail(t *testing.T) {
	s := newTestServer(t, false)
	dept := s.createDepartment(t, "TI")
	s.createUser(t, dept, "ana@example.com", "A-1")

	resp, raw := s.do(t, http.MethodPost, "/users", map[string]any{
		"name": "Outra", "email": "ana@example.com", "badge": "A-2", "departmentId": dept,
	}, "")
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", errorCode(t, raw))
}

func TestLicenseExpireDate(t *testing.T) {
	s := newTestServer(t, false)
	initial := time.Now().UTC().Add(72 * time.Hour).Truncate(time.Second)

	resp, raw := s.do(t, http.MethodPost, "/licenses", map[string]any{
		"name":      "Office 365",
		"quantity":  25,
		"expiresAt": initial,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	licenseID := decode(t, raw)["license"].(map[string]any)["id"].(string)

	next := time.Now().UTC().AddDate(1, 0, 0).Truncate(time.Second)
	resp, raw = s.do(t, http.MethodPatch, "/licenses/"+licenseID+"/expire-date", map[string]any{"expiresAt": next}, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode, string(raw))

	resp, raw = s.do(t, http.MethodGet, "/licenses/"+licenseID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored, err := time.Parse(time.RFC3339, decode(t, raw)["license"].(map[string]any)["expiresAt"].(string))
	require.NoError(t, err)
	assert.True(t, stored.Equal(next))

	resp, raw = s.do(t, http.MethodPatch, "/licenses/"+licenseID+"/expire-date", map[string]any{
		"expiresAt": time.Now().UTC().Add(-24 * time.Hour),
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, raw))

	resp, raw = s.do(t, http.MethodGet, "/licenses/"+licenseID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	unchanged, err := time.Parse(time.RFC3339, decode(t, raw)["license"].(map[string]any)["expiresAt"].(string))
	require.NoError(t, err)
	assert.True(t, unchanged.Equal(next))
}

func TestPrinterStockAndHistory(t *testing.T) {
	s := newTestServer(t, false)

	resp, raw := s.do(t, http.MethodPost, "/printers", map[string]any{
		"name": "Ricoh MP", "isColorful": true, "department": "qualidade",
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	printer := decode(t, raw)
	printerID := printer["id"].(string)
	assert.Equal(t, "printer", printer["category"])
	assert.Len(t, printer["stock"], 4)

	resp, raw = s.do(t, http.MethodPut, "/printers/"+printerID, map[string]any{
		"id": printerID, "name": "Ricoh MP", "isColorful": true, "category": "printer", "department": "qualidade",
		"stock": []map[string]any{
			{"color": "black", "amount": 2},
			{"color": "cyan", "amount": 0},
			{"color": "magenta", "amount": 0},
			{"color": "yellow", "amount": 0},
		},
	}, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(raw))

	resp, raw = s.do(t, http.MethodGet, "/printers", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var printers []map[string]any
	require.NoError(t, json.Unmarshal(raw, &printers))
	require.Len(t, printers, 1)
	stock := printers[0]["stock"].([]any)
	assert.Equal(t, map[string]any{"color": "black", "amount": float64(2)}, stock[0])

	resp, raw = s.do(t, http.MethodGet, "/ink-stock-history?printer_id="+printerID, nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []map[string]any
	require.NoError(t, json.Unmarshal(raw, &history))
	require.Len(t, history, 1)
	assert.Equal(t, "income", history[0]["type"])
	assert.Equal(t, "black", history[0]["color"])
	assert.Equal(t, float64(2), history[0]["amount"])
	assert.Equal(t, printerID, history[0]["printer_id"])
	assert.Nil(t, history[0]["deliveryTo"])
}

func TestPrinterRejectsNegativeStock(t *testing.T) {
	s := newTestServer(t, false)
	resp, raw := s.do(t, http.MethodPost, "/printers", map[string]any{"name": "Brother", "department": "rh"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	printerID := decode(t, raw)["id"].(string)

	resp, raw = s.do(t, http.MethodPut, "/printers/"+printerID, map[string]any{
		"name":  "Brother",
		"stock": []map[string]any{{"color": "black", "amount": -1}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, raw))

	resp, raw = s.do(t, http.MethodPut, "/printers/"+printerID, map[string]any{
		"name":  "Brother",
		"stock": []map[string]any{{"color": "black", "amount": 1}, {"color": "cyan", "amount": 1}},
	}, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, raw))
}

func TestInkStockHistoryRequiresPrinter(t *testing.T) {
	s := newTestServer(t, false)

	resp, raw := s.do(t, http.MethodGet, "/ink-stock-history", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", errorCode(t, raw))

	resp, raw = s.do(t, http.MethodGet, "/ink-stock-history?printer_id=missing", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, false)

	resp, raw := s.do(t, http.MethodGet, "/nowhere", nil, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, raw))
}

func TestAuthRequiredGuardsMutations(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	resp, raw := s.do(t, http.MethodPost, "/departments", map[string]any{"description": "TI", "email": "ti@example.com"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, raw))

	resp, _ = s.do(t, http.MethodGet, "/departments", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	dept, err := s.departments.CreateDepartment(ctx, service.DepartmentInput{Description: "Diretoria", Email: "dir@example.com"})
	require.NoError(t, err)
	_, err = s.users.RegisterUser(ctx, service.UserInput{
		Name: "Admin", Email: "admin@example.com", Badge: "0001", DepartmentID: dept.ID, Password: "correct horse",
	})
	require.NoError(t, err)

	resp, _ = s.do(t, http.MethodPost, "/sessions", map[string]any{"email": "admin@example.com", "password": "wrong"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, raw = s.do(t, http.MethodPost, "/sessions", map[string]any{"email": "admin@example.com", "password": "correct horse"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	token := decode(t, raw)["access_token"].(string)
	require.NotEmpty(t, token)

	resp, raw = s.do(t, http.MethodPost, "/departments", map[string]any{"description": "TI", "email": "ti@example.com"}, token)
	assert.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))

	resp, _ = s.do(t, http.MethodPost, "/departments", map[string]any{"description": "RH", "email": "rh@example.com"}, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUserCannotDeleteOwnAccount(t *testing.T) {
	s := newTestServer(t, true)
	ctx := context.Background()

	dept, err := s.departments.CreateDepartment(ctx, service.DepartmentInput{Description: "Diretoria", Email: "dir@example.com"})
	require.NoError(t, err)
	admin, err := s.users.RegisterUser(ctx, service.UserInput{
		Name: "Admin", Email: "admin@example.com", Badge: "0001", DepartmentID: dept.ID, Password: "correct horse",
	})
	require.NoError(t, err)
	other, err := s.users.RegisterUser(ctx, service.UserInput{
		Name: "Bia", Email: "bia@example.com", Badge: "0002", DepartmentID: dept.ID,
	})
	require.NoError(t, err)

	resp, raw := s.do(t, http.MethodPost, "/sessions", map[string]any{"email": "admin@example.com", "password": "correct horse"}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(raw))
	token := decode(t, raw)["access_token"].(string)

	resp, raw = s.do(t, http.MethodDelete, "/users/"+admin.ID, nil, token)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, raw))

	resp, _ = s.do(t, http.MethodDelete, "/users/"+other.ID, nil, token)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	_, err = s.users.GetUserByID(ctx, admin.ID)
	assert.NoError(t, err)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t, false)

	resp, raw := s.do(t, http.MethodGet, "/health/live", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", decode(t, raw)["status"])

	resp, _ = s.do(t, http.MethodGet, "/health/ready", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	s.do(t, http.MethodGet, "/departments/missing", nil, "")
	assert.Equal(t, int64(1), s.metrics.Errors()["/departments/missing|GET|NOT_FOUND"])

	resp, raw = s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, decode(t, raw)["requests"])
}
