package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"pawnledger/internal/adapters/http/middleware"
	"pawnledger/internal/config"
	"pawnledger/internal/core/domain"
	"pawnledger/internal/core/services"
	"pawnledger/internal/pkg/password"
	"pawnledger/internal/pkg/response"
)

type testServer struct {
	app *fiber.App
	reg *services.Registry
}

func newTestServer(t *testing.T) *testServer {
	password.SetCost(bcrypt.MinCost)
	t.Cleanup(func() { password.SetCost(password.DefaultCost) })

	db, err := config.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = config.CloseDatabase(db) })
	require.NoError(t, config.Migrate(db))

	today := time.Date(2023, 1, 15, 0, 0, 0, 0, time.UTC)
	reg, err := services.NewRegistry(db, services.AuthConfig{Secret: "test", ExpiryMinutes: 5}, services.FixedClock(today))
	require.NoError(t, err)

	cfg := &config.Config{AppMode: "dev", Port: "3000"}
	app := fiber.New(fiber.Config{ErrorHandler: middleware.CustomErrorHandler})
	Setup(app, db, reg, cfg)
	return &testServer{app: app, reg: reg}
}

func (s *testServer) addEmployee(t *testing.T, role domain.Role, phone, login string) uint {
	employee, err := s.reg.Employees.Create(context.Background(), &services.EmployeeInput{
		FullName: string(role),
		Role:     role.String(),
		HireDate: "2020-01-01",
		Phone:    phone,
		Login:    login,
		Password: "secret123",
	})
	require.NoError(t, err)
	return employee.ID
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, response.Response) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)

	var out response.Response
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func (s *testServer) login(t *testing.T, login string) string {
	status, out := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"login":    login,
		"password": "secret123",
	})
	require.Equal(t, fiber.StatusOK, status, out.Error)
	return out.Data.(map[string]interface{})["access_token"].(string)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	status, _ := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, fiber.StatusOK, status)
}

func TestAuth(t *testing.T) {
	s := newTestServer(t)
	s.addEmployee(t, domain.RoleSalesManager, "79990000001", "anna")

	t.Run("missing token", func(t *testing.T) {
		status, out := s.do(t, http.MethodGet, "/api/v1/clients", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, domain.KindUnauthorized, out.Kind)
	})

	t.Run("wrong password", func(t *testing.T) {
		status, out := s.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
			"login":    "anna",
			"password": "wrong-pass",
		})
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, domain.ErrInvalidCredentials.Message, out.Error)
	})

	t.Run("me lists permissions", func(t *testing.T) {
		token := s.login(t, "anna")
		status, out := s.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, fiber.StatusOK, status)

		perms := out.Data.(map[string]interface{})["permissions"].(map[string]interface{})
		assert.Equal(t, true, perms["add_sales"])
		assert.Equal(t, false, perms["pay_loans"])
	})
}

func TestPermissions(t *testing.T) {
	s := newTestServer(t)
	s.addEmployee(t, domain.RoleAdministrator, "79990000001", "admin")
	sellerID := s.addEmployee(t, domain.RoleSalesManager, "79990000002", "anna")

	admin := s.login(t, "admin")
	seller := s.login(t, "anna")

	status, out := s.do(t, http.MethodPost, "/api/v1/clients", admin, map[string]string{
		"full_name": "Ivan Petrov",
		"phone":     "79990000000",
	})
	require.Equal(t, fiber.StatusCreated, status, out.Error)

	t.Run("sales manager may view clients", func(t *testing.T) {
		status, _ := s.do(t, http.MethodGet, "/api/v1/clients", seller, nil)
		assert.Equal(t, fiber.StatusOK, status)
	})

	t.Run("sales manager may not delete clients", func(t *testing.T) {
		status, out := s.do(t, http.MethodDelete, "/api/v1/clients/1", seller, nil)
		assert.Equal(t, fiber.StatusForbidden, status)
		assert.Equal(t, domain.KindForbidden, out.Kind)
	})

	t.Run("duplicate phone is rejected", func(t *testing.T) {
		status, out := s.do(t, http.MethodPost, "/api/v1/clients", admin, map[string]string{
			"full_name": "Someone Else",
			"phone":     "79990000000",
		})
		assert.Equal(t, fiber.StatusConflict, status)
		assert.Equal(t, domain.KindRejected, out.Kind)
	})

	t.Run("unknown loan", func(t *testing.T) {
		status, out := s.do(t, http.MethodGet, "/api/v1/loans/404", admin, nil)
		assert.Equal(t, fiber.StatusNotFound, status)
		assert.Equal(t, domain.KindNotFound, out.Kind)
	})

	t.Run("dismissed employee loses access at once", func(t *testing.T) {
		status, out := s.do(t, http.MethodPost, "/api/v1/employees/"+strconv.Itoa(int(sellerID))+"/dismiss", admin, nil)
		require.Equal(t, fiber.StatusOK, status, out.Error)

		status, out = s.do(t, http.MethodGet, "/api/v1/clients", seller, nil)
		assert.Equal(t, fiber.StatusUnauthorized, status)
		assert.Equal(t, domain.ErrInactiveAccount.Message, out.Error)

		status, _ = s.do(t, http.MethodGet, "/api/v1/dashboard", seller, nil)
		assert.Equal(t, fiber.StatusUnauthorized, status)
	})
}
