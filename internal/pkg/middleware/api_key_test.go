package middleware

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/response"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/usercontext"
)

type stubUsers struct {
	byHash map[string]*models.User
	err    error
}

func (s stubUsers) GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if u, ok := s.byHash[hash]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newApp(users UserLookup) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: response.ErrorHandler})
	app.Use(Authenticate(users))
	app.Get("/open", func(c *fiber.Ctx) error {
		return c.SendString(usercontext.GetUserContext(c).Name)
	})
	app.Get("/member", RequireAPIAuth, func(c *fiber.Ctx) error {
		return c.SendString(usercontext.GetUserContext(c).Name)
	})
	app.Get("/admin", RequireAdmin, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})
	return app
}

func do(t *testing.T, app *fiber.App, path string, headers map[string]string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestAuthenticate(t *testing.T) {
	users := stubUsers{byHash: map[string]*models.User{
		models.HashAPIKey("kmcc_member"): {ID: 1, Name: "Alice"},
		models.HashAPIKey("kmcc_admin"):  {ID: 2, Name: "Root", IsAdmin: true},
	}}
	app := newApp(users)

	tests := []struct {
		name    string
		path    string
		headers map[string]string
		status  int
		body    string
	}{
		{"anonymous open route", "/open", nil, fiber.StatusOK, ""},
		{"bearer token", "/member", map[string]string{"Authorization": "Bearer kmcc_member"}, fiber.StatusOK, "Alice"},
		{"api key header", "/member", map[string]string{"X-API-Key": "kmcc_member"}, fiber.StatusOK, "Alice"},
		{"unknown key is anonymous", "/open", map[string]string{"X-API-Key": "kmcc_unknown"}, fiber.StatusOK, ""},
		{"member route without key", "/member", nil, fiber.StatusUnauthorized, `"message":"Unauthorized"`},
		{"admin route as member", "/admin", map[string]string{"X-API-Key": "kmcc_member"}, fiber.StatusForbidden, `"success":false`},
		{"admin route as admin", "/admin", map[string]string{"X-API-Key": "kmcc_admin"}, fiber.StatusNoContent, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := do(t, app, tt.path, tt.headers)
			assert.Equal(t, tt.status, status)
			if tt.body == "" {
				if status == fiber.StatusOK {
					assert.Empty(t, body)
				}
				return
			}
			assert.Contains(t, body, tt.body)
		})
	}
}

func TestAuthenticateLookupFailure(t *testing.T) {
	app := newApp(stubUsers{err: errors.New("db down")})
	status, body := do(t, app, "/open", map[string]string{"X-API-Key": "kmcc_x"})
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.Contains(t, body, "API key verification failed")
}
