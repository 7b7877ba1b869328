package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/usercontext"
)

// RequireAPIAuth rejects anonymous requests with a 401 envelope.
func RequireAPIAuth(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return apperror.Unauthorized("Unauthorized")
	}
	return c.Next()
}

// RequireAdmin rejects callers that are not administrators.
func RequireAdmin(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return apperror.Unauthorized("Unauthorized")
	}
	if !usercontext.IsAdmin(c) {
		return apperror.Forbidden("Admin access required")
	}
	return c.Next()
}
