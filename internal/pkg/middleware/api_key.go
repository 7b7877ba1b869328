package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/kmcc-connect/kmcc-backend/app/models"
	"github.com/kmcc-connect/kmcc-backend/app/repository"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/apperror"
	"github.com/kmcc-connect/kmcc-backend/internal/pkg/usercontext"
)

// UserLookup resolves an API key hash to its member
type UserLookup interface {
	GetByAPIKeyHash(ctx context.Context, hash string) (*models.User, error)
}

// Authenticate resolves the caller from a Bearer token or X-API-Key header.
// Requests without a valid key continue anonymously; routes that need a
// member add RequireAPIAuth.
func Authenticate(users UserLookup) fiber.Handler {
	return func(c *fiber.Ctx) error {
		apiKey := extractAPIKeyFromHeader(c)
		if apiKey == "" {
			return c.Next()
		}

		user, err := users.GetByAPIKeyHash(c.UserContext(), models.HashAPIKey(apiKey))
		if err != nil {
			if repository.IsNotFound(err) {
				return c.Next()
			}
			log.Errorf("[Auth] API key lookup failed: %v", err)
			return apperror.Internal("API key verification failed", err)
		}

		usercontext.SetUserContext(c, usercontext.UserContext{
			UserID:     user.ID,
			Name:       user.Name,
			MemberID:   user.MemberID,
			IsLoggedIn: true,
			IsAdmin:    user.IsAdmin,
		})
		return c.Next()
	}
}

func extractAPIKeyFromHeader(c *fiber.Ctx) string {
	apiKey := strings.TrimSpace(c.Get("X-API-Key"))
	if apiKey != "" {
		return apiKey
	}
	auth := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
