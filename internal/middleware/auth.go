package middleware

import (
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spendlog/spendlog/internal/auth"
	"github.com/spendlog/spendlog/internal/config"
	"github.com/spendlog/spendlog/internal/identity"
)

const userIDKey = "user_id"

// BearerAuth returns a middleware that validates the Authorization header,
// confirms the token's subject still exists, and injects the resolved user
// identifier into the request context for downstream handlers.
func BearerAuth(cfg config.Config, users identity.Repository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authz := c.Get(fiber.HeaderAuthorization)
		if !strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			return fiber.NewError(http.StatusUnauthorized, "missing bearer token")
		}
		tokenStr := strings.TrimSpace(authz[len("Bearer "):])

		sub, err := auth.Verify(tokenStr, []byte(cfg.JWTSecret))
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		user, err := users.FindByID(c.UserContext(), sub)
		if err != nil {
			return fiber.NewError(http.StatusUnauthorized, "invalid token")
		}

		c.Locals(userIDKey, user.ID)
		return c.Next()
	}
}

// UserID returns the authenticated user's identifier resolved by BearerAuth,
// or the empty string on an unauthenticated request.
func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(userIDKey).(string)
	return id
}
