package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spendlog/spendlog/internal/identity"
)

// RegisterUserRoutes wires account endpoints. Login is rate limited when a
// limiter is provided.
func RegisterUserRoutes(r fiber.Router, h *identity.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/users")
	group.Post("/signup", h.Signup)
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
}
