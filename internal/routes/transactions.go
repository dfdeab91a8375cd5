package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spendlog/spendlog/internal/transaction"
)

// RegisterTransactionRoutes wires the owner-scoped CRUD endpoints. The caller
// is expected to pass a group already gated by the bearer auth middleware.
func RegisterTransactionRoutes(r fiber.Router, h *transaction.Handler) {
	r.Post("/", h.Create)
	r.Get("/", h.List)
	r.Get("/:id", h.Get)
	r.Put("/:id", h.Update)
	r.Delete("/:id", h.Delete)
	r.Delete("/", h.DeleteAll)
}
