package transaction

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/spendlog/spendlog/internal/middleware"
)

// Handler exposes transaction HTTP endpoints. Every handler reads the owner
// from the request context set by the bearer auth middleware.
type Handler struct {
	service *Service
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// transactionRequest is shared by create and update; absent fields stay nil so
// updates can be partial.
type transactionRequest struct {
	Title       *string          `json:"title"`
	Amount      *decimal.Decimal `json:"amount"`
	Type        *Type            `json:"type"`
	Category    *string          `json:"category"`
	Description *string          `json:"description"`
	Date        *string          `json:"date"`
}

// Create persists a new transaction owned by the caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	input := CreateInput{}
	if req.Title != nil {
		input.Title = *req.Title
	}
	if req.Amount != nil {
		input.Amount = *req.Amount
	}
	if req.Type != nil {
		input.Type = *req.Type
	}
	if req.Category != nil {
		input.Category = *req.Category
	}
	if req.Description != nil {
		input.Description = *req.Description
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		input.Date = date
	}

	tx, err := h.service.Create(c.UserContext(), middleware.UserID(c), input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusCreated).JSON(tx)
}

// List returns all of the caller's transactions, most recent first.
func (h *Handler) List(c *fiber.Ctx) error {
	list, err := h.service.List(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(list)
}

// Get returns a single transaction by identifier.
func (h *Handler) Get(c *fiber.Ctx) error {
	tx, err := h.service.Get(c.UserContext(), middleware.UserID(c), c.Params("id"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(tx)
}

// Update applies a partial or full update to a transaction.
func (h *Handler) Update(c *fiber.Ctx) error {
	var req transactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	input := UpdateInput{
		Title:       req.Title,
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Date != nil {
		date, err := parseDate(*req.Date)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		input.Date = &date
	}

	tx, err := h.service.Update(c.UserContext(), middleware.UserID(c), c.Params("id"), input)
	if err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(tx)
}

// Delete removes a single transaction.
func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), middleware.UserID(c), c.Params("id")); err != nil {
		return toHTTPError(err)
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"message": "Transaction deleted successfully"})
}

// DeleteAll removes every transaction of the caller and reports the count.
func (h *Handler) DeleteAll(c *fiber.Ctx) error {
	count, err := h.service.DeleteAll(c.UserContext(), middleware.UserID(c))
	if err != nil {
		return err
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"deletedCount": count})
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, ErrValidation):
		return fiber.NewError(http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrInvalidID):
		return fiber.NewError(http.StatusBadRequest, "Invalid id")
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "Transaction not found")
	default:
		return err
	}
}

// parseDate accepts RFC 3339 timestamps and bare calendar dates.
func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q: expected RFC 3339 or YYYY-MM-DD", value)
}
