package transaction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrValidation wraps field errors on create and update.
var ErrValidation = errors.New("validation failed")

// Service exposes owner-scoped transaction operations.
type Service struct {
	repo Repository
}

// NewService builds a transaction service instance.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateInput captures the client-supplied fields of a new transaction.
// Identifier and owner are assigned by the service.
type CreateInput struct {
	Title       string
	Amount      decimal.Decimal
	Type        Type
	Category    string
	Description string
	Date        time.Time // zero value defaults to creation time
}

// Create validates the input and persists a new transaction owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, input CreateInput) (Transaction, error) {
	now := time.Now().UTC()

	tx := Transaction{
		ID:          uuid.New().String(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(input.Title),
		Amount:      input.Amount,
		Type:        input.Type,
		Category:    strings.TrimSpace(input.Category),
		Description: input.Description,
		Date:        input.Date,
		CreatedAt:   now,
	}
	if tx.Date.IsZero() {
		tx.Date = now
	}

	if err := validate(tx); err != nil {
		return Transaction{}, err
	}

	if err := s.repo.Create(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// List returns the owner's transactions ordered by date and creation time,
// both descending.
func (s *Service) List(ctx context.Context, ownerID string) ([]Transaction, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get fetches one transaction scoped to the owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (Transaction, error) {
	return s.repo.Get(ctx, ownerID, id)
}

// UpdateInput carries a partial update; nil fields stay untouched.
type UpdateInput struct {
	Title       *string
	Amount      *decimal.Decimal
	Type        *Type
	Category    *string
	Description *string
	Date        *time.Time
}

// Update applies the provided fields to an existing transaction. The record is
// fetched and written back scoped by owner, so another user's record behaves
// exactly like a missing one.
func (s *Service) Update(ctx context.Context, ownerID, id string, input UpdateInput) (Transaction, error) {
	tx, err := s.repo.Get(ctx, ownerID, id)
	if err != nil {
		return Transaction{}, err
	}

	if input.Title != nil {
		tx.Title = strings.TrimSpace(*input.Title)
	}
	if input.Amount != nil {
		tx.Amount = *input.Amount
	}
	if input.Type != nil {
		tx.Type = *input.Type
	}
	if input.Category != nil {
		tx.Category = strings.TrimSpace(*input.Category)
	}
	if input.Description != nil {
		tx.Description = *input.Description
	}
	if input.Date != nil {
		tx.Date = *input.Date
	}

	if err := validate(tx); err != nil {
		return Transaction{}, err
	}

	if err := s.repo.Update(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Delete removes one transaction scoped to the owner.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}

// DeleteAll removes every transaction of the owner. Deleting nothing is not an
// error, so the operation is idempotent.
func (s *Service) DeleteAll(ctx context.Context, ownerID string) (int64, error) {
	return s.repo.DeleteAllByOwner(ctx, ownerID)
}

func validate(tx Transaction) error {
	if tx.Title == "" {
		return fmt.Errorf("%w: title is required", ErrValidation)
	}
	if !tx.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !tx.Type.Valid() {
		return fmt.Errorf("%w: type must be %q or %q", ErrValidation, TypeIncome, TypeExpense)
	}
	if tx.Category == "" {
		return fmt.Errorf("%w: category is required", ErrValidation)
	}
	return nil
}
