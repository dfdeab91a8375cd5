package transaction

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryRepository struct {
	mu      sync.RWMutex
	storage map[string]Transaction
}

// NewMemoryRepository constructs an in-memory repository for tests and DB-less runs.
func NewMemoryRepository() Repository {
	return &memoryRepository{storage: make(map[string]Transaction)}
}

func (r *memoryRepository) Create(_ context.Context, tx Transaction) error {
	if _, err := uuid.Parse(tx.ID); err != nil {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storage[tx.ID] = tx
	return nil
}

func (r *memoryRepository) ListByOwner(_ context.Context, ownerID string) ([]Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]Transaction, 0)
	for _, tx := range r.storage {
		if tx.OwnerID == ownerID {
			list = append(list, tx)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

func (r *memoryRepository) Get(_ context.Context, ownerID, id string) (Transaction, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Transaction{}, ErrInvalidID
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	tx, ok := r.storage[id]
	if !ok || tx.OwnerID != ownerID {
		return Transaction{}, ErrNotFound
	}
	return tx, nil
}

func (r *memoryRepository) Update(_ context.Context, tx Transaction) error {
	if _, err := uuid.Parse(tx.ID); err != nil {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.storage[tx.ID]
	if !ok || existing.OwnerID != tx.OwnerID {
		return ErrNotFound
	}
	r.storage[tx.ID] = tx
	return nil
}

func (r *memoryRepository) Delete(_ context.Context, ownerID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrInvalidID
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	tx, ok := r.storage[id]
	if !ok || tx.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(r.storage, id)
	return nil
}

func (r *memoryRepository) DeleteAllByOwner(_ context.Context, ownerID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for id, tx := range r.storage {
		if tx.OwnerID == ownerID {
			delete(r.storage, id)
			count++
		}
	}
	return count, nil
}
