package transaction

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	// ErrNotFound indicates no record matches the identifier for this owner.
	ErrNotFound = errors.New("transaction not found")
	// ErrInvalidID indicates a malformed transaction identifier.
	ErrInvalidID = errors.New("invalid transaction id")
)

// Repository persists transactions. Every lookup and mutation is scoped by
// owner in the query itself, never checked after a broad fetch.
type Repository interface {
	Create(ctx context.Context, tx Transaction) error
	ListByOwner(ctx context.Context, ownerID string) ([]Transaction, error)
	Get(ctx context.Context, ownerID, id string) (Transaction, error)
	Update(ctx context.Context, tx Transaction) error
	Delete(ctx context.Context, ownerID, id string) error
	DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error)
}

// PostgresRepository stores transactions in PostgreSQL.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository builds a repository backed by PostgreSQL.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a transaction record.
func (r *PostgresRepository) Create(ctx context.Context, tx Transaction) error {
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return ErrInvalidID
	}
	ownerID, err := uuid.Parse(tx.OwnerID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `INSERT INTO transactions
        (id, owner_id, title, amount, type, category, description, date, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		txID, ownerID, tx.Title, tx.Amount.String(), string(tx.Type), tx.Category,
		tx.Description, tx.Date.UTC(), tx.CreatedAt.UTC())
	return err
}

// ListByOwner returns all transactions for the owner, most recent date first,
// ties broken by most recent creation time.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]Transaction, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, owner_id, title, amount::text, type, category, description, date, created_at
        FROM transactions WHERE owner_id = $1
        ORDER BY date DESC, created_at DESC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Transaction, 0)
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, tx)
	}
	return list, rows.Err()
}

// Get fetches a single transaction by identifier scoped to its owner.
func (r *PostgresRepository) Get(ctx context.Context, ownerID, id string) (Transaction, error) {
	txID, err := uuid.Parse(id)
	if err != nil {
		return Transaction{}, ErrInvalidID
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return Transaction{}, err
	}
	row := r.db.QueryRow(ctx, `SELECT id, owner_id, title, amount::text, type, category, description, date, created_at
        FROM transactions WHERE id = $1 AND owner_id = $2`, txID, owner)
	tx, err := scanTransaction(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Transaction{}, ErrNotFound
		}
		return Transaction{}, err
	}
	return tx, nil
}

// Update overwrites the mutable fields of an existing record, scoped to its owner.
func (r *PostgresRepository) Update(ctx context.Context, tx Transaction) error {
	txID, err := uuid.Parse(tx.ID)
	if err != nil {
		return ErrInvalidID
	}
	owner, err := uuid.Parse(tx.OwnerID)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `UPDATE transactions
        SET title = $1, amount = $2, type = $3, category = $4, description = $5, date = $6
        WHERE id = $7 AND owner_id = $8`,
		tx.Title, tx.Amount.String(), string(tx.Type), tx.Category, tx.Description,
		tx.Date.UTC(), txID, owner)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes one transaction scoped to its owner.
func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) error {
	txID, err := uuid.Parse(id)
	if err != nil {
		return ErrInvalidID
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND owner_id = $2`, txID, owner)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteAllByOwner removes every transaction for the owner and reports how many.
func (r *PostgresRepository) DeleteAllByOwner(ctx context.Context, ownerID string) (int64, error) {
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return 0, err
	}
	cmd, err := r.db.Exec(ctx, `DELETE FROM transactions WHERE owner_id = $1`, owner)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func scanTransaction(row pgx.Row) (Transaction, error) {
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		amount    string
		kind      string
		date      time.Time
		createdAt time.Time
		tx        Transaction
	)
	if err := row.Scan(&id, &ownerID, &tx.Title, &amount, &kind, &tx.Category, &tx.Description, &date, &createdAt); err != nil {
		return Transaction{}, err
	}
	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return Transaction{}, err
	}
	tx.ID = id.String()
	tx.OwnerID = ownerID.String()
	tx.Amount = parsed
	tx.Type = Type(kind)
	tx.Date = date.UTC()
	tx.CreatedAt = createdAt.UTC()
	return tx, nil
}
