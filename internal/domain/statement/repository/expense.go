// Package repository persists expenses created from statement uploads.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint violation.
const uniqueViolation = "23505"

// ErrDuplicateExpense is returned by Insert when the user already has an expense with the same
// transaction id.
var ErrDuplicateExpense = errors.New("expense already exists")

// DBTX is the subset of pgxpool.Pool used by the repository.
type DBTX interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Expense is a persisted debit.
type Expense struct {
	ID     uuid.UUID
	UserID string
	Amount decimal.Decimal
	// Category is a short label such as "Food"; "Other" when untagged.
	Category string
	Date     time.Time
	// Notes holds the cleaned description.
	Notes         string
	TransactionID string
}

// ExpenseRepository is the persistence port of the ingestion gate. Implementations only create
// records.
type ExpenseRepository interface {
	ExistsByIdentity(ctx context.Context, userID, identity string) (bool, error)
	Insert(ctx context.Context, e *Expense) (uuid.UUID, error)
}

// PostgresExpenseRepository implements ExpenseRepository using PostgreSQL
type PostgresExpenseRepository struct {
	db DBTX
}

// NewPostgresExpenseRepository creates a new PostgreSQL expense repository
func NewPostgresExpenseRepository(db DBTX) *PostgresExpenseRepository {
	return &PostgresExpenseRepository{db: db}
}

// ExistsByIdentity reports whether userID already has an expense with the given transaction id.
func (r *PostgresExpenseRepository) ExistsByIdentity(ctx context.Context, userID, identity string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM expenses
			WHERE user_id = $1 AND transaction_id = $2
		)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, userID, identity).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check expense identity: %w", err)
	}
	return exists, nil
}

// Insert creates the expense and returns its id. A unique violation on (user_id, transaction_id)
// is reported as ErrDuplicateExpense.
func (r *PostgresExpenseRepository) Insert(ctx context.Context, e *Expense) (uuid.UUID, error) {
	query := `
		INSERT INTO expenses (id, user_id, amount, category, expense_date, notes, transaction_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`

	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}

	var id uuid.UUID
	err := r.db.QueryRow(ctx, query,
		e.ID,
		e.UserID,
		e.Amount.StringFixed(2),
		e.Category,
		e.Date,
		e.Notes,
		e.TransactionID,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return uuid.Nil, ErrDuplicateExpense
		}
		return uuid.Nil, fmt.Errorf("failed to insert expense: %w", err)
	}
	return id, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
