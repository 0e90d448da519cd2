package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExpense() *Expense {
	return &Expense{
		ID:            uuid.New(),
		UserID:        "user-1",
		Amount:        decimal.RequireFromString("250"),
		Category:      "Other",
		Date:          time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
		Notes:         "Amit Traders",
		TransactionID: "123456",
	}
}

func TestPostgresExpenseRepository_ExistsByIdentity(t *testing.T) {
	tests := []struct {
		name   string
		exists bool
	}{
		{"known identity", true},
		{"new identity", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs("user-1", "abc").
				WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(tt.exists))

			repo := NewPostgresExpenseRepository(mock)
			got, err := repo.ExistsByIdentity(context.Background(), "user-1", "abc")
			require.NoError(t, err)
			assert.Equal(t, tt.exists, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresExpenseRepository_ExistsByIdentity_Error(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("user-1", "abc").
		WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresExpenseRepository(mock).ExistsByIdentity(context.Background(), "user-1", "abc")
	assert.ErrorContains(t, err, "failed to check expense identity")
}

func TestPostgresExpenseRepository_Insert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	e := newExpense()
	mock.ExpectQuery(`INSERT INTO expenses`).
		WithArgs(e.ID, "user-1", "250.00", "Other", e.Date, "Amit Traders", "123456").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(e.ID))

	id, err := NewPostgresExpenseRepository(mock).Insert(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, e.ID, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresExpenseRepository_Insert_AssignsID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	e := newExpense()
	e.ID = uuid.Nil
	mock.ExpectQuery(`INSERT INTO expenses`).
		WithArgs(pgxmock.AnyArg(), "user-1", "250.00", "Other", e.Date, "Amit Traders", "123456").
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	_, err = NewPostgresExpenseRepository(mock).Insert(context.Background(), e)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, e.ID)
}

func TestPostgresExpenseRepository_Insert_Duplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	e := newExpense()
	mock.ExpectQuery(`INSERT INTO expenses`).
		WithArgs(e.ID, "user-1", "250.00", "Other", e.Date, "Amit Traders", "123456").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "expenses_user_id_transaction_id_key"})

	_, err = NewPostgresExpenseRepository(mock).Insert(context.Background(), e)
	assert.ErrorIs(t, err, ErrDuplicateExpense)
}

func TestPostgresExpenseRepository_Insert_Failure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	e := newExpense()
	mock.ExpectQuery(`INSERT INTO expenses`).
		WithArgs(e.ID, "user-1", "250.00", "Other", e.Date, "Amit Traders", "123456").
		WillReturnError(&pgconn.PgError{Code: "23502"})

	_, err = NewPostgresExpenseRepository(mock).Insert(context.Background(), e)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicateExpense)
}
