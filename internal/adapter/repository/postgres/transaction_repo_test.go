package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/societyledger/internal/domain"
)

var transactionColumns = []string{
	"id", "society", "paid_from", "paid_to", "tx_type", "voucher_number", "narration", "amount", "voucher_date", "created_at",
}

func numeric(t *testing.T, s string) pgtype.Numeric {
	t.Helper()
	n, err := toNumeric(decimal.RequireFromString(s))
	require.NoError(t, err)
	return n
}

func stamp(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func sampleTransaction() *domain.Transaction {
	return &domain.Transaction{
		ID:            "01HVZ",
		Society:       "greenview",
		PaidFrom:      "Capital",
		PaidTo:        "Bank",
		Type:          domain.TransactionReceipt,
		VoucherNumber: "V-1",
		Amount:        decimal.RequireFromString("1250.75"),
		Date:          time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:     time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestTransactionRepository_Create(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("INSERT INTO transactions").
		WithArgs("01HVZ", "greenview", "Capital", "Bank", "Receipt", "V-1", "", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewTransactionRepository(pool, fastRetrier())
	require.NoError(t, repo.Create(context.Background(), sampleTransaction()))
	assertExpectations(t, pool)
}

func TestTransactionRepository_CreateRetriesSerializationFailure(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectExec("INSERT INTO transactions").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: pgErrSerializationFailure})
	pool.ExpectExec("INSERT INTO transactions").
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	repo := NewTransactionRepository(pool, fastRetrier())
	require.NoError(t, repo.Create(context.Background(), sampleTransaction()))
	assertExpectations(t, pool)
}

func TestTransactionRepository_CreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "duplicate id", err: &pgconn.PgError{Code: pgErrUniqueViolation}, wantErr: domain.ErrValidation},
		{name: "check violation", err: &pgconn.PgError{Code: pgErrCheckViolation}, wantErr: domain.ErrValidation},
		{name: "connection lost", err: errors.New("conn closed"), wantErr: domain.ErrRemoteFailure},
		{name: "cancelled", err: context.Canceled, wantErr: context.Canceled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			pool.ExpectExec("INSERT INTO transactions").
				WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
					pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
				WillReturnError(tt.err)

			err := NewTransactionRepository(pool, fastRetrier()).Create(context.Background(), sampleTransaction())
			assert.ErrorIs(t, err, tt.wantErr)
			assertExpectations(t, pool)
		})
	}
}

func TestTransactionRepository_ListBySociety(t *testing.T) {
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	pool := newMockPool(t)
	pool.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("greenview").
		WillReturnRows(pgxmock.NewRows(transactionColumns).
			AddRow("t1", "greenview", "Capital", "Bank", "Receipt", "V-1", "", numeric(t, "1000"), stamp(day), stamp(day)).
			AddRow("t2", "greenview", "Bank", "Repairs", "Expense", "V-2", "plumbing", numeric(t, "200.50"), stamp(day), stamp(day.Add(time.Hour))))

	txs, err := NewTransactionRepository(pool, fastRetrier()).ListBySociety(context.Background(), "greenview")
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, domain.TransactionExpense, txs[1].Type)
	assert.Equal(t, "plumbing", txs[1].Narration)
	assert.True(t, txs[1].Amount.Equal(decimal.RequireFromString("200.5")), "amount %s", txs[1].Amount)
	assert.Equal(t, day, txs[0].Date)
	assertExpectations(t, pool)
}

func TestTransactionRepository_ListMalformed(t *testing.T) {
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		amount pgtype.Numeric
	}{
		{name: "null amount", amount: pgtype.Numeric{}},
		{name: "nan amount", amount: pgtype.Numeric{NaN: true, Valid: true}},
		{name: "negative amount", amount: numeric(t, "-5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := newMockPool(t)
			pool.ExpectQuery("SELECT (.+) FROM transactions").
				WithArgs("greenview").
				WillReturnRows(pgxmock.NewRows(transactionColumns).
					AddRow("t1", "greenview", "Capital", "Bank", "Receipt", "V-1", "", tt.amount, stamp(day), stamp(day)))

			_, err := NewTransactionRepository(pool, fastRetrier()).ListBySociety(context.Background(), "greenview")
			assert.ErrorIs(t, err, domain.ErrMalformedRecord)
		})
	}
}

func TestTransactionRepository_ListFailure(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("SELECT (.+) FROM transactions").
		WithArgs("greenview").
		WillReturnError(errors.New("connection refused"))

	_, err := NewTransactionRepository(pool, fastRetrier()).ListBySociety(context.Background(), "greenview")
	assert.ErrorIs(t, err, domain.ErrRemoteFailure)
	assertExpectations(t, pool)
}

func TestNumericRoundTrip(t *testing.T) {
	n, err := toNumeric(decimal.RequireFromString("-0.05"))
	require.NoError(t, err)

	d, err := toDecimal(n)
	require.NoError(t, err)
	assert.True(t, d.Equal(decimal.RequireFromString("-0.05")))
}
