package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/iho/societyledger/internal/domain"
	"github.com/iho/societyledger/internal/infrastructure/postgres/generated"
)

// TransactionRepository implements usecase.TransactionRepository on a PostgreSQL journal.
type TransactionRepository struct {
	q       *generated.Queries
	retrier *Retrier
}

// NewTransactionRepository creates a new TransactionRepository.
func NewTransactionRepository(db generated.DBTX, retrier *Retrier) *TransactionRepository {
	return &TransactionRepository{
		q:       generated.New(db),
		retrier: retrier,
	}
}

// Create appends a transaction to the journal.
func (r *TransactionRepository) Create(ctx context.Context, tx *domain.Transaction) error {
	amount, err := toNumeric(tx.Amount)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidAmount, err)
	}

	params := generated.CreateTransactionParams{
		ID:            tx.ID,
		Society:       tx.Society,
		PaidFrom:      tx.PaidFrom,
		PaidTo:        tx.PaidTo,
		TxType:        string(tx.Type),
		VoucherNumber: tx.VoucherNumber,
		Narration:     tx.Narration,
		Amount:        amount,
		VoucherDate:   toTimestamptz(tx.Date),
		CreatedAt:     toTimestamptz(tx.CreatedAt),
	}

	err = r.retrier.Retry(ctx, func() error {
		return r.q.CreateTransaction(ctx, params)
	})
	return mapError(err)
}

// ListBySociety returns the journal of a society ordered by voucher date.
func (r *TransactionRepository) ListBySociety(ctx context.Context, society string) ([]*domain.Transaction, error) {
	rows, err := r.q.ListTransactionsBySociety(ctx, society)
	if err != nil {
		return nil, mapError(err)
	}

	txs := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		tx, err := fromRow(row)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}

	return txs, nil
}

func fromRow(row generated.Transaction) (*domain.Transaction, error) {
	if !row.Amount.Valid {
		return nil, fmt.Errorf("%w: transaction %s without amount", domain.ErrMalformedRecord, row.ID)
	}

	amount, err := toDecimal(row.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction %s amount: %v", domain.ErrMalformedRecord, row.ID, err)
	}

	tx := &domain.Transaction{
		ID:            row.ID,
		Society:       row.Society,
		PaidFrom:      row.PaidFrom,
		PaidTo:        row.PaidTo,
		Type:          domain.TransactionType(row.TxType),
		VoucherNumber: row.VoucherNumber,
		Narration:     row.Narration,
		Amount:        amount,
		Date:          row.VoucherDate.Time.UTC(),
		CreatedAt:     row.CreatedAt.Time.UTC(),
	}
	if err := tx.CheckStored(); err != nil {
		return nil, err
	}
	return tx, nil
}

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case hasCode(err, pgErrUniqueViolation):
		return fmt.Errorf("%w: transaction already recorded", domain.ErrValidation)
	case hasCode(err, pgErrCheckViolation):
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrRemoteFailure, err)
}

func toNumeric(d decimal.Decimal) (pgtype.Numeric, error) {
	var n pgtype.Numeric
	if err := n.Scan(d.String()); err != nil {
		return pgtype.Numeric{}, err
	}
	return n, nil
}

func toDecimal(n pgtype.Numeric) (decimal.Decimal, error) {
	if !n.Valid {
		return decimal.Zero, nil
	}
	if n.NaN || n.InfinityModifier != pgtype.Finite {
		return decimal.Zero, fmt.Errorf("non-finite numeric")
	}
	return decimal.NewFromBigInt(n.Int, n.Exp), nil
}

func toTimestamptz(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: !t.IsZero()}
}
