package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/societyledger/internal/domain"
)

// TransactionUseCase records and lists vouchers.
type TransactionUseCase struct {
	txRepo   TransactionRepository
	notifier ChangeNotifier
	ledger   *LedgerUseCase
	idGen    IDGenerator
	metrics  Metrics
	logger   zerolog.Logger
}

// NewTransactionUseCase creates a new TransactionUseCase. notifier and ledger may be nil.
func NewTransactionUseCase(
	txRepo TransactionRepository,
	notifier ChangeNotifier,
	ledger *LedgerUseCase,
	idGen IDGenerator,
	metrics Metrics,
	logger zerolog.Logger,
) *TransactionUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &TransactionUseCase{
		txRepo:   txRepo,
		notifier: notifier,
		ledger:   ledger,
		idGen:    idGen,
		metrics:  metrics,
		logger:   logger,
	}
}

// RecordTransactionInput represents input for recording a voucher.
type RecordTransactionInput struct {
	Date          *time.Time
	Society       string
	PaidFrom      string
	PaidTo        string
	Type          domain.TransactionType
	VoucherNumber string
	Narration     string
	Amount        decimal.Decimal
}

// Record validates and stores a voucher, then announces it to balance watchers.
func (uc *TransactionUseCase) Record(ctx context.Context, input RecordTransactionInput) (*domain.Transaction, error) {
	now := time.Now().UTC()
	date := now
	if input.Date != nil {
		date = input.Date.UTC()
	}

	tx := &domain.Transaction{
		ID:            uc.idGen.Generate(),
		Society:       input.Society,
		PaidFrom:      strings.TrimSpace(input.PaidFrom),
		PaidTo:        strings.TrimSpace(input.PaidTo),
		Type:          input.Type,
		VoucherNumber: strings.TrimSpace(input.VoucherNumber),
		Narration:     input.Narration,
		Amount:        input.Amount,
		Date:          date,
		CreatedAt:     now,
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	if err := uc.txRepo.Create(ctx, tx); err != nil {
		return nil, err
	}

	uc.metrics.TransactionRecorded(string(tx.Type))
	uc.announce(ctx, tx)

	return tx, nil
}

// List returns a page of a society's transactions in date order.
func (uc *TransactionUseCase) List(ctx context.Context, society string, limit, offset int) ([]*domain.Transaction, error) {
	txs, err := uc.txRepo.ListBySociety(ctx, society)
	if err != nil {
		return nil, err
	}

	limit, offset = domain.ValidatePagination(limit, offset)
	if offset >= len(txs) {
		return []*domain.Transaction{}, nil
	}

	end := offset + limit
	if end > len(txs) {
		end = len(txs)
	}

	return txs[offset:end], nil
}

// announce publishes the change event. When publishing fails the cached snapshot is
// dropped so the next read recomputes from the store.
func (uc *TransactionUseCase) announce(ctx context.Context, tx *domain.Transaction) {
	if uc.notifier == nil {
		uc.invalidate(ctx, tx.Society)
		return
	}

	err := uc.notifier.Publish(ctx, domain.ChangeEvent{
		Collection:  domain.CollectionTransactions,
		Operation:   domain.ChangeCreated,
		Society:     tx.Society,
		DocumentID:  tx.ID,
		Transaction: tx,
		OccurredAt:  tx.CreatedAt,
	})
	if err != nil {
		uc.logger.Warn().Err(err).Str("transaction_id", tx.ID).Msg("failed to publish transaction change")
		uc.invalidate(ctx, tx.Society)
	}
}

func (uc *TransactionUseCase) invalidate(ctx context.Context, society string) {
	if uc.ledger == nil {
		return
	}
	if err := uc.ledger.Invalidate(ctx, society); err != nil {
		uc.logger.Warn().Err(err).Str("society", society).Msg("failed to invalidate balance cache")
	}
}
