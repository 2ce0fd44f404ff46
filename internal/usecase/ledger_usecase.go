package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/societyledger/internal/domain"
)

var (
	// ErrInconsistentLedger is returned when the ledger is not balanced.
	ErrInconsistentLedger = errors.New("ledger is inconsistent: balances do not sum to zero")
)

// LedgerUseCase computes balances and reports over a society's transactions.
type LedgerUseCase struct {
	txRepo   TransactionRepository
	cache    Cache
	catalog  *domain.Catalog
	metrics  Metrics
	logger   zerolog.Logger
	cacheTTL time.Duration
}

// LedgerConfig for LedgerUseCase.
type LedgerConfig struct {
	TxRepo   TransactionRepository
	Cache    Cache // optional; balances are recomputed on every call without it
	Catalog  *domain.Catalog
	Metrics  Metrics
	Logger   zerolog.Logger
	CacheTTL time.Duration
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(cfg LedgerConfig) *LedgerUseCase {
	if cfg.Catalog == nil {
		cfg.Catalog = domain.DefaultCatalog()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = NopMetrics{}
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = DefaultBalanceCacheTTL
	}

	return &LedgerUseCase{
		txRepo:   cfg.TxRepo,
		cache:    cfg.Cache,
		catalog:  cfg.Catalog,
		metrics:  cfg.Metrics,
		logger:   cfg.Logger,
		cacheTTL: cfg.CacheTTL,
	}
}

// Balances returns the signed balance of every account that appears in a transaction.
func (uc *LedgerUseCase) Balances(ctx context.Context, society string) (domain.Balances, error) {
	snap, err := uc.snapshot(ctx, society)
	if err != nil {
		return nil, err
	}
	return snap.Balances.Clone(), nil
}

// BalanceSheet places balances on the liability and asset sides of the catalog.
func (uc *LedgerUseCase) BalanceSheet(ctx context.Context, society string) (*domain.BalanceSheet, error) {
	balances, err := uc.Balances(ctx, society)
	if err != nil {
		return nil, err
	}

	sheet := domain.BuildBalanceSheet(uc.catalog, balances)
	if len(sheet.Unclassified) > 0 {
		uc.logger.Warn().
			Str("society", society).
			Int("accounts", len(sheet.Unclassified)).
			Msg("accounts outside every ledger group excluded from balance sheet")
	}

	return &sheet, nil
}

// IncomeExpenditure places balances on the income and expenditure sides of the catalog.
func (uc *LedgerUseCase) IncomeExpenditure(ctx context.Context, society string) (*domain.IncomeExpenditure, error) {
	balances, err := uc.Balances(ctx, society)
	if err != nil {
		return nil, err
	}

	report := domain.BuildIncomeExpenditure(uc.catalog, balances)
	return &report, nil
}

// CheckConsistency verifies double-entry closure directly against the store.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context, society string) (*domain.ClosureReport, error) {
	txs, err := uc.txRepo.ListBySociety(ctx, society)
	if err != nil {
		return nil, err
	}

	report := domain.CheckClosure(txs)
	if !report.Balanced {
		uc.logger.Error().
			Str("society", society).
			Str("total", report.Total.String()).
			Strs("incomplete", report.Incomplete).
			Msg("ledger closure check failed")
		return &report, ErrInconsistentLedger
	}

	return &report, nil
}

// Groups returns the ledger group catalog.
func (uc *LedgerUseCase) Groups() []domain.LedgerGroup {
	return uc.catalog.Groups()
}

// Invalidate drops the cached snapshot of a society.
func (uc *LedgerUseCase) Invalidate(ctx context.Context, society string) error {
	if uc.cache == nil {
		return nil
	}
	return uc.cache.Delete(ctx, balanceCacheKey(society))
}

func (uc *LedgerUseCase) snapshot(ctx context.Context, society string) (*BalanceSnapshot, error) {
	snap, err := loadSnapshot(ctx, uc.cache, society)
	if err != nil {
		// A broken cache must not take reports down with it.
		uc.logger.Warn().Err(err).Str("society", society).Msg("balance cache unavailable")
	}
	if snap != nil {
		uc.metrics.CacheResult(true)
		return snap, nil
	}
	if uc.cache != nil {
		uc.metrics.CacheResult(false)
	}

	var gen string
	var genErr error
	if uc.cache != nil {
		gen, genErr = loadGeneration(ctx, uc.cache, society)
	}

	start := time.Now()
	txs, err := uc.txRepo.ListBySociety(ctx, society)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	snap = NewBalanceSnapshot(txs, time.Now().UTC())
	uc.metrics.ObserveAggregation(len(txs), time.Since(start))

	if uc.cache == nil {
		return snap, nil
	}
	if err := storeSnapshot(ctx, uc.cache, society, snap, uc.cacheTTL); err != nil {
		uc.logger.Warn().Err(err).Str("society", society).Msg("failed to cache balance snapshot")
		return snap, nil
	}

	// A change that raced the listing may be missing from snap; the watcher moves the
	// marker before it looks for a snapshot, so a moved marker means drop ours.
	if genErr == nil {
		var after string
		after, genErr = loadGeneration(ctx, uc.cache, society)
		if genErr == nil && after == gen {
			return snap, nil
		}
	}
	if err := uc.cache.Delete(ctx, balanceCacheKey(society)); err != nil {
		uc.logger.Warn().Err(err).Str("society", society).Msg("failed to drop raced balance snapshot")
	}

	return snap, nil
}
