package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/societyledger/internal/domain"
)

// BalanceWatcher keeps cached balance snapshots current by folding each newly recorded
// transaction into the snapshot instead of recomputing from the full history.
type BalanceWatcher struct {
	notifier ChangeNotifier
	cache    Cache
	logger   zerolog.Logger
	ttl      time.Duration

	mu sync.Mutex
}

// NewBalanceWatcher creates a new BalanceWatcher.
func NewBalanceWatcher(notifier ChangeNotifier, cache Cache, ttl time.Duration, logger zerolog.Logger) *BalanceWatcher {
	if ttl == 0 {
		ttl = DefaultBalanceCacheTTL
	}
	return &BalanceWatcher{
		notifier: notifier,
		cache:    cache,
		logger:   logger,
		ttl:      ttl,
	}
}

// Run subscribes to transaction changes and blocks until ctx is cancelled.
func (w *BalanceWatcher) Run(ctx context.Context) error {
	unsubscribe, err := w.notifier.Subscribe(ctx, domain.CollectionTransactions, func(event domain.ChangeEvent) {
		if err := w.Apply(ctx, event); err != nil {
			w.logger.Warn().Err(err).
				Str("society", event.Society).
				Str("document_id", event.DocumentID).
				Msg("failed to apply transaction change to balances")
		}
	})
	if err != nil {
		return err
	}
	defer unsubscribe()

	w.logger.Info().Msg("balance watcher started")
	<-ctx.Done()
	w.logger.Info().Msg("balance watcher stopped")

	return nil
}

// Apply folds one change event into the cached snapshot of its society. Events for
// societies without a cached snapshot only move the change marker, so an aggregation
// already in flight discards its result and the next read includes the event.
func (w *BalanceWatcher) Apply(ctx context.Context, event domain.ChangeEvent) error {
	if event.Collection != domain.CollectionTransactions {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if err := markGeneration(ctx, w.cache, event, w.ttl); err != nil {
		if delErr := w.cache.Delete(ctx, balanceCacheKey(event.Society)); delErr != nil {
			w.logger.Warn().Err(delErr).Str("society", event.Society).Msg("failed to drop balance snapshot")
		}
		return err
	}

	// Transactions are immutable; anything but a creation invalidates the snapshot.
	if event.Operation != domain.ChangeCreated || event.Transaction == nil {
		return w.cache.Delete(ctx, balanceCacheKey(event.Society))
	}

	snap, err := loadSnapshot(ctx, w.cache, event.Society)
	if err != nil {
		return w.cache.Delete(ctx, balanceCacheKey(event.Society))
	}
	if snap == nil {
		return nil
	}

	if !snap.Apply(event.Transaction) {
		return nil
	}
	snap.ComputedAt = time.Now().UTC()

	return storeSnapshot(ctx, w.cache, event.Society, snap, w.ttl)
}
