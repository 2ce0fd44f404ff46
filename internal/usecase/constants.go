package usecase

import "time"

const (
	// DefaultBalanceCacheTTL is how long a computed balance snapshot is served from cache
	DefaultBalanceCacheTTL = 10 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour

	// MaxConflictRetries bounds read-modify-write retries on a stale flat version
	MaxConflictRetries = 5

	balanceCachePrefix      = "balances:"
	balanceGenerationPrefix = "balance-generation:"
)
