package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/societyledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// TransactionRepository defines data access for voucher transactions.
type TransactionRepository interface {
	Create(ctx context.Context, tx *domain.Transaction) error
	ListBySociety(ctx context.Context, society string) ([]*domain.Transaction, error)
}

// FlatRepository defines data access for flats.
type FlatRepository interface {
	Get(ctx context.Context, key domain.FlatKey) (*domain.Flat, error)
	ListByWing(ctx context.Context, society, wing string) ([]*domain.Flat, error)
	CreateMany(ctx context.Context, flats []*domain.Flat) error
	// UpdateFields writes only the named fields, provided the stored version still equals
	// flat.Version. On success the stored and in-memory versions are incremented.
	// A stale version yields domain.ErrVersionConflict.
	UpdateFields(ctx context.Context, flat *domain.Flat, fields []domain.FlatField) error
}

// BillRepository defines data access for bill definitions.
type BillRepository interface {
	Create(ctx context.Context, bill *domain.Bill) error
	Get(ctx context.Context, society, billNumber string) (*domain.Bill, error)
	ListBySociety(ctx context.Context, society string) ([]*domain.Bill, error)
}

// ChangeNotifier publishes and subscribes to document change events.
type ChangeNotifier interface {
	Publish(ctx context.Context, event domain.ChangeEvent) error
	// Subscribe calls onChange for every event on the collection until the returned
	// unsubscribe function is called or ctx is cancelled.
	Subscribe(ctx context.Context, collection string, onChange func(domain.ChangeEvent)) (func(), error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

// Metrics records domain measurements.
type Metrics interface {
	ObserveAggregation(transactions int, duration time.Duration)
	CacheResult(hit bool)
	VersionConflict()
	TransactionRecorded(txType string)
	FlatsLaidOut(count int)
}

// NopMetrics discards every measurement.
type NopMetrics struct{}

func (NopMetrics) ObserveAggregation(int, time.Duration) {}
func (NopMetrics) CacheResult(bool)                      {}
func (NopMetrics) VersionConflict()                      {}
func (NopMetrics) TransactionRecorded(string)            {}
func (NopMetrics) FlatsLaidOut(int)                      {}
