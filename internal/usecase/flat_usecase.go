package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/societyledger/internal/domain"
)

// FlatUseCase applies mutations to a flat's nested records.
//
// Every mutation is a read-modify-write of only the fields it touches, guarded by the
// flat's version. Concurrent writers to the same flat retry instead of silently
// overwriting each other.
type FlatUseCase struct {
	flatRepo FlatRepository
	notifier ChangeNotifier
	metrics  Metrics
	logger   zerolog.Logger

	maxRetries      int
	initialInterval time.Duration
	maxInterval     time.Duration
}

// NewFlatUseCase creates a new FlatUseCase. notifier may be nil.
func NewFlatUseCase(flatRepo FlatRepository, notifier ChangeNotifier, metrics Metrics, logger zerolog.Logger) *FlatUseCase {
	if metrics == nil {
		metrics = NopMetrics{}
	}
	return &FlatUseCase{
		flatRepo:        flatRepo,
		notifier:        notifier,
		metrics:         metrics,
		logger:          logger,
		maxRetries:      MaxConflictRetries,
		initialInterval: 20 * time.Millisecond,
		maxInterval:     500 * time.Millisecond,
	}
}

// Get returns a flat.
func (uc *FlatUseCase) Get(ctx context.Context, key domain.FlatKey) (*domain.Flat, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}
	return uc.flatRepo.Get(ctx, key)
}

// Mutation changes a flat in memory and names the field it touched.
type Mutation func(flat *domain.Flat) (domain.FlatField, error)

// Update loads the flat, applies the mutations and writes back the touched fields.
// On a version conflict the whole cycle is repeated against a fresh copy.
func (uc *FlatUseCase) Update(ctx context.Context, key domain.FlatKey, mutations ...Mutation) (*domain.Flat, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = uc.initialInterval
	b.MaxInterval = uc.maxInterval

	var (
		updated  *domain.Flat
		attempts int
	)

	err := backoff.Retry(func() error {
		attempts++

		flat, err := uc.flatRepo.Get(ctx, key)
		if err != nil {
			return backoff.Permanent(err)
		}

		fields := make([]domain.FlatField, 0, len(mutations))
		seen := make(map[domain.FlatField]bool, len(mutations))
		for _, m := range mutations {
			field, err := m(flat)
			if err != nil {
				return backoff.Permanent(err)
			}
			if !seen[field] {
				seen[field] = true
				fields = append(fields, field)
			}
		}

		flat.UpdatedAt = time.Now().UTC()

		err = uc.flatRepo.UpdateFields(ctx, flat, fields)
		if errors.Is(err, domain.ErrVersionConflict) {
			uc.metrics.VersionConflict()
			if attempts > uc.maxRetries {
				return backoff.Permanent(err)
			}
			uc.logger.Debug().
				Str("flat", key.ID()).
				Int("attempt", attempts).
				Msg("flat version conflict, retrying")
			return err
		}
		if err != nil {
			return backoff.Permanent(err)
		}

		updated = flat
		return nil
	}, backoff.WithContext(b, ctx))
	if err != nil {
		return nil, err
	}

	uc.announce(ctx, updated)
	return updated, nil
}

// AddAdvance records an advance payment on a flat.
func (uc *FlatUseCase) AddAdvance(ctx context.Context, key domain.FlatKey, advance domain.Advance) (*domain.Flat, error) {
	return uc.Update(ctx, key, func(f *domain.Flat) (domain.FlatField, error) {
		return f.AddAdvance(advance)
	})
}

// AddRefund records a refund on a flat.
func (uc *FlatUseCase) AddRefund(ctx context.Context, key domain.FlatKey, refund domain.Refund) (*domain.Flat, error) {
	return uc.Update(ctx, key, func(f *domain.Flat) (domain.FlatField, error) {
		return f.AddRefund(refund)
	})
}

// RemoveRefund deletes a refund by voucher number.
func (uc *FlatUseCase) RemoveRefund(ctx context.Context, key domain.FlatKey, voucher string) (*domain.Flat, error) {
	return uc.Update(ctx, key, func(f *domain.Flat) (domain.FlatField, error) {
		return f.RemoveRefund(voucher)
	})
}

// AddUncleared records a pending credit on a flat.
func (uc *FlatUseCase) AddUncleared(ctx context.Context, key domain.FlatKey, entry domain.UnclearedEntry) (*domain.Flat, error) {
	return uc.Update(ctx, key, func(f *domain.Flat) (domain.FlatField, error) {
		return f.AddUncleared(entry)
	})
}

// ClearUncleared marks a pending credit as cleared.
func (uc *FlatUseCase) ClearUncleared(ctx context.Context, key domain.FlatKey, voucher string) (*domain.Flat, error) {
	return uc.Update(ctx, key, func(f *domain.Flat) (domain.FlatField, error) {
		return f.ClearUncleared(voucher)
	})
}

// SetBillStatus marks a bill applied to a flat as paid or unpaid.
func (uc *FlatUseCase) SetBillStatus(ctx context.Context, key domain.FlatKey, billNumber string, status domain.BillStatus) (*domain.Flat, error) {
	return uc.Update(ctx, key, func(f *domain.Flat) (domain.FlatField, error) {
		return f.SetBillStatus(billNumber, status)
	})
}

// SetBillCharge applies a bill amount to a flat as unpaid.
func (uc *FlatUseCase) SetBillCharge(ctx context.Context, key domain.FlatKey, billNumber string, amount decimal.Decimal) (*domain.Flat, error) {
	return uc.Update(ctx, key, func(f *domain.Flat) (domain.FlatField, error) {
		return f.SetBillCharge(billNumber, amount)
	})
}

// AddVehicle registers a vehicle on a flat.
func (uc *FlatUseCase) AddVehicle(ctx context.Context, key domain.FlatKey, vehicle domain.Vehicle) (*domain.Flat, error) {
	return uc.Update(ctx, key, func(f *domain.Flat) (domain.FlatField, error) {
		return f.AddVehicle(vehicle)
	})
}

// RemoveVehicle deletes a vehicle by number.
func (uc *FlatUseCase) RemoveVehicle(ctx context.Context, key domain.FlatKey, number string) (*domain.Flat, error) {
	return uc.Update(ctx, key, func(f *domain.Flat) (domain.FlatField, error) {
		return f.RemoveVehicle(number)
	})
}

func (uc *FlatUseCase) announce(ctx context.Context, flat *domain.Flat) {
	if uc.notifier == nil {
		return
	}

	err := uc.notifier.Publish(ctx, domain.ChangeEvent{
		Collection: domain.CollectionFlats,
		Operation:  domain.ChangeUpdated,
		Society:    flat.Key.Society,
		DocumentID: flat.Key.ID(),
		OccurredAt: flat.UpdatedAt,
	})
	if err != nil {
		uc.logger.Warn().Err(err).Str("flat", flat.Key.ID()).Msg("failed to publish flat change")
	}
}
