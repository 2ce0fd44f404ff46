package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/iho/societyledger/internal/domain"
	"github.com/iho/societyledger/internal/usecase"
)

// memCache is an in-memory usecase.Cache.
type memCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{items: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.items[key]
	if !ok {
		return nil, usecase.ErrCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	return nil
}

// memFlatRepo is an in-memory usecase.FlatRepository that enforces versions.
// Setting conflicts makes the next n updates fail as if another writer got there first.
type memFlatRepo struct {
	mu        sync.Mutex
	flats     map[string]*domain.Flat
	conflicts int
	updates   [][]domain.FlatField
}

func newMemFlatRepo(flats ...*domain.Flat) *memFlatRepo {
	r := &memFlatRepo{flats: make(map[string]*domain.Flat)}
	for _, f := range flats {
		r.flats[f.Key.ID()] = copyFlat(f)
	}
	return r
}

func (r *memFlatRepo) Get(_ context.Context, key domain.FlatKey) (*domain.Flat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.flats[key.ID()]
	if !ok {
		return nil, domain.ErrFlatNotFound
	}
	return copyFlat(f), nil
}

func (r *memFlatRepo) ListByWing(_ context.Context, society, wing string) ([]*domain.Flat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Flat
	for _, f := range r.flats {
		if f.Key.Society == society && f.Key.Wing == wing {
			out = append(out, copyFlat(f))
		}
	}
	return out, nil
}

func (r *memFlatRepo) CreateMany(_ context.Context, flats []*domain.Flat) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range flats {
		r.flats[f.Key.ID()] = copyFlat(f)
	}
	return nil
}

func (r *memFlatRepo) UpdateFields(_ context.Context, flat *domain.Flat, fields []domain.FlatField) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.flats[flat.Key.ID()]
	if !ok {
		return domain.ErrFlatNotFound
	}
	if r.conflicts > 0 {
		r.conflicts--
		stored.Version++
	}
	if stored.Version != flat.Version {
		return domain.ErrVersionConflict
	}

	next := copyFlat(stored)
	for _, field := range fields {
		switch field {
		case domain.FieldOwner:
			next.Owner = flat.Owner
		case domain.FieldBills:
			next.Bills = flat.Bills
		case domain.FieldAdvances:
			next.Advances = flat.Advances
		case domain.FieldRefunds:
			next.Refunds = flat.Refunds
		case domain.FieldUncleared:
			next.Uncleared = flat.Uncleared
		case domain.FieldVehicles:
			next.Vehicles = flat.Vehicles
		}
	}
	next.Version++
	next.UpdatedAt = flat.UpdatedAt
	r.flats[flat.Key.ID()] = copyFlat(next)
	r.updates = append(r.updates, fields)

	flat.Version = next.Version
	return nil
}

func copyFlat(f *domain.Flat) *domain.Flat {
	c := *f
	c.Bills = make(map[string]domain.BillCharge, len(f.Bills))
	for k, v := range f.Bills {
		c.Bills[k] = v
	}
	c.Vehicles = make(map[string]domain.Vehicle, len(f.Vehicles))
	for k, v := range f.Vehicles {
		c.Vehicles[k] = v
	}
	c.Advances = append([]domain.Advance(nil), f.Advances...)
	c.Refunds = append([]domain.Refund(nil), f.Refunds...)
	c.Uncleared = append([]domain.UnclearedEntry(nil), f.Uncleared...)
	return &c
}
