package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/iho/societyledger/internal/domain"
)

// BillUseCase manages society-wide bill definitions and applies them to flats.
type BillUseCase struct {
	billRepo BillRepository
	flatRepo FlatRepository
	flats    *FlatUseCase
	logger   zerolog.Logger
}

// NewBillUseCase creates a new BillUseCase.
func NewBillUseCase(billRepo BillRepository, flatRepo FlatRepository, flats *FlatUseCase, logger zerolog.Logger) *BillUseCase {
	return &BillUseCase{
		billRepo: billRepo,
		flatRepo: flatRepo,
		flats:    flats,
		logger:   logger,
	}
}

// CreateBillInput represents input for defining a bill.
type CreateBillInput struct {
	StartDate     time.Time
	DueDate       time.Time
	Society       string
	BillNumber    string
	Name          string
	DefaultAmount decimal.Decimal
}

// Create defines a new bill for a society.
func (uc *BillUseCase) Create(ctx context.Context, input CreateBillInput) (*domain.Bill, error) {
	bill := &domain.Bill{
		Society:       input.Society,
		BillNumber:    strings.TrimSpace(input.BillNumber),
		Name:          strings.TrimSpace(input.Name),
		StartDate:     input.StartDate.UTC(),
		DueDate:       input.DueDate.UTC(),
		DefaultAmount: input.DefaultAmount,
		CreatedAt:     time.Now().UTC(),
	}

	if err := bill.Validate(); err != nil {
		return nil, err
	}

	if err := uc.billRepo.Create(ctx, bill); err != nil {
		return nil, err
	}

	return bill, nil
}

// List returns every bill of a society.
func (uc *BillUseCase) List(ctx context.Context, society string) ([]*domain.Bill, error) {
	return uc.billRepo.ListBySociety(ctx, society)
}

// ApplyBillResult reports how many flats of a wing were charged.
type ApplyBillResult struct {
	Bill    *domain.Bill
	Applied int
}

// ApplyToWing charges the bill to every flat of a wing. New charges start unpaid and
// flats that already carry the bill keep their status. A zero amount falls back to the
// bill's default amount.
func (uc *BillUseCase) ApplyToWing(ctx context.Context, society, wing, billNumber string, amount decimal.Decimal) (*ApplyBillResult, error) {
	bill, err := uc.billRepo.Get(ctx, society, billNumber)
	if err != nil {
		return nil, err
	}

	if amount.IsZero() {
		amount = bill.DefaultAmount
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, err
	}

	flats, err := uc.flatRepo.ListByWing(ctx, society, wing)
	if err != nil {
		return nil, err
	}
	if len(flats) == 0 {
		return nil, fmt.Errorf("%w: wing %s has no flats", domain.ErrNotFound, wing)
	}

	applied := 0
	for _, flat := range flats {
		if _, err := uc.flats.SetBillCharge(ctx, flat.Key, bill.BillNumber, amount); err != nil {
			return nil, fmt.Errorf("apply bill %s to flat %s: %w", bill.BillNumber, flat.Key.Flat, err)
		}
		applied++
	}

	uc.logger.Info().
		Str("society", society).
		Str("wing", wing).
		Str("bill", bill.BillNumber).
		Int("flats", applied).
		Msg("bill applied to wing")

	return &ApplyBillResult{Bill: bill, Applied: applied}, nil
}
