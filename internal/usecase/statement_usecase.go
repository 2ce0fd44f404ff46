package usecase

import (
	"context"

	"github.com/iho/societyledger/internal/domain"
)

// StatementUseCase composes flat statements.
type StatementUseCase struct {
	flatRepo FlatRepository
	billRepo BillRepository
}

// NewStatementUseCase creates a new StatementUseCase.
func NewStatementUseCase(flatRepo FlatRepository, billRepo BillRepository) *StatementUseCase {
	return &StatementUseCase{
		flatRepo: flatRepo,
		billRepo: billRepo,
	}
}

// Compose returns the statement of one flat.
func (uc *StatementUseCase) Compose(ctx context.Context, key domain.FlatKey) (*domain.Statement, error) {
	if err := key.Validate(); err != nil {
		return nil, err
	}

	flat, err := uc.flatRepo.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	bills, err := uc.billRepo.ListBySociety(ctx, key.Society)
	if err != nil {
		return nil, err
	}

	st := domain.ComposeStatement(flat, bills)
	return &st, nil
}
