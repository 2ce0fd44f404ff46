package handler

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/iho/societyledger/internal/domain"
	"github.com/iho/societyledger/internal/usecase"
)

// LedgerService computes balances and reports.
type LedgerService interface {
	Groups() []domain.LedgerGroup
	Balances(ctx context.Context, society string) (domain.Balances, error)
	BalanceSheet(ctx context.Context, society string) (*domain.BalanceSheet, error)
	IncomeExpenditure(ctx context.Context, society string) (*domain.IncomeExpenditure, error)
	CheckConsistency(ctx context.Context, society string) (*domain.ClosureReport, error)
}

// TransactionService records and lists vouchers.
type TransactionService interface {
	Record(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error)
	List(ctx context.Context, society string, limit, offset int) ([]*domain.Transaction, error)
}

// BillService manages bill definitions.
type BillService interface {
	Create(ctx context.Context, input usecase.CreateBillInput) (*domain.Bill, error)
	List(ctx context.Context, society string) ([]*domain.Bill, error)
	ApplyToWing(ctx context.Context, society, wing, billNumber string, amount decimal.Decimal) (*usecase.ApplyBillResult, error)
}

// LayoutService generates and persists wing layouts.
type LayoutService interface {
	Formats() []domain.LayoutFormat
	Preview(input usecase.LayoutInput) (*domain.Layout, error)
	Apply(ctx context.Context, society, wing string, input usecase.LayoutInput) (*domain.Layout, error)
}

// FlatService reads and mutates flat records.
type FlatService interface {
	Get(ctx context.Context, key domain.FlatKey) (*domain.Flat, error)
	AddAdvance(ctx context.Context, key domain.FlatKey, advance domain.Advance) (*domain.Flat, error)
	AddRefund(ctx context.Context, key domain.FlatKey, refund domain.Refund) (*domain.Flat, error)
	RemoveRefund(ctx context.Context, key domain.FlatKey, voucher string) (*domain.Flat, error)
	AddUncleared(ctx context.Context, key domain.FlatKey, entry domain.UnclearedEntry) (*domain.Flat, error)
	ClearUncleared(ctx context.Context, key domain.FlatKey, voucher string) (*domain.Flat, error)
	SetBillStatus(ctx context.Context, key domain.FlatKey, billNumber string, status domain.BillStatus) (*domain.Flat, error)
	AddVehicle(ctx context.Context, key domain.FlatKey, vehicle domain.Vehicle) (*domain.Flat, error)
	RemoveVehicle(ctx context.Context, key domain.FlatKey, number string) (*domain.Flat, error)
}

// StatementService composes flat statements.
type StatementService interface {
	Compose(ctx context.Context, key domain.FlatKey) (*domain.Statement, error)
}
