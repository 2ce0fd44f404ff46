package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/iho/societyledger/internal/domain"
	"github.com/iho/societyledger/internal/usecase"
)

// withParams attaches chi URL params the way the router would.
func withParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

var flatParams = map[string]string{"society": "greenview", "wing": "A", "floor": "1", "flat": "101"}

var flat101 = domain.FlatKey{Society: "greenview", Wing: "A", Floor: "1", Flat: "101"}

type ledgerServiceStub struct {
	groupsFn      func() []domain.LedgerGroup
	balancesFn    func(ctx context.Context, society string) (domain.Balances, error)
	sheetFn       func(ctx context.Context, society string) (*domain.BalanceSheet, error)
	incomeFn      func(ctx context.Context, society string) (*domain.IncomeExpenditure, error)
	consistencyFn func(ctx context.Context, society string) (*domain.ClosureReport, error)
}

func (s *ledgerServiceStub) Groups() []domain.LedgerGroup { return s.groupsFn() }

func (s *ledgerServiceStub) Balances(ctx context.Context, society string) (domain.Balances, error) {
	return s.balancesFn(ctx, society)
}

func (s *ledgerServiceStub) BalanceSheet(ctx context.Context, society string) (*domain.BalanceSheet, error) {
	return s.sheetFn(ctx, society)
}

func (s *ledgerServiceStub) IncomeExpenditure(ctx context.Context, society string) (*domain.IncomeExpenditure, error) {
	return s.incomeFn(ctx, society)
}

func (s *ledgerServiceStub) CheckConsistency(ctx context.Context, society string) (*domain.ClosureReport, error) {
	return s.consistencyFn(ctx, society)
}

type transactionServiceStub struct {
	recordFn func(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error)
	listFn   func(ctx context.Context, society string, limit, offset int) ([]*domain.Transaction, error)
}

func (s *transactionServiceStub) Record(ctx context.Context, input usecase.RecordTransactionInput) (*domain.Transaction, error) {
	return s.recordFn(ctx, input)
}

func (s *transactionServiceStub) List(ctx context.Context, society string, limit, offset int) ([]*domain.Transaction, error) {
	return s.listFn(ctx, society, limit, offset)
}

type billServiceStub struct {
	createFn func(ctx context.Context, input usecase.CreateBillInput) (*domain.Bill, error)
	listFn   func(ctx context.Context, society string) ([]*domain.Bill, error)
	applyFn  func(ctx context.Context, society, wing, billNumber string, amount decimal.Decimal) (*usecase.ApplyBillResult, error)
}

func (s *billServiceStub) Create(ctx context.Context, input usecase.CreateBillInput) (*domain.Bill, error) {
	return s.createFn(ctx, input)
}

func (s *billServiceStub) List(ctx context.Context, society string) ([]*domain.Bill, error) {
	return s.listFn(ctx, society)
}

func (s *billServiceStub) ApplyToWing(ctx context.Context, society, wing, billNumber string, amount decimal.Decimal) (*usecase.ApplyBillResult, error) {
	return s.applyFn(ctx, society, wing, billNumber, amount)
}

type layoutServiceStub struct {
	previewFn func(input usecase.LayoutInput) (*domain.Layout, error)
	applyFn   func(ctx context.Context, society, wing string, input usecase.LayoutInput) (*domain.Layout, error)
}

func (s *layoutServiceStub) Formats() []domain.LayoutFormat { return domain.LayoutFormats }

func (s *layoutServiceStub) Preview(input usecase.LayoutInput) (*domain.Layout, error) {
	return s.previewFn(input)
}

func (s *layoutServiceStub) Apply(ctx context.Context, society, wing string, input usecase.LayoutInput) (*domain.Layout, error) {
	return s.applyFn(ctx, society, wing, input)
}

// flatServiceStub applies mutations to an in-memory flat through the domain methods.
type flatServiceStub struct {
	flat *domain.Flat
	err  error
	keys []domain.FlatKey
}

func (s *flatServiceStub) mutate(key domain.FlatKey, fn func(f *domain.Flat) (domain.FlatField, error)) (*domain.Flat, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return nil, s.err
	}
	if _, err := fn(s.flat); err != nil {
		return nil, err
	}
	s.flat.Version++
	return s.flat, nil
}

func (s *flatServiceStub) Get(_ context.Context, key domain.FlatKey) (*domain.Flat, error) {
	s.keys = append(s.keys, key)
	if s.err != nil {
		return nil, s.err
	}
	return s.flat, nil
}

func (s *flatServiceStub) AddAdvance(_ context.Context, key domain.FlatKey, a domain.Advance) (*domain.Flat, error) {
	return s.mutate(key, func(f *domain.Flat) (domain.FlatField, error) { return f.AddAdvance(a) })
}

func (s *flatServiceStub) AddRefund(_ context.Context, key domain.FlatKey, r domain.Refund) (*domain.Flat, error) {
	return s.mutate(key, func(f *domain.Flat) (domain.FlatField, error) { return f.AddRefund(r) })
}

func (s *flatServiceStub) RemoveRefund(_ context.Context, key domain.FlatKey, voucher string) (*domain.Flat, error) {
	return s.mutate(key, func(f *domain.Flat) (domain.FlatField, error) { return f.RemoveRefund(voucher) })
}

func (s *flatServiceStub) AddUncleared(_ context.Context, key domain.FlatKey, e domain.UnclearedEntry) (*domain.Flat, error) {
	return s.mutate(key, func(f *domain.Flat) (domain.FlatField, error) { return f.AddUncleared(e) })
}

func (s *flatServiceStub) ClearUncleared(_ context.Context, key domain.FlatKey, voucher string) (*domain.Flat, error) {
	return s.mutate(key, func(f *domain.Flat) (domain.FlatField, error) { return f.ClearUncleared(voucher) })
}

func (s *flatServiceStub) SetBillStatus(_ context.Context, key domain.FlatKey, billNumber string, status domain.BillStatus) (*domain.Flat, error) {
	return s.mutate(key, func(f *domain.Flat) (domain.FlatField, error) { return f.SetBillStatus(billNumber, status) })
}

func (s *flatServiceStub) AddVehicle(_ context.Context, key domain.FlatKey, v domain.Vehicle) (*domain.Flat, error) {
	return s.mutate(key, func(f *domain.Flat) (domain.FlatField, error) { return f.AddVehicle(v) })
}

func (s *flatServiceStub) RemoveVehicle(_ context.Context, key domain.FlatKey, number string) (*domain.Flat, error) {
	return s.mutate(key, func(f *domain.Flat) (domain.FlatField, error) { return f.RemoveVehicle(number) })
}

type statementServiceStub struct {
	composeFn func(ctx context.Context, key domain.FlatKey) (*domain.Statement, error)
}

func (s *statementServiceStub) Compose(ctx context.Context, key domain.FlatKey) (*domain.Statement, error) {
	return s.composeFn(ctx, key)
}
