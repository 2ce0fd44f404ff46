package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/societyledger/internal/domain"
	"github.com/iho/societyledger/internal/usecase"
)

// DateLayout is the calendar date format accepted next to RFC 3339 timestamps.
const DateLayout = "2006-01-02"

// RecordTransactionRequest represents a request to record a voucher.
type RecordTransactionRequest struct {
	Date          string `json:"date,omitempty"`
	PaidFrom      string `json:"paid_from"`
	PaidTo        string `json:"paid_to"`
	Type          string `json:"type"`
	VoucherNumber string `json:"voucher_number"`
	Narration     string `json:"narration,omitempty"`
	Amount        string `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *RecordTransactionRequest) ToUseCaseInput(society string) (usecase.RecordTransactionInput, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return usecase.RecordTransactionInput{}, err
	}

	input := usecase.RecordTransactionInput{
		Society:       society,
		PaidFrom:      r.PaidFrom,
		PaidTo:        r.PaidTo,
		Type:          domain.TransactionType(r.Type),
		VoucherNumber: r.VoucherNumber,
		Narration:     r.Narration,
		Amount:        amount,
	}

	if r.Date != "" {
		date, err := ParseDate(r.Date)
		if err != nil {
			return usecase.RecordTransactionInput{}, err
		}
		input.Date = &date
	}

	return input, nil
}

// CreateBillRequest represents a request to define a bill.
type CreateBillRequest struct {
	BillNumber    string `json:"bill_number"`
	Name          string `json:"name"`
	StartDate     string `json:"start_date"`
	DueDate       string `json:"due_date,omitempty"`
	DefaultAmount string `json:"default_amount,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateBillRequest) ToUseCaseInput(society string) (usecase.CreateBillInput, error) {
	input := usecase.CreateBillInput{
		Society:       society,
		BillNumber:    r.BillNumber,
		Name:          r.Name,
		DefaultAmount: decimal.Zero,
	}

	var err error
	if input.StartDate, err = ParseDate(r.StartDate); err != nil {
		return usecase.CreateBillInput{}, err
	}

	if r.DueDate != "" {
		if input.DueDate, err = ParseDate(r.DueDate); err != nil {
			return usecase.CreateBillInput{}, err
		}
	}

	if r.DefaultAmount != "" {
		if input.DefaultAmount, err = decimal.NewFromString(r.DefaultAmount); err != nil {
			return usecase.CreateBillInput{}, fmt.Errorf("%w: default_amount: %v", domain.ErrValidation, err)
		}
	}

	return input, nil
}

// ApplyBillRequest overrides the bill's default amount for one wing.
type ApplyBillRequest struct {
	Amount string `json:"amount,omitempty"`
}

// AmountOrZero parses the override, zero meaning "use the bill default".
func (r *ApplyBillRequest) AmountOrZero() (decimal.Decimal, error) {
	if r.Amount == "" {
		return decimal.Zero, nil
	}
	return parseAmount(r.Amount)
}

// LayoutRequest carries layout parameters. Counts are strings so the generator can
// report which field was not a number.
type LayoutRequest struct {
	TotalFloors   string `json:"total_floors"`
	UnitsPerFloor string `json:"units_per_floor"`
	Format        string `json:"format"`
}

// ToUseCaseInput converts to use case input.
func (r *LayoutRequest) ToUseCaseInput() usecase.LayoutInput {
	return usecase.LayoutInput{
		TotalFloors:   r.TotalFloors,
		UnitsPerFloor: r.UnitsPerFloor,
		Format:        r.Format,
	}
}

// PaymentRequest is an advance, refund or uncleared credit posted against a flat.
type PaymentRequest struct {
	PaymentDate   string `json:"payment_date,omitempty"`
	VoucherNumber string `json:"voucher_number"`
	Amount        string `json:"amount"`
}

func (r *PaymentRequest) parse() (time.Time, decimal.Decimal, error) {
	amount, err := parseAmount(r.Amount)
	if err != nil {
		return time.Time{}, decimal.Zero, err
	}

	date := time.Now().UTC()
	if r.PaymentDate != "" {
		if date, err = ParseDate(r.PaymentDate); err != nil {
			return time.Time{}, decimal.Zero, err
		}
	}

	return date, amount, nil
}

// ToAdvance converts the request to an advance.
func (r *PaymentRequest) ToAdvance() (domain.Advance, error) {
	date, amount, err := r.parse()
	if err != nil {
		return domain.Advance{}, err
	}
	return domain.Advance{PaymentDate: date, VoucherNumber: r.VoucherNumber, Amount: amount}, nil
}

// ToRefund converts the request to a refund.
func (r *PaymentRequest) ToRefund() (domain.Refund, error) {
	date, amount, err := r.parse()
	if err != nil {
		return domain.Refund{}, err
	}
	return domain.Refund{PaymentDate: date, VoucherNumber: r.VoucherNumber, Amount: amount}, nil
}

// ToUncleared converts the request to a pending uncleared entry.
func (r *PaymentRequest) ToUncleared() (domain.UnclearedEntry, error) {
	date, amount, err := r.parse()
	if err != nil {
		return domain.UnclearedEntry{}, err
	}
	return domain.UnclearedEntry{
		PaymentDate:   date,
		VoucherNumber: r.VoucherNumber,
		Status:        domain.UnclearedPending,
		Amount:        amount,
	}, nil
}

// BillStatusRequest sets a flat's bill to paid or unpaid.
type BillStatusRequest struct {
	Status string `json:"status"`
}

// VehicleRequest registers a vehicle to a flat.
type VehicleRequest struct {
	Number string `json:"number"`
	Type   string `json:"type"`
	Model  string `json:"model,omitempty"`
	Owner  string `json:"owner,omitempty"`
}

// ToDomain converts to a domain vehicle.
func (r *VehicleRequest) ToDomain() domain.Vehicle {
	return domain.Vehicle{
		Number: strings.TrimSpace(r.Number),
		Type:   strings.TrimSpace(r.Type),
		Model:  strings.TrimSpace(r.Model),
		Owner:  strings.TrimSpace(r.Owner),
	}
}

// ParseDate accepts a calendar date or an RFC 3339 timestamp and returns it in UTC.
func ParseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(DateLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD or RFC 3339", domain.ErrValidation, raw)
	}
	return t.UTC(), nil
}

func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q is not a number", domain.ErrInvalidAmount, raw)
	}
	return amount, nil
}
