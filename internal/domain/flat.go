package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FlatKey addresses a flat inside a society.
type FlatKey struct {
	Society string
	Wing    string
	Floor   string
	Flat    string
}

// Validate checks that every component is present.
func (k FlatKey) Validate() error {
	if strings.TrimSpace(k.Society) == "" || strings.TrimSpace(k.Wing) == "" ||
		strings.TrimSpace(k.Floor) == "" || strings.TrimSpace(k.Flat) == "" {
		return ErrInvalidFlatKey
	}
	return nil
}

// ID is the document id of the flat.
func (k FlatKey) ID() string {
	return k.Society + "/" + k.Wing + "/" + k.Floor + "/" + k.Flat
}

// BillStatus is the payment state of a per-flat bill charge.
type BillStatus string

const (
	BillPaid   BillStatus = "paid"
	BillUnpaid BillStatus = "unpaid"
)

// IsValid checks if the status is paid or unpaid.
func (s BillStatus) IsValid() bool {
	return s == BillPaid || s == BillUnpaid
}

// BillCharge is the per-flat amount and status of a global bill.
type BillCharge struct {
	Amount decimal.Decimal
	Status BillStatus
}

// Advance is money a member paid ahead of billing.
type Advance struct {
	PaymentDate   time.Time
	VoucherNumber string
	Amount        decimal.Decimal
}

// Refund is money returned to a member.
type Refund struct {
	PaymentDate   time.Time
	VoucherNumber string
	Amount        decimal.Decimal
}

// UnclearedStatus tracks a pending credit through the payment workflow.
type UnclearedStatus string

const (
	UnclearedPending UnclearedStatus = "Pending"
	UnclearedCleared UnclearedStatus = "Cleared"
)

// UnclearedEntry is a credit not yet confirmed as settled.
type UnclearedEntry struct {
	PaymentDate   time.Time
	VoucherNumber string
	Status        UnclearedStatus
	Amount        decimal.Decimal
}

// Vehicle is a vehicle registered to a flat.
type Vehicle struct {
	Number string
	Type   string
	Model  string
	Owner  string
}

// FlatField names a top-level field of the flat record so updates can be issued per field.
type FlatField string

const (
	FieldOwner     FlatField = "owner"
	FieldBills     FlatField = "bills"
	FieldAdvances  FlatField = "advances"
	FieldRefunds   FlatField = "refunds"
	FieldUncleared FlatField = "uncleared"
	FieldVehicles  FlatField = "vehicles"
)

// Flat is a single unit with its nested financial records.
type Flat struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Key       FlatKey
	Owner     string
	Bills     map[string]BillCharge
	Vehicles  map[string]Vehicle
	Advances  []Advance
	Refunds   []Refund
	Uncleared []UnclearedEntry
	Version   int64
}

// NewFlat returns the default record for a freshly laid out flat.
func NewFlat(key FlatKey, now time.Time) *Flat {
	return &Flat{
		Key:       key,
		Bills:     make(map[string]BillCharge),
		Vehicles:  make(map[string]Vehicle),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddAdvance records an advance payment.
func (f *Flat) AddAdvance(a Advance) (FlatField, error) {
	if err := validateEntry(a.VoucherNumber, a.Amount); err != nil {
		return "", err
	}
	f.Advances = append(f.Advances, a)
	return FieldAdvances, nil
}

// AddRefund records a refund.
func (f *Flat) AddRefund(r Refund) (FlatField, error) {
	if err := validateEntry(r.VoucherNumber, r.Amount); err != nil {
		return "", err
	}
	f.Refunds = append(f.Refunds, r)
	return FieldRefunds, nil
}

// RemoveRefund deletes the refund with the given voucher number.
func (f *Flat) RemoveRefund(voucher string) (FlatField, error) {
	for i, r := range f.Refunds {
		if r.VoucherNumber == voucher {
			f.Refunds = append(f.Refunds[:i:i], f.Refunds[i+1:]...)
			return FieldRefunds, nil
		}
	}
	return "", fmt.Errorf("%w: refund %s", ErrEntryNotFound, voucher)
}

// AddUncleared records a pending credit.
func (f *Flat) AddUncleared(e UnclearedEntry) (FlatField, error) {
	if err := validateEntry(e.VoucherNumber, e.Amount); err != nil {
		return "", err
	}
	e.Status = UnclearedPending
	f.Uncleared = append(f.Uncleared, e)
	return FieldUncleared, nil
}

// ClearUncleared marks a pending credit as cleared.
func (f *Flat) ClearUncleared(voucher string) (FlatField, error) {
	for i := range f.Uncleared {
		if f.Uncleared[i].VoucherNumber == voucher {
			f.Uncleared[i].Status = UnclearedCleared
			return FieldUncleared, nil
		}
	}
	return "", fmt.Errorf("%w: uncleared entry %s", ErrEntryNotFound, voucher)
}

// SetBillCharge applies a global bill to this flat. A new charge starts unpaid;
// re-applying a bill updates the amount and keeps the recorded status.
func (f *Flat) SetBillCharge(billNumber string, amount decimal.Decimal) (FlatField, error) {
	if strings.TrimSpace(billNumber) == "" {
		return "", ErrInvalidBillNumber
	}
	if amount.IsNegative() {
		return "", ErrInvalidAmount
	}
	if f.Bills == nil {
		f.Bills = make(map[string]BillCharge)
	}
	status := BillUnpaid
	if existing, ok := f.Bills[billNumber]; ok {
		status = existing.Status
	}
	f.Bills[billNumber] = BillCharge{Amount: amount, Status: status}
	return FieldBills, nil
}

// SetBillStatus marks an applied bill as paid or unpaid.
func (f *Flat) SetBillStatus(billNumber string, status BillStatus) (FlatField, error) {
	if !status.IsValid() {
		return "", ErrInvalidBillStatus
	}
	charge, ok := f.Bills[billNumber]
	if !ok {
		return "", fmt.Errorf("%w: %s not applied to flat %s", ErrBillNotFound, billNumber, f.Key.Flat)
	}
	charge.Status = status
	f.Bills[billNumber] = charge
	return FieldBills, nil
}

// AddVehicle registers or replaces a vehicle by number.
func (f *Flat) AddVehicle(v Vehicle) (FlatField, error) {
	v.Number = strings.ToUpper(strings.TrimSpace(v.Number))
	if v.Number == "" {
		return "", fmt.Errorf("%w: vehicle number is required", ErrValidation)
	}
	if f.Vehicles == nil {
		f.Vehicles = make(map[string]Vehicle)
	}
	f.Vehicles[v.Number] = v
	return FieldVehicles, nil
}

// RemoveVehicle deletes a vehicle by number.
func (f *Flat) RemoveVehicle(number string) (FlatField, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	if _, ok := f.Vehicles[number]; !ok {
		return "", fmt.Errorf("%w: vehicle %s", ErrEntryNotFound, number)
	}
	delete(f.Vehicles, number)
	return FieldVehicles, nil
}

func validateEntry(voucher string, amount decimal.Decimal) error {
	if strings.TrimSpace(voucher) == "" {
		return ErrInvalidVoucher
	}
	return ValidateAmount(amount)
}
