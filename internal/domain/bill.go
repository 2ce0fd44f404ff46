package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Bill is a society-wide bill definition. Per-flat amounts and statuses live on the flat.
type Bill struct {
	StartDate     time.Time
	DueDate       time.Time
	CreatedAt     time.Time
	Society       string
	BillNumber    string
	Name          string
	DefaultAmount decimal.Decimal
}

// Validate validates a bill definition.
func (b *Bill) Validate() error {
	if strings.TrimSpace(b.BillNumber) == "" {
		return ErrInvalidBillNumber
	}

	if strings.TrimSpace(b.Name) == "" {
		return fmt.Errorf("%w: bill name is required", ErrValidation)
	}

	if b.StartDate.IsZero() {
		return fmt.Errorf("%w: bill start date is required", ErrValidation)
	}

	if !b.DueDate.IsZero() && b.DueDate.Before(b.StartDate) {
		return fmt.Errorf("%w: due date before start date", ErrValidation)
	}

	if b.DefaultAmount.IsNegative() {
		return ErrInvalidAmount
	}

	return nil
}
