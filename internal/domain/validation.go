package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrValidation is the parent of every input validation error.
var ErrValidation = errors.New("validation failed")

// Validation errors
var (
	ErrInvalidAccountName = fmt.Errorf("%w: invalid account name", ErrValidation)
	ErrAmountTooLarge     = fmt.Errorf("%w: amount exceeds maximum allowed", ErrValidation)
	ErrAmountTooSmall     = fmt.Errorf("%w: amount below minimum allowed", ErrValidation)
	ErrInvalidCount       = fmt.Errorf("%w: count must be a positive integer", ErrValidation)
	ErrInvalidFormat      = fmt.Errorf("%w: unknown layout format", ErrValidation)
	ErrInvalidFlatKey     = fmt.Errorf("%w: society, wing, floor and flat are required", ErrValidation)
	ErrInvalidVoucher     = fmt.Errorf("%w: voucher number is required", ErrValidation)
	ErrInvalidBillStatus  = fmt.Errorf("%w: bill status must be paid or unpaid", ErrValidation)
	ErrInvalidBillNumber  = fmt.Errorf("%w: bill number is required", ErrValidation)
	ErrInvalidCatalog     = fmt.Errorf("%w: invalid ledger catalog", ErrValidation)
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MinAccountNameLength = 1
	MaxAmount            = "1000000000000" // 1 trillion
	MinAmount            = "0.01"
	MaxFloors            = 200
	MaxUnitsPerFloor     = 100
)

// ValidateAccountName validates a ledger account name.
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if len(name) < MinAccountNameLength {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAmount validates a voucher or charge amount.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrAmountTooSmall, MinAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrAmountTooLarge, MaxAmount)
	}

	return nil
}

// ParsePositiveInt parses a count typed by a user, such as the number of floors.
func ParsePositiveInt(field, raw string, limit int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %s=%q", ErrInvalidCount, field, raw)
	}

	if n > limit {
		return 0, fmt.Errorf("%w: %s exceeds %d", ErrInvalidCount, field, limit)
	}

	return n, nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
