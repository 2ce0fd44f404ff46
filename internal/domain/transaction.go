package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a voucher.
type TransactionType string

const (
	TransactionIncome   TransactionType = "Income"
	TransactionExpense  TransactionType = "Expense"
	TransactionTransfer TransactionType = "Transfer"
	TransactionReceipt  TransactionType = "Receipt"
)

// IsValid checks if the transaction type is known.
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionIncome, TransactionExpense, TransactionTransfer, TransactionReceipt:
		return true
	}
	return false
}

// Transaction is a single voucher moving an amount from one ledger account to another.
// Transactions are immutable once recorded.
type Transaction struct {
	Date          time.Time
	CreatedAt     time.Time
	ID            string
	Society       string
	PaidFrom      string
	PaidTo        string
	Type          TransactionType
	VoucherNumber string
	Narration     string
	Amount        decimal.Decimal
}

// Validate checks a transaction before it is recorded.
func (t *Transaction) Validate() error {
	if strings.TrimSpace(t.PaidFrom) == "" || strings.TrimSpace(t.PaidTo) == "" {
		return ErrMissingAccount
	}

	if t.PaidFrom == t.PaidTo {
		return ErrSameAccount
	}

	if err := ValidateAccountName(t.PaidFrom); err != nil {
		return err
	}

	if err := ValidateAccountName(t.PaidTo); err != nil {
		return err
	}

	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidTxType, t.Type)
	}

	return ValidateAmount(t.Amount)
}

// CheckStored validates a transaction read back from a store. Stored records are not
// re-validated against voucher rules, only for the fields aggregation depends on.
func (t *Transaction) CheckStored() error {
	if t.ID == "" {
		return fmt.Errorf("%w: transaction without id", ErrMalformedRecord)
	}

	if t.Amount.IsNegative() {
		return fmt.Errorf("%w: transaction %s has negative amount %s", ErrMalformedRecord, t.ID, t.Amount)
	}

	return nil
}
