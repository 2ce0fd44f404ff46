package domain

import "errors"

var (
	// Lookup errors
	ErrNotFound        = errors.New("not found")
	ErrSocietyNotFound = errors.New("society not found")
	ErrFlatNotFound    = errors.New("flat not found")
	ErrBillNotFound    = errors.New("bill not found")
	ErrEntryNotFound   = errors.New("entry not found")

	// Store boundary errors
	ErrMalformedRecord = errors.New("malformed record")
	ErrVersionConflict = errors.New("record was modified concurrently")
	ErrRemoteFailure   = errors.New("document store unavailable")

	// Transaction errors
	ErrSameAccount     = errors.New("paid from and paid to must differ")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrMissingAccount  = errors.New("paid from and paid to are required")
	ErrInvalidTxType   = errors.New("invalid transaction type")
	ErrDuplicateBill   = errors.New("bill number already exists")
	ErrLayoutCollision = errors.New("layout produced a duplicate flat number")
)

// IsNotFound reports whether err is one of the lookup errors.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrSocietyNotFound) ||
		errors.Is(err, ErrFlatNotFound) ||
		errors.Is(err, ErrBillNotFound) ||
		errors.Is(err, ErrEntryNotFound)
}
