package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateAccountName(t *testing.T) {
	t.Parallel()

	t.Run("valid name", func(t *testing.T) {
		if err := ValidateAccountName("Maintenance Collection"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("empty name rejected", func(t *testing.T) {
		err := ValidateAccountName("   ")
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("expected error to be a validation error, got %v", err)
		}
	})

	t.Run("name too long", func(t *testing.T) {
		tooLong := strings.Repeat("a", MaxAccountNameLength+1)
		err := ValidateAccountName(tooLong)
		if !errors.Is(err, ErrInvalidAccountName) {
			t.Fatalf("expected ErrInvalidAccountName, got %v", err)
		}
	})
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	valid := decimal.NewFromFloat(100.25)
	if err := ValidateAmount(valid); err != nil {
		t.Fatalf("expected valid amount, got %v", err)
	}

	if err := ValidateAmount(decimal.Zero); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount for zero, got %v", err)
	}

	if err := ValidateAmount(decimal.RequireFromString("0.001")); !errors.Is(err, ErrAmountTooSmall) {
		t.Fatalf("expected ErrAmountTooSmall, got %v", err)
	}

	if err := ValidateAmount(decimal.RequireFromString("1000000000001")); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("expected ErrAmountTooLarge, got %v", err)
	}
}

func TestParsePositiveInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{raw: "3", want: 3},
		{raw: " 12 ", want: 12},
		{raw: "0", wantErr: true},
		{raw: "-2", wantErr: true},
		{raw: "three", wantErr: true},
		{raw: "", wantErr: true},
		{raw: "500", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePositiveInt("floors", tt.raw, MaxFloors)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidCount) {
				t.Fatalf("ParsePositiveInt(%q): expected ErrInvalidCount, got %v", tt.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePositiveInt(%q): unexpected error %v", tt.raw, err)
		}
		if got != tt.want {
			t.Fatalf("ParsePositiveInt(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestValidatePagination(t *testing.T) {
	t.Parallel()

	limit, offset := ValidatePagination(0, -5)
	if limit != 50 || offset != 0 {
		t.Fatalf("expected defaults (50,0), got (%d,%d)", limit, offset)
	}

	limit, offset = ValidatePagination(5000, 10)
	if limit != 1000 || offset != 10 {
		t.Fatalf("expected capped limit 1000 and offset 10, got (%d,%d)", limit, offset)
	}
}
