package domain

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// StatementLineKind labels a statement line.
type StatementLineKind string

const (
	LineBill     StatementLineKind = "Bill"
	LineAddMoney StatementLineKind = "Add Money"
	LineRefund   StatementLineKind = "Refund"
	LineAdvance  StatementLineKind = "Advance"
)

// StatementLine is one entry in a flat's statement.
type StatementLine struct {
	Date        time.Time
	Kind        StatementLineKind
	Reference   string
	Description string
	Status      string
	Amount      decimal.Decimal
}

// Statement is the merged account history of a flat.
type Statement struct {
	Key           FlatKey
	Lines         []StatementLine
	CreditBalance decimal.Decimal
	DebitBalance  decimal.Decimal
	TotalDue      decimal.Decimal
}

// ComposeStatement merges the flat's bills, cleared credits, refunds and advances into one
// list ordered by date. Lines on the same date keep the order bills, add money, refunds,
// advances. Pending uncleared entries are left out.
//
//	credit = cleared credits + advances - refunds
//	debit  = every applied bill, paid or not
//	due    = unpaid applied bills
func ComposeStatement(flat *Flat, bills []*Bill) Statement {
	st := Statement{
		Key:           flat.Key,
		CreditBalance: decimal.Zero,
		DebitBalance:  decimal.Zero,
		TotalDue:      decimal.Zero,
	}

	for _, b := range bills {
		charge, ok := flat.Bills[b.BillNumber]
		if !ok {
			continue
		}
		st.Lines = append(st.Lines, StatementLine{
			Date:        b.StartDate,
			Kind:        LineBill,
			Reference:   b.BillNumber,
			Description: b.Name,
			Status:      string(charge.Status),
			Amount:      charge.Amount,
		})
		st.DebitBalance = st.DebitBalance.Add(charge.Amount)
		if charge.Status == BillUnpaid {
			st.TotalDue = st.TotalDue.Add(charge.Amount)
		}
	}

	for _, u := range flat.Uncleared {
		if u.Status != UnclearedCleared {
			continue
		}
		st.Lines = append(st.Lines, StatementLine{
			Date:      u.PaymentDate,
			Kind:      LineAddMoney,
			Reference: u.VoucherNumber,
			Status:    string(u.Status),
			Amount:    u.Amount,
		})
		st.CreditBalance = st.CreditBalance.Add(u.Amount)
	}

	for _, r := range flat.Refunds {
		st.Lines = append(st.Lines, StatementLine{
			Date:      r.PaymentDate,
			Kind:      LineRefund,
			Reference: r.VoucherNumber,
			Amount:    r.Amount,
		})
		st.CreditBalance = st.CreditBalance.Sub(r.Amount)
	}

	for _, a := range flat.Advances {
		st.Lines = append(st.Lines, StatementLine{
			Date:      a.PaymentDate,
			Kind:      LineAdvance,
			Reference: a.VoucherNumber,
			Amount:    a.Amount,
		})
		st.CreditBalance = st.CreditBalance.Add(a.Amount)
	}

	sort.SliceStable(st.Lines, func(i, j int) bool {
		return st.Lines[i].Date.Before(st.Lines[j].Date)
	})

	return st
}
