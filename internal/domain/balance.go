package domain

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Balances maps an account name to its signed net amount.
type Balances map[string]decimal.Decimal

// Aggregate folds transactions into per-account balances: paidFrom is decremented and
// paidTo is incremented by the amount. The input is not modified.
func Aggregate(txs []*Transaction) Balances {
	b := make(Balances)
	for _, tx := range txs {
		b.Apply(tx)
	}
	return b
}

// Apply adds a single transaction to the balances.
func (b Balances) Apply(tx *Transaction) {
	if tx == nil {
		return
	}
	b[tx.PaidFrom] = b[tx.PaidFrom].Sub(tx.Amount)
	b[tx.PaidTo] = b[tx.PaidTo].Add(tx.Amount)
}

// Total sums every account balance. A closed ledger totals zero.
func (b Balances) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range b {
		total = total.Add(v)
	}
	return total
}

// Clone returns an independent copy.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Equal reports whether both maps hold the same non-zero balances.
func (b Balances) Equal(other Balances) bool {
	for k, v := range b {
		if !v.Equal(other[k]) {
			return false
		}
	}
	for k, v := range other {
		if !v.Equal(b[k]) {
			return false
		}
	}
	return true
}

// AccountBalance is a single reported account line.
type AccountBalance struct {
	Account string
	Balance decimal.Decimal
}

// GroupTotal is one ledger group in a report section.
type GroupTotal struct {
	Name     string
	Accounts []AccountBalance
	Total    decimal.Decimal
}

// Section is one side of a report.
type Section struct {
	Category Category
	Groups   []GroupTotal
	Total    decimal.Decimal
}

// BalanceSheet reports liabilities against assets.
type BalanceSheet struct {
	Liabilities  Section
	Assets       Section
	Unclassified []AccountBalance
}

// IncomeExpenditure reports income against expenditure for the same balances.
type IncomeExpenditure struct {
	Income       Section
	Expenditure  Section
	Surplus      decimal.Decimal
	Unclassified []AccountBalance
}

// BuildSection totals the groups of one category. Catalog accounts without any
// transaction are reported with a zero balance.
func BuildSection(catalog *Catalog, balances Balances, category Category) Section {
	section := Section{Category: category, Total: decimal.Zero}

	for _, g := range catalog.GroupsIn(category) {
		gt := GroupTotal{Name: g.Name, Total: decimal.Zero}
		for _, acc := range g.Accounts {
			bal := balances[acc]
			gt.Accounts = append(gt.Accounts, AccountBalance{Account: acc, Balance: bal})
			gt.Total = gt.Total.Add(bal)
		}
		section.Groups = append(section.Groups, gt)
		section.Total = section.Total.Add(gt.Total)
	}

	return section
}

// Unclassified lists accounts with a balance that no ledger group claims, sorted by name.
func Unclassified(catalog *Catalog, balances Balances) []AccountBalance {
	var out []AccountBalance
	for acc, bal := range balances {
		if _, ok := catalog.Classify(acc); ok {
			continue
		}
		out = append(out, AccountBalance{Account: acc, Balance: bal})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Account < out[j].Account })
	return out
}

// BuildBalanceSheet places balances on the liability and asset sides. Accounts absent
// from the catalog are excluded from both totals.
func BuildBalanceSheet(catalog *Catalog, balances Balances) BalanceSheet {
	return BalanceSheet{
		Liabilities:  BuildSection(catalog, balances, CategoryLiability),
		Assets:       BuildSection(catalog, balances, CategoryAsset),
		Unclassified: Unclassified(catalog, balances),
	}
}

// BuildIncomeExpenditure places balances on the income and expenditure sides.
func BuildIncomeExpenditure(catalog *Catalog, balances Balances) IncomeExpenditure {
	income := BuildSection(catalog, balances, CategoryIncome)
	expenditure := BuildSection(catalog, balances, CategoryExpenditure)

	return IncomeExpenditure{
		Income:       income,
		Expenditure:  expenditure,
		Surplus:      income.Total.Sub(expenditure.Total),
		Unclassified: Unclassified(catalog, balances),
	}
}

// ClosureReport is the result of the double-entry closure check.
type ClosureReport struct {
	Total      decimal.Decimal
	Balanced   bool
	Incomplete []string
}

// CheckClosure verifies that balances sum to zero and flags transactions missing an
// account on either side.
func CheckClosure(txs []*Transaction) ClosureReport {
	report := ClosureReport{Total: Aggregate(txs).Total()}

	for _, tx := range txs {
		if strings.TrimSpace(tx.PaidFrom) == "" || strings.TrimSpace(tx.PaidTo) == "" {
			report.Incomplete = append(report.Incomplete, tx.ID)
		}
	}

	report.Balanced = report.Total.IsZero() && len(report.Incomplete) == 0
	return report
}
