package domain

import (
	"fmt"
	"sort"
	"strings"
)

// Category is the balance-sheet side a ledger group reports on.
type Category string

const (
	CategoryLiability   Category = "Liability"
	CategoryAsset       Category = "Asset"
	CategoryIncome      Category = "Income"
	CategoryExpenditure Category = "Expenditure"
)

// IsValid checks if the category is one of the four known buckets.
func (c Category) IsValid() bool {
	switch c {
	case CategoryLiability, CategoryAsset, CategoryIncome, CategoryExpenditure:
		return true
	}
	return false
}

// LedgerGroup buckets account names under one category.
type LedgerGroup struct {
	Name     string
	Category Category
	Accounts []string
}

// Placement is where a single account lands in the catalog.
type Placement struct {
	Group    string
	Category Category
}

// Catalog classifies account names into ledger groups. It is read-only after construction.
type Catalog struct {
	groups    []LedgerGroup
	byAccount map[string]Placement
}

// NewCatalog validates groups and builds the account index.
// An account may appear in at most one group since names are the account identity.
func NewCatalog(groups []LedgerGroup) (*Catalog, error) {
	c := &Catalog{
		groups:    make([]LedgerGroup, 0, len(groups)),
		byAccount: make(map[string]Placement),
	}

	seenGroups := make(map[string]bool, len(groups))
	for _, g := range groups {
		name := strings.TrimSpace(g.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: group without name", ErrInvalidCatalog)
		}
		if seenGroups[name] {
			return nil, fmt.Errorf("%w: duplicate group %q", ErrInvalidCatalog, name)
		}
		seenGroups[name] = true

		if !g.Category.IsValid() {
			return nil, fmt.Errorf("%w: group %q has unknown category %q", ErrInvalidCatalog, name, g.Category)
		}

		accounts := make([]string, 0, len(g.Accounts))
		for _, acc := range g.Accounts {
			acc = strings.TrimSpace(acc)
			if acc == "" {
				continue
			}
			if prev, ok := c.byAccount[acc]; ok {
				return nil, fmt.Errorf("%w: account %q listed in %q and %q", ErrInvalidCatalog, acc, prev.Group, name)
			}
			c.byAccount[acc] = Placement{Group: name, Category: g.Category}
			accounts = append(accounts, acc)
		}

		c.groups = append(c.groups, LedgerGroup{Name: name, Category: g.Category, Accounts: accounts})
	}

	return c, nil
}

// Classify returns the group and category of an account.
func (c *Catalog) Classify(account string) (Placement, bool) {
	p, ok := c.byAccount[account]
	return p, ok
}

// Groups returns a copy of the groups in catalog order.
func (c *Catalog) Groups() []LedgerGroup {
	out := make([]LedgerGroup, len(c.groups))
	for i, g := range c.groups {
		out[i] = LedgerGroup{Name: g.Name, Category: g.Category, Accounts: append([]string(nil), g.Accounts...)}
	}
	return out
}

// GroupsIn returns the groups of one category in catalog order.
func (c *Catalog) GroupsIn(category Category) []LedgerGroup {
	var out []LedgerGroup
	for _, g := range c.Groups() {
		if g.Category == category {
			out = append(out, g)
		}
	}
	return out
}

// Accounts returns every classified account name, sorted.
func (c *Catalog) Accounts() []string {
	out := make([]string, 0, len(c.byAccount))
	for acc := range c.byAccount {
		out = append(out, acc)
	}
	sort.Strings(out)
	return out
}

// DefaultLedgerGroups is the built-in society chart used when no catalog file is configured.
func DefaultLedgerGroups() []LedgerGroup {
	return []LedgerGroup{
		// Liabilities
		{Name: "Capital Account", Category: CategoryLiability, Accounts: []string{"Capital"}},
		{Name: "Reserves & Surplus", Category: CategoryLiability, Accounts: []string{"Sinking Fund", "Repair Fund"}},
		{Name: "Current Liabilities", Category: CategoryLiability, Accounts: []string{"Outstanding Expenses"}},
		{Name: "Loans (Liability)", Category: CategoryLiability, Accounts: []string{"Bank Loan"}},
		{Name: "Sundry Creditors", Category: CategoryLiability, Accounts: []string{"Vendors Payable"}},
		{Name: "Duties & Taxes", Category: CategoryLiability, Accounts: []string{"GST Payable", "TDS Payable"}},
		{Name: "Provisions", Category: CategoryLiability, Accounts: []string{"Audit Fee Provision"}},
		{Name: "Advances from Members", Category: CategoryLiability, Accounts: []string{"Member Advances"}},

		// Assets
		{Name: "Bank Accounts", Category: CategoryAsset, Accounts: []string{"Bank"}},
		{Name: "Cash-in-Hand", Category: CategoryAsset, Accounts: []string{"Cash"}},
		{Name: "Current Assets", Category: CategoryAsset, Accounts: []string{"Prepaid Expenses"}},
		{Name: "Fixed Assets", Category: CategoryAsset, Accounts: []string{"Building", "Lift", "Generator"}},
		{Name: "Investments", Category: CategoryAsset, Accounts: []string{"Fixed Deposit"}},
		{Name: "Deposits (Asset)", Category: CategoryAsset, Accounts: []string{"Electricity Deposit"}},
		{Name: "Sundry Debtors", Category: CategoryAsset, Accounts: []string{"Members Receivable"}},

		// Income
		{Name: "Maintenance Income", Category: CategoryIncome, Accounts: []string{"Maintenance Charges"}},
		{Name: "Indirect Income", Category: CategoryIncome, Accounts: []string{"Interest Received", "Parking Charges", "Hall Rent"}},

		// Expenditure
		{Name: "Maintenance Expenses", Category: CategoryExpenditure, Accounts: []string{"Repairs", "Housekeeping", "Security Charges"}},
		{Name: "Utility Expenses", Category: CategoryExpenditure, Accounts: []string{"Electricity Charges", "Water Charges"}},
		{Name: "Indirect Expenses", Category: CategoryExpenditure, Accounts: []string{"Bank Charges", "Audit Fees", "Office Expenses"}},
	}
}

// DefaultCatalog builds the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := NewCatalog(DefaultLedgerGroups())
	if err != nil {
		panic(err)
	}
	return c
}
