package domain

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(id, from, to string, amount int64) *Transaction {
	return &Transaction{
		ID:       id,
		PaidFrom: from,
		PaidTo:   to,
		Amount:   decimal.NewFromInt(amount),
		Type:     TransactionTransfer,
	}
}

func TestAggregate_SingleTransfer(t *testing.T) {
	balances := Aggregate([]*Transaction{tx("t1", "Cash", "Bank", 100)})

	require.Len(t, balances, 2)
	assert.True(t, balances["Cash"].Equal(decimal.NewFromInt(-100)), "cash: %s", balances["Cash"])
	assert.True(t, balances["Bank"].Equal(decimal.NewFromInt(100)), "bank: %s", balances["Bank"])
}

func TestAggregate_SelfTransferNetsToZero(t *testing.T) {
	balances := Aggregate([]*Transaction{tx("t1", "Cash", "Cash", 75)})

	assert.True(t, balances["Cash"].IsZero())
}

func TestAggregate_Idempotent(t *testing.T) {
	txs := []*Transaction{
		tx("t1", "Capital", "Bank", 5000),
		tx("t2", "Bank", "Repairs", 1200),
		tx("t3", "Maintenance Charges", "Bank", 3000),
	}

	first := Aggregate(txs)
	second := Aggregate(txs)

	assert.True(t, first.Equal(second))
	assert.True(t, txs[0].Amount.Equal(decimal.NewFromInt(5000)), "input must not be modified")
}

func TestAggregate_ClosureOnSyntheticData(t *testing.T) {
	accounts := []string{"Cash", "Bank", "Repairs", "Capital", "Maintenance Charges", "Sinking Fund"}
	r := rand.New(rand.NewSource(42))

	var txs []*Transaction
	for i := 0; i < 500; i++ {
		from := accounts[r.Intn(len(accounts))]
		to := accounts[r.Intn(len(accounts))]
		amount := decimal.New(int64(r.Intn(1_000_000)+1), -2)
		txs = append(txs, &Transaction{ID: fmt.Sprintf("t%d", i), PaidFrom: from, PaidTo: to, Amount: amount})
	}

	report := CheckClosure(txs)
	assert.True(t, report.Total.IsZero(), "total: %s", report.Total)
	assert.True(t, report.Balanced)
	assert.Empty(t, report.Incomplete)
}

func TestCheckClosure_FlagsMissingAccounts(t *testing.T) {
	txs := []*Transaction{
		tx("ok", "Cash", "Bank", 10),
		tx("no-from", "", "Bank", 10),
		tx("no-to", "Cash", " ", 10),
	}

	report := CheckClosure(txs)

	assert.False(t, report.Balanced)
	assert.Equal(t, []string{"no-from", "no-to"}, report.Incomplete)
}

func TestBuildBalanceSheet(t *testing.T) {
	catalog, err := NewCatalog([]LedgerGroup{
		{Name: "Bank Accounts", Category: CategoryAsset, Accounts: []string{"Bank"}},
		{Name: "Cash-in-Hand", Category: CategoryAsset, Accounts: []string{"Cash"}},
		{Name: "Capital Account", Category: CategoryLiability, Accounts: []string{"Capital"}},
		{Name: "Maintenance Income", Category: CategoryIncome, Accounts: []string{"Maintenance Charges"}},
		{Name: "Maintenance Expenses", Category: CategoryExpenditure, Accounts: []string{"Repairs"}},
	})
	require.NoError(t, err)

	balances := Aggregate([]*Transaction{
		tx("t1", "Capital", "Bank", 5000),
		tx("t2", "Bank", "Cash", 500),
		tx("t3", "Maintenance Charges", "Bank", 3000),
		tx("t4", "Bank", "Repairs", 1200),
		tx("t5", "Bank", "Mystery Account", 100),
	})

	sheet := BuildBalanceSheet(catalog, balances)

	assert.True(t, sheet.Assets.Total.Equal(decimal.NewFromInt(6700)), "assets: %s", sheet.Assets.Total)
	assert.True(t, sheet.Liabilities.Total.Equal(decimal.NewFromInt(-5000)), "liabilities: %s", sheet.Liabilities.Total)
	require.Len(t, sheet.Assets.Groups, 2)
	assert.Equal(t, "Bank Accounts", sheet.Assets.Groups[0].Name)

	require.Len(t, sheet.Unclassified, 1)
	assert.Equal(t, "Mystery Account", sheet.Unclassified[0].Account)

	ie := BuildIncomeExpenditure(catalog, balances)
	assert.True(t, ie.Income.Total.Equal(decimal.NewFromInt(-3000)))
	assert.True(t, ie.Expenditure.Total.Equal(decimal.NewFromInt(1200)))
	assert.True(t, ie.Surplus.Equal(decimal.NewFromInt(-4200)))
}

func TestBuildSection_ReportsZeroForIdleAccounts(t *testing.T) {
	catalog := DefaultCatalog()

	section := BuildSection(catalog, Balances{}, CategoryAsset)

	assert.True(t, section.Total.IsZero())
	assert.NotEmpty(t, section.Groups)
	for _, g := range section.Groups {
		for _, acc := range g.Accounts {
			assert.True(t, acc.Balance.IsZero())
		}
	}
}

func TestBalances_Clone(t *testing.T) {
	original := Balances{"Cash": decimal.NewFromInt(10)}
	clone := original.Clone()
	clone["Cash"] = decimal.NewFromInt(20)

	assert.True(t, original["Cash"].Equal(decimal.NewFromInt(10)))
}
