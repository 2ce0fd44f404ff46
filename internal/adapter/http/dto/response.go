package dto

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/societyledger/internal/domain"
	"github.com/iho/societyledger/internal/usecase"
)

// TransactionResponse represents a voucher in API responses.
type TransactionResponse struct {
	ID            string          `json:"id"`
	Society       string          `json:"society"`
	Date          time.Time       `json:"date"`
	PaidFrom      string          `json:"paid_from"`
	PaidTo        string          `json:"paid_to"`
	Type          string          `json:"type"`
	VoucherNumber string          `json:"voucher_number"`
	Narration     string          `json:"narration,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// TransactionFromDomain converts a domain transaction to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:            t.ID,
		Society:       t.Society,
		Date:          t.Date,
		PaidFrom:      t.PaidFrom,
		PaidTo:        t.PaidTo,
		Type:          string(t.Type),
		VoucherNumber: t.VoucherNumber,
		Narration:     t.Narration,
		Amount:        t.Amount,
		CreatedAt:     t.CreatedAt,
	}
}

// TransactionsFromDomain converts domain transactions to responses.
func TransactionsFromDomain(txs []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(txs))
	for i, t := range txs {
		result[i] = TransactionFromDomain(t)
	}
	return result
}

// LedgerGroupResponse is a catalog group.
type LedgerGroupResponse struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Accounts []string `json:"accounts"`
}

// GroupsFromDomain converts catalog groups to responses.
func GroupsFromDomain(groups []domain.LedgerGroup) []LedgerGroupResponse {
	result := make([]LedgerGroupResponse, len(groups))
	for i, g := range groups {
		accounts := g.Accounts
		if accounts == nil {
			accounts = []string{}
		}
		result[i] = LedgerGroupResponse{Name: g.Name, Category: string(g.Category), Accounts: accounts}
	}
	return result
}

// AccountBalanceResponse is one account and its balance.
type AccountBalanceResponse struct {
	Account string          `json:"account"`
	Balance decimal.Decimal `json:"balance"`
}

// BalancesResponse lists every account balance of a society, sorted by account.
type BalancesResponse struct {
	Society  string                   `json:"society"`
	Accounts []AccountBalanceResponse `json:"accounts"`
	Total    decimal.Decimal          `json:"total"`
}

// BalancesFromDomain converts balances to a stable response.
func BalancesFromDomain(society string, b domain.Balances) *BalancesResponse {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := &BalancesResponse{Society: society, Accounts: make([]AccountBalanceResponse, len(names)), Total: b.Total()}
	for i, name := range names {
		resp.Accounts[i] = AccountBalanceResponse{Account: name, Balance: b[name]}
	}
	return resp
}

// GroupTotalResponse is one group of a report section.
type GroupTotalResponse struct {
	Name     string                   `json:"name"`
	Accounts []AccountBalanceResponse `json:"accounts"`
	Total    decimal.Decimal          `json:"total"`
}

// SectionResponse is one side of a report.
type SectionResponse struct {
	Category string               `json:"category"`
	Groups   []GroupTotalResponse `json:"groups"`
	Total    decimal.Decimal      `json:"total"`
}

// BalanceSheetResponse represents the balance sheet.
type BalanceSheetResponse struct {
	Liabilities  SectionResponse          `json:"liabilities"`
	Assets       SectionResponse          `json:"assets"`
	Unclassified []AccountBalanceResponse `json:"unclassified"`
}

// IncomeExpenditureResponse represents the income and expenditure account.
type IncomeExpenditureResponse struct {
	Income       SectionResponse          `json:"income"`
	Expenditure  SectionResponse          `json:"expenditure"`
	Surplus      decimal.Decimal          `json:"surplus"`
	Unclassified []AccountBalanceResponse `json:"unclassified"`
}

// BalanceSheetFromDomain converts a balance sheet to response.
func BalanceSheetFromDomain(s *domain.BalanceSheet) *BalanceSheetResponse {
	return &BalanceSheetResponse{
		Liabilities:  sectionFromDomain(s.Liabilities),
		Assets:       sectionFromDomain(s.Assets),
		Unclassified: accountsFromDomain(s.Unclassified),
	}
}

// IncomeExpenditureFromDomain converts an income and expenditure report to response.
func IncomeExpenditureFromDomain(ie *domain.IncomeExpenditure) *IncomeExpenditureResponse {
	return &IncomeExpenditureResponse{
		Income:       sectionFromDomain(ie.Income),
		Expenditure:  sectionFromDomain(ie.Expenditure),
		Surplus:      ie.Surplus,
		Unclassified: accountsFromDomain(ie.Unclassified),
	}
}

func sectionFromDomain(s domain.Section) SectionResponse {
	resp := SectionResponse{Category: string(s.Category), Groups: make([]GroupTotalResponse, len(s.Groups)), Total: s.Total}
	for i, g := range s.Groups {
		resp.Groups[i] = GroupTotalResponse{Name: g.Name, Accounts: accountsFromDomain(g.Accounts), Total: g.Total}
	}
	return resp
}

func accountsFromDomain(lines []domain.AccountBalance) []AccountBalanceResponse {
	result := make([]AccountBalanceResponse, len(lines))
	for i, l := range lines {
		result[i] = AccountBalanceResponse{Account: l.Account, Balance: l.Balance}
	}
	return result
}

// ConsistencyResponse reports the double-entry closure check.
type ConsistencyResponse struct {
	Balanced   bool            `json:"balanced"`
	Total      decimal.Decimal `json:"total"`
	Incomplete []string        `json:"incomplete_transactions"`
}

// ConsistencyFromDomain converts a closure report to response.
func ConsistencyFromDomain(r *domain.ClosureReport) *ConsistencyResponse {
	incomplete := r.Incomplete
	if incomplete == nil {
		incomplete = []string{}
	}
	return &ConsistencyResponse{Balanced: r.Balanced, Total: r.Total, Incomplete: incomplete}
}

// BillResponse represents a bill definition.
type BillResponse struct {
	Society       string          `json:"society"`
	BillNumber    string          `json:"bill_number"`
	Name          string          `json:"name"`
	StartDate     time.Time       `json:"start_date"`
	DueDate       *time.Time      `json:"due_date,omitempty"`
	DefaultAmount decimal.Decimal `json:"default_amount"`
}

// BillFromDomain converts a domain bill to response.
func BillFromDomain(b *domain.Bill) *BillResponse {
	resp := &BillResponse{
		Society:       b.Society,
		BillNumber:    b.BillNumber,
		Name:          b.Name,
		StartDate:     b.StartDate,
		DefaultAmount: b.DefaultAmount,
	}
	if !b.DueDate.IsZero() {
		due := b.DueDate
		resp.DueDate = &due
	}
	return resp
}

// BillsFromDomain converts domain bills to responses.
func BillsFromDomain(bills []*domain.Bill) []*BillResponse {
	result := make([]*BillResponse, len(bills))
	for i, b := range bills {
		result[i] = BillFromDomain(b)
	}
	return result
}

// ApplyBillResponse reports a bill applied to a wing.
type ApplyBillResponse struct {
	Bill    *BillResponse `json:"bill"`
	Applied int           `json:"applied"`
}

// ApplyBillFromResult converts the use case result to response.
func ApplyBillFromResult(r *usecase.ApplyBillResult) *ApplyBillResponse {
	return &ApplyBillResponse{Bill: BillFromDomain(r.Bill), Applied: r.Applied}
}

// LayoutFormatResponse describes a numbering scheme.
type LayoutFormatResponse struct {
	Type    string `json:"type"`
	Label   string `json:"label"`
	Example string `json:"example"`
}

// FormatsFromDomain converts layout formats to responses.
func FormatsFromDomain(formats []domain.LayoutFormat) []LayoutFormatResponse {
	result := make([]LayoutFormatResponse, len(formats))
	for i, f := range formats {
		result[i] = LayoutFormatResponse{Type: string(f.Type), Label: f.Label, Example: f.Example}
	}
	return result
}

// FloorResponse is one floor of a layout.
type FloorResponse struct {
	Floor string   `json:"floor"`
	Label string   `json:"label"`
	Flats []string `json:"flats"`
}

// LayoutResponse represents a generated wing layout.
type LayoutResponse struct {
	Format   LayoutFormatResponse `json:"format"`
	Floors   []FloorResponse      `json:"floors"`
	Sequence []string             `json:"sequence"`
	Count    int                  `json:"count"`
}

// LayoutFromDomain converts a layout to response.
func LayoutFromDomain(l *domain.Layout) *LayoutResponse {
	resp := &LayoutResponse{
		Format:   FormatsFromDomain([]domain.LayoutFormat{l.Format})[0],
		Floors:   make([]FloorResponse, len(l.Floors)),
		Sequence: l.Sequence,
		Count:    l.FlatCount(),
	}
	for i, f := range l.Floors {
		resp.Floors[i] = FloorResponse{Floor: f.Floor, Label: f.Label, Flats: f.Flats}
	}
	return resp
}

// BillChargeResponse is a bill charged to a flat.
type BillChargeResponse struct {
	BillNumber string          `json:"bill_number"`
	Amount     decimal.Decimal `json:"amount"`
	Status     string          `json:"status"`
}

// PaymentResponse is an advance, refund or uncleared entry.
type PaymentResponse struct {
	PaymentDate   time.Time       `json:"payment_date"`
	VoucherNumber string          `json:"voucher_number"`
	Status        string          `json:"status,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}

// VehicleResponse is a registered vehicle.
type VehicleResponse struct {
	Number string `json:"number"`
	Type   string `json:"type"`
	Model  string `json:"model,omitempty"`
	Owner  string `json:"owner,omitempty"`
}

// FlatResponse represents a flat record.
type FlatResponse struct {
	Society   string               `json:"society"`
	Wing      string               `json:"wing"`
	Floor     string               `json:"floor"`
	Flat      string               `json:"flat"`
	Owner     string               `json:"owner,omitempty"`
	Bills     []BillChargeResponse `json:"bills"`
	Advances  []PaymentResponse    `json:"advances"`
	Refunds   []PaymentResponse    `json:"refunds"`
	Uncleared []PaymentResponse    `json:"uncleared"`
	Vehicles  []VehicleResponse    `json:"vehicles"`
	Version   int64                `json:"version"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// FlatFromDomain converts a flat to response. Map-backed fields are sorted by key.
func FlatFromDomain(f *domain.Flat) *FlatResponse {
	resp := &FlatResponse{
		Society:   f.Key.Society,
		Wing:      f.Key.Wing,
		Floor:     f.Key.Floor,
		Flat:      f.Key.Flat,
		Owner:     f.Owner,
		Bills:     make([]BillChargeResponse, 0, len(f.Bills)),
		Advances:  make([]PaymentResponse, len(f.Advances)),
		Refunds:   make([]PaymentResponse, len(f.Refunds)),
		Uncleared: make([]PaymentResponse, len(f.Uncleared)),
		Vehicles:  make([]VehicleResponse, 0, len(f.Vehicles)),
		Version:   f.Version,
		UpdatedAt: f.UpdatedAt,
	}

	for number, c := range f.Bills {
		resp.Bills = append(resp.Bills, BillChargeResponse{BillNumber: number, Amount: c.Amount, Status: string(c.Status)})
	}
	sort.Slice(resp.Bills, func(i, j int) bool { return resp.Bills[i].BillNumber < resp.Bills[j].BillNumber })

	for i, a := range f.Advances {
		resp.Advances[i] = PaymentResponse{PaymentDate: a.PaymentDate, VoucherNumber: a.VoucherNumber, Amount: a.Amount}
	}
	for i, r := range f.Refunds {
		resp.Refunds[i] = PaymentResponse{PaymentDate: r.PaymentDate, VoucherNumber: r.VoucherNumber, Amount: r.Amount}
	}
	for i, u := range f.Uncleared {
		resp.Uncleared[i] = PaymentResponse{PaymentDate: u.PaymentDate, VoucherNumber: u.VoucherNumber, Status: string(u.Status), Amount: u.Amount}
	}

	for _, v := range f.Vehicles {
		resp.Vehicles = append(resp.Vehicles, VehicleResponse{Number: v.Number, Type: v.Type, Model: v.Model, Owner: v.Owner})
	}
	sort.Slice(resp.Vehicles, func(i, j int) bool { return resp.Vehicles[i].Number < resp.Vehicles[j].Number })

	return resp
}

// StatementLineResponse is one statement line.
type StatementLineResponse struct {
	Date        time.Time       `json:"date"`
	Kind        string          `json:"kind"`
	Reference   string          `json:"reference"`
	Description string          `json:"description,omitempty"`
	Status      string          `json:"status,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// StatementResponse represents a flat statement.
type StatementResponse struct {
	Society       string                  `json:"society"`
	Wing          string                  `json:"wing"`
	Floor         string                  `json:"floor"`
	Flat          string                  `json:"flat"`
	Lines         []StatementLineResponse `json:"lines"`
	CreditBalance decimal.Decimal         `json:"credit_balance"`
	DebitBalance  decimal.Decimal         `json:"debit_balance"`
	TotalDue      decimal.Decimal         `json:"total_due"`
}

// StatementFromDomain converts a statement to response.
func StatementFromDomain(s *domain.Statement) *StatementResponse {
	resp := &StatementResponse{
		Society:       s.Key.Society,
		Wing:          s.Key.Wing,
		Floor:         s.Key.Floor,
		Flat:          s.Key.Flat,
		Lines:         make([]StatementLineResponse, len(s.Lines)),
		CreditBalance: s.CreditBalance,
		DebitBalance:  s.DebitBalance,
		TotalDue:      s.TotalDue,
	}
	for i, l := range s.Lines {
		resp.Lines[i] = StatementLineResponse{
			Date:        l.Date,
			Kind:        string(l.Kind),
			Reference:   l.Reference,
			Description: l.Description,
			Status:      l.Status,
			Amount:      l.Amount,
		}
	}
	return resp
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
