package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/societyledger/internal/domain"
)

func TestBalancesFromDomain_SortsAccounts(t *testing.T) {
	resp := BalancesFromDomain("greenview", domain.Balances{
		"Repairs": decimal.NewFromInt(250),
		"Bank":    decimal.NewFromInt(750),
		"Capital": decimal.NewFromInt(-1000),
	})

	if len(resp.Accounts) != 3 || resp.Accounts[0].Account != "Bank" || resp.Accounts[2].Account != "Repairs" {
		t.Fatalf("expected accounts sorted by name, got %+v", resp.Accounts)
	}

	if !resp.Total.IsZero() {
		t.Fatalf("expected zero total, got %s", resp.Total)
	}
}

func TestFlatFromDomain(t *testing.T) {
	key := domain.FlatKey{Society: "greenview", Wing: "A", Floor: "1", Flat: "101"}
	flat := domain.NewFlat(key, time.Now())
	flat.Bills["B-05"] = domain.BillCharge{Amount: decimal.NewFromInt(10), Status: domain.BillUnpaid}
	flat.Bills["B-04"] = domain.BillCharge{Amount: decimal.NewFromInt(20), Status: domain.BillPaid}
	flat.Vehicles["MH12"] = domain.Vehicle{Number: "MH12", Type: "Car"}

	resp := FlatFromDomain(flat)

	if resp.Bills[0].BillNumber != "B-04" || resp.Bills[0].Status != "paid" {
		t.Fatalf("expected bills sorted by number, got %+v", resp.Bills)
	}

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	// empty collections render as [] rather than null
	if refunds, ok := decoded["refunds"].([]any); !ok || len(refunds) != 0 {
		t.Fatalf("expected empty refunds array, got %v", decoded["refunds"])
	}
}

func TestConsistencyFromDomain(t *testing.T) {
	resp := ConsistencyFromDomain(&domain.ClosureReport{Total: decimal.Zero, Balanced: true})

	raw, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if string(raw) != `{"balanced":true,"total":"0","incomplete_transactions":[]}` {
		t.Fatalf("unexpected body %s", raw)
	}
}

func TestBillFromDomain_OmitsZeroDueDate(t *testing.T) {
	resp := BillFromDomain(&domain.Bill{BillNumber: "B-04", StartDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)})
	if resp.DueDate != nil {
		t.Fatalf("expected no due date, got %v", resp.DueDate)
	}
}

func TestLayoutFromDomain_FloorKeyAndLabel(t *testing.T) {
	layout, err := domain.GenerateLayout("2", "1", "groundUnit", domain.LayoutFormats)
	if err != nil {
		t.Fatalf("generate layout: %v", err)
	}

	resp := LayoutFromDomain(layout)

	if len(resp.Floors) != 2 {
		t.Fatalf("expected 2 floors, got %+v", resp.Floors)
	}
	if resp.Floors[0].Floor != "G" || resp.Floors[0].Label != "Floor G" {
		t.Fatalf("expected floor key G labelled Floor G, got %+v", resp.Floors[0])
	}
	if resp.Floors[1].Floor != "1" || resp.Floors[1].Flats[0] != "101" {
		t.Fatalf("unexpected first floor %+v", resp.Floors[1])
	}
}
