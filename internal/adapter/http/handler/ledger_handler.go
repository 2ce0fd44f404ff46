package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/societyledger/internal/adapter/http/dto"
	"github.com/iho/societyledger/internal/usecase"
)

// LedgerHandler serves the catalog and the derived reports.
type LedgerHandler struct {
	ledger LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledger LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// Groups lists the ledger group catalog.
func (h *LedgerHandler) Groups(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.GroupsFromDomain(h.ledger.Groups()))
}

// Balances returns every account balance of a society.
func (h *LedgerHandler) Balances(w http.ResponseWriter, r *http.Request) {
	society := chi.URLParam(r, "society")

	balances, err := h.ledger.Balances(r.Context(), society)
	if err != nil {
		respondError(w, r, "failed to load balances", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalancesFromDomain(society, balances))
}

// BalanceSheet returns the liabilities and assets report.
func (h *LedgerHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	sheet, err := h.ledger.BalanceSheet(r.Context(), chi.URLParam(r, "society"))
	if err != nil {
		respondError(w, r, "failed to build balance sheet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSheetFromDomain(sheet))
}

// IncomeExpenditure returns the income and expenditure report.
func (h *LedgerHandler) IncomeExpenditure(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.IncomeExpenditure(r.Context(), chi.URLParam(r, "society"))
	if err != nil {
		respondError(w, r, "failed to build income and expenditure", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeExpenditureFromDomain(report))
}

// CheckConsistency checks that the society's vouchers close to zero.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	report, err := h.ledger.CheckConsistency(r.Context(), chi.URLParam(r, "society"))
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) && report != nil {
			writeJSON(w, http.StatusConflict, dto.ConsistencyFromDomain(report))
			return
		}
		respondError(w, r, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ConsistencyFromDomain(report))
}
