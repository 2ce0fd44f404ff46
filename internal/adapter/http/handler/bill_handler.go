package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/societyledger/internal/adapter/http/dto"
)

// BillHandler handles bill definitions.
type BillHandler struct {
	bills BillService
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(bills BillService) *BillHandler {
	return &BillHandler{bills: bills}
}

// Create defines a new bill for the society.
func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBillRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "society"))
	if err != nil {
		respondError(w, r, "invalid bill", err)
		return
	}

	bill, err := h.bills.Create(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to create bill", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.BillFromDomain(bill))
}

// List returns the society's bills.
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	bills, err := h.bills.List(r.Context(), chi.URLParam(r, "society"))
	if err != nil {
		respondError(w, r, "failed to list bills", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BillsFromDomain(bills))
}

// Apply charges a bill to every flat of a wing. An empty body uses the bill's default amount.
func (h *BillHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.ApplyBillRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	amount, err := req.AmountOrZero()
	if err != nil {
		respondError(w, r, "invalid amount", err)
		return
	}

	result, err := h.bills.ApplyToWing(
		r.Context(),
		chi.URLParam(r, "society"),
		chi.URLParam(r, "wing"),
		chi.URLParam(r, "billNumber"),
		amount,
	)
	if err != nil {
		respondError(w, r, "failed to apply bill", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ApplyBillFromResult(result))
}
