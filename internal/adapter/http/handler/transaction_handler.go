package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/societyledger/internal/adapter/http/dto"
)

// TransactionHandler handles voucher requests.
type TransactionHandler struct {
	transactions TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(transactions TransactionService) *TransactionHandler {
	return &TransactionHandler{transactions: transactions}
}

// Record posts a new voucher.
func (h *TransactionHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req dto.RecordTransactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	input, err := req.ToUseCaseInput(chi.URLParam(r, "society"))
	if err != nil {
		respondError(w, r, "invalid transaction", err)
		return
	}

	tx, err := h.transactions.Record(r.Context(), input)
	if err != nil {
		respondError(w, r, "failed to record transaction", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TransactionFromDomain(tx))
}

// List returns a page of the society's vouchers.
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := parseIntQuery(r, "limit", 50)
	offset := parseIntQuery(r, "offset", 0)

	txs, err := h.transactions.List(r.Context(), chi.URLParam(r, "society"), limit, offset)
	if err != nil {
		respondError(w, r, "failed to list transactions", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TransactionsFromDomain(txs))
}
