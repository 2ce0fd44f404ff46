package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/societyledger/internal/adapter/http/dto"
	"github.com/iho/societyledger/internal/domain"
)

// FlatHandler handles per-flat records and statements.
type FlatHandler struct {
	flats      FlatService
	statements StatementService
}

// NewFlatHandler creates a new FlatHandler.
func NewFlatHandler(flats FlatService, statements StatementService) *FlatHandler {
	return &FlatHandler{flats: flats, statements: statements}
}

// Get returns a flat record.
func (h *FlatHandler) Get(w http.ResponseWriter, r *http.Request) {
	flat, err := h.flats.Get(r.Context(), flatKey(r))
	if err != nil {
		respondError(w, r, "failed to get flat", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FlatFromDomain(flat))
}

// Statement composes the flat's account statement.
func (h *FlatHandler) Statement(w http.ResponseWriter, r *http.Request) {
	st, err := h.statements.Compose(r.Context(), flatKey(r))
	if err != nil {
		respondError(w, r, "failed to compose statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.StatementFromDomain(st))
}

// AddAdvance records an advance payment.
func (h *FlatHandler) AddAdvance(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	advance, err := req.ToAdvance()
	if err != nil {
		respondError(w, r, "invalid advance", err)
		return
	}

	h.respond(w, r, "failed to add advance")(h.flats.AddAdvance(r.Context(), flatKey(r), advance))
}

// AddRefund records a refund paid out to the flat.
func (h *FlatHandler) AddRefund(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	refund, err := req.ToRefund()
	if err != nil {
		respondError(w, r, "invalid refund", err)
		return
	}

	h.respond(w, r, "failed to add refund")(h.flats.AddRefund(r.Context(), flatKey(r), refund))
}

// RemoveRefund deletes a refund by voucher number.
func (h *FlatHandler) RemoveRefund(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "failed to remove refund")(h.flats.RemoveRefund(r.Context(), flatKey(r), chi.URLParam(r, "voucher")))
}

// AddUncleared records a payment that has not cleared yet.
func (h *FlatHandler) AddUncleared(w http.ResponseWriter, r *http.Request) {
	var req dto.PaymentRequest
	if !h.decode(w, r, &req) {
		return
	}

	entry, err := req.ToUncleared()
	if err != nil {
		respondError(w, r, "invalid uncleared entry", err)
		return
	}

	h.respond(w, r, "failed to add uncleared entry")(h.flats.AddUncleared(r.Context(), flatKey(r), entry))
}

// ClearUncleared marks a pending payment as cleared.
func (h *FlatHandler) ClearUncleared(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "failed to clear entry")(h.flats.ClearUncleared(r.Context(), flatKey(r), chi.URLParam(r, "voucher")))
}

// SetBillStatus marks one of the flat's bills paid or unpaid.
func (h *FlatHandler) SetBillStatus(w http.ResponseWriter, r *http.Request) {
	var req dto.BillStatusRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.respond(w, r, "failed to set bill status")(
		h.flats.SetBillStatus(r.Context(), flatKey(r), chi.URLParam(r, "billNumber"), domain.BillStatus(req.Status)),
	)
}

// AddVehicle registers a vehicle.
func (h *FlatHandler) AddVehicle(w http.ResponseWriter, r *http.Request) {
	var req dto.VehicleRequest
	if !h.decode(w, r, &req) {
		return
	}

	h.respond(w, r, "failed to add vehicle")(h.flats.AddVehicle(r.Context(), flatKey(r), req.ToDomain()))
}

// RemoveVehicle deregisters a vehicle by number.
func (h *FlatHandler) RemoveVehicle(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, "failed to remove vehicle")(h.flats.RemoveVehicle(r.Context(), flatKey(r), chi.URLParam(r, "number")))
}

func (h *FlatHandler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := decodeJSON(w, r, v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// respond writes the updated flat or maps the mutation error.
func (h *FlatHandler) respond(w http.ResponseWriter, r *http.Request, message string) func(*domain.Flat, error) {
	return func(flat *domain.Flat, err error) {
		if err != nil {
			respondError(w, r, message, err)
			return
		}
		writeJSON(w, http.StatusOK, dto.FlatFromDomain(flat))
	}
}
