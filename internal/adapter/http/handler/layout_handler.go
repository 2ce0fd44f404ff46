package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/societyledger/internal/adapter/http/dto"
)

// LayoutHandler handles unit layout generation.
type LayoutHandler struct {
	layouts LayoutService
}

// NewLayoutHandler creates a new LayoutHandler.
func NewLayoutHandler(layouts LayoutService) *LayoutHandler {
	return &LayoutHandler{layouts: layouts}
}

// Formats lists the supported numbering schemes.
func (h *LayoutHandler) Formats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.FormatsFromDomain(h.layouts.Formats()))
}

// Preview generates a layout without storing it.
func (h *LayoutHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req dto.LayoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	layout, err := h.layouts.Preview(req.ToUseCaseInput())
	if err != nil {
		respondError(w, r, "failed to generate layout", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.LayoutFromDomain(layout))
}

// Apply generates a layout and creates a flat record per unit.
func (h *LayoutHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req dto.LayoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	layout, err := h.layouts.Apply(r.Context(), chi.URLParam(r, "society"), chi.URLParam(r, "wing"), req.ToUseCaseInput())
	if err != nil {
		respondError(w, r, "failed to apply layout", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.LayoutFromDomain(layout))
}
