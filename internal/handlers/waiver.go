package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"gulf-float-booking/internal/services"
)

// WaiverHandler handles waiver signing and the admin waiver list.
type WaiverHandler struct {
	waivers   *services.WaiverService
	validator *validator.Validate
}

// NewWaiverHandler creates a new waiver handler.
func NewWaiverHandler(waivers *services.WaiverService, v *validator.Validate) *WaiverHandler {
	return &WaiverHandler{waivers: waivers, validator: v}
}

// Submit signs a waiver for a cart.
func (h *WaiverHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var sub services.WaiverSubmission
	if err := json.NewDecoder(r.Body).Decode(&sub); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(sub); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	waiver, err := h.waivers.Submit(r.Context(), sub)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, waiver)
}

type waiverStatusResponse struct {
	CartID   string `json:"cart_id"`
	Complete bool   `json:"complete"`
}

// Status reports whether the waiver gate is open for a cart.
func (h *WaiverHandler) Status(w http.ResponseWriter, r *http.Request) {
	cartID := chi.URLParam(r, "cartID")

	complete, err := h.waivers.IsComplete(r.Context(), cartID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, waiverStatusResponse{CartID: cartID, Complete: complete})
}

// List returns signed waivers for the admin view.
func (h *WaiverHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	waivers, err := h.waivers.List(r.Context(), limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"waivers": waivers})
}
