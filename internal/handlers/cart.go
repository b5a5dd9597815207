package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"gulf-float-booking/internal/models"
	"gulf-float-booking/internal/services"
)

// CartHandler handles the cart CRUD and checkout endpoints.
type CartHandler struct {
	carts     *services.CartService
	checkout  *services.CheckoutService
	validator *validator.Validate
	baseURL   string
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *services.CartService, checkout *services.CheckoutService, v *validator.Validate, baseURL string) *CartHandler {
	return &CartHandler{
		carts:     carts,
		checkout:  checkout,
		validator: v,
		baseURL:   baseURL,
	}
}

// Create allocates a new empty cart.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	cart := h.carts.Create()
	writeJSON(w, http.StatusCreated, cart)
}

// Get returns the cart for the id in the URL.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	cart, err := h.carts.Get(chi.URLParam(r, "cartID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// AddItem appends a line item to the cart.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req services.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cart, err := h.carts.AddItem(chi.URLParam(r, "cartID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// UpdateItem changes an item's quantity; zero or less removes it.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeBadRequest(w, "invalid item index")
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cart, err := h.carts.UpdateQuantity(chi.URLParam(r, "cartID"), index, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// RemoveItem deletes the item at the index in the URL.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeBadRequest(w, "invalid item index")
		return
	}

	cart, err := h.carts.RemoveItem(chi.URLParam(r, "cartID"), index)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// SetCustomer merges partial customer info into the cart.
func (h *CartHandler) SetCustomer(w http.ResponseWriter, r *http.Request) {
	var info models.CustomerInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	cart, err := h.carts.SetCustomerInfo(chi.URLParam(r, "cartID"), info)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cart)
}

// Checkout converts the cart into a booking and dispatches payment.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req services.CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	if req.SuccessURL == "" {
		req.SuccessURL = h.baseURL + "/booking-success?session_id={CHECKOUT_SESSION_ID}"
	}
	if req.CancelURL == "" {
		req.CancelURL = h.baseURL + "/cart"
	}

	result, err := h.checkout.Checkout(r.Context(), chi.URLParam(r, "cartID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
