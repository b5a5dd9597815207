package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"gulf-float-booking/internal/models"
)

// errorResponse is the JSON error shape. The code gives clients a stable
// key for redirecting the user to the right remediation step.
type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// writeError maps domain errors onto HTTP statuses. Unknown errors are
// reported as 500 without leaking internals.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	code := ""
	message := err.Error()

	switch {
	case errors.Is(err, models.ErrCartNotFound):
		status, code = http.StatusNotFound, "cart_not_found"
	case errors.Is(err, models.ErrWaiverNotFound):
		status, code = http.StatusNotFound, "waiver_not_found"
	case errors.Is(err, models.ErrBookingNotFound):
		status, code = http.StatusNotFound, "booking_not_found"
	case errors.Is(err, models.ErrCartExpired):
		status, code = http.StatusGone, "cart_expired"
	case errors.Is(err, models.ErrCartAlreadyCheckedOut):
		status, code = http.StatusConflict, "cart_already_checked_out"
	case errors.Is(err, models.ErrWaiverAlreadySigned):
		status, code = http.StatusConflict, "waiver_already_signed"
	case errors.Is(err, models.ErrWaiverIncomplete):
		status, code = http.StatusConflict, "waiver_incomplete"
	case errors.Is(err, models.ErrEmptyCart):
		status, code = http.StatusBadRequest, "empty_cart"
	case errors.Is(err, models.ErrMissingCustomerInfo):
		status, code = http.StatusBadRequest, "missing_customer_info"
	case errors.Is(err, models.ErrUnknownService):
		status, code = http.StatusBadRequest, "unknown_service"
	case errors.Is(err, models.ErrInvalidQuantity):
		status, code = http.StatusBadRequest, "invalid_quantity"
	case errors.Is(err, models.ErrInvalidDate):
		status, code = http.StatusBadRequest, "invalid_date"
	case errors.Is(err, models.ErrIndexOutOfRange):
		status, code = http.StatusBadRequest, "index_out_of_range"
	case errors.Is(err, models.ErrGuestCountMismatch):
		status, code = http.StatusBadRequest, "guest_count_mismatch"
	case errors.Is(err, models.ErrIncompleteSignature):
		status, code = http.StatusBadRequest, "incomplete_signature"
	case errors.Is(err, models.ErrMissingEmergencyContact):
		status, code = http.StatusBadRequest, "missing_emergency_contact"
	case errors.Is(err, models.ErrInvalidWaiver):
		status, code = http.StatusBadRequest, "invalid_waiver"
	case errors.Is(err, models.ErrPaymentUnavailable):
		status, code = http.StatusBadGateway, "payment_unavailable"
	default:
		message = "internal server error"
	}

	writeJSON(w, status, errorResponse{Error: message, Code: code})
}

// writeBadRequest reports a malformed or invalid request body.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: message, Code: "invalid_request"})
}
