package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"gulf-float-booking/internal/services"
)

// webhookVerifier checks processor webhook signatures.
type webhookVerifier interface {
	VerifyWebhookSignature(payload []byte, header string) bool
}

// PaymentHandler serves payment status checks and the Stripe webhook.
type PaymentHandler struct {
	bookings *services.BookingService
	verifier webhookVerifier
	logger   *zap.Logger
}

// NewPaymentHandler creates a new payment handler.
func NewPaymentHandler(bookings *services.BookingService, verifier webhookVerifier, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		bookings: bookings,
		verifier: verifier,
		logger:   logger,
	}
}

// SessionStatus does a single processor status check for a session. The
// success page calls this on its own bounded schedule.
func (h *PaymentHandler) SessionStatus(w http.ResponseWriter, r *http.Request) {
	status, err := h.bookings.CheckSessionStatus(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// ConfirmSession runs the server-side bounded poll loop for a session and
// returns its terminal outcome: paid, expired, or timeout.
func (h *PaymentHandler) ConfirmSession(w http.ResponseWriter, r *http.Request) {
	result, err := h.bookings.AwaitSettlement(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// stripeEvent is the subset of a webhook event we read.
type stripeEvent struct {
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// StripeWebhook handles checkout.session lifecycle events. The webhook is
// redundant with status polling but settles bookings even when the customer
// never returns to the success page.
func (h *PaymentHandler) StripeWebhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "failed to read payload")
		return
	}

	if !h.verifier.VerifyWebhookSignature(payload, r.Header.Get("Stripe-Signature")) {
		h.logger.Warn("stripe webhook signature verification failed")
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid signature", Code: "invalid_signature"})
		return
	}

	var event stripeEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		writeBadRequest(w, "invalid event payload")
		return
	}

	if event.Type == "checkout.session.completed" {
		if err := h.bookings.MarkSessionPaid(r.Context(), event.Data.Object.ID); err != nil {
			h.logger.Error("failed to apply webhook settlement",
				zap.String("session_id", event.Data.Object.ID),
				zap.Error(err),
			)
			writeError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}
