package services

import (
	"context"
	"fmt"

	"gulf-float-booking/internal/models"
)

// CheckoutSession is the result of creating a hosted checkout session.
type CheckoutSession struct {
	SessionID   string `json:"session_id"`
	CheckoutURL string `json:"checkout_url"`
}

// SessionStatus is the processor's view of a checkout session.
type SessionStatus struct {
	Status        string `json:"status"`         // open | complete | expired
	PaymentStatus string `json:"payment_status"` // paid | unpaid | expired
	AmountTotal   int    `json:"amount_total"`   // in cents
	Currency      string `json:"currency"`
}

// Paid reports whether the session has settled.
func (s SessionStatus) Paid() bool {
	return s.PaymentStatus == "paid"
}

// PaymentInstructions is the manual-payment response: a static pay-to
// account plus the booking reference the customer must include in the note.
type PaymentInstructions struct {
	Method      models.PaymentMethod `json:"method"`
	DisplayName string               `json:"display_name"`
	Account     string               `json:"account"`
	Reference   string               `json:"reference"`
	Note        string               `json:"note"`
}

// HostedCheckout is the capability set of processors that redirect the
// customer to an external page and are later polled for settlement.
type HostedCheckout interface {
	CreateSession(ctx context.Context, booking *models.Booking, successURL, cancelURL string) (*CheckoutSession, error)
	SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error)
}

// ManualInstructor is the capability set of peer-payment methods: no
// external call, just static instructions.
type ManualInstructor interface {
	Instructions(method models.PaymentMethod, booking *models.Booking) (*PaymentInstructions, error)
}

// PaymentDispatcher binds each payment method to its strategy. The method
// enum is closed, so dispatch is exhaustive.
type PaymentDispatcher struct {
	stripe HostedCheckout
	paypal HostedCheckout
	manual ManualInstructor
}

// NewPaymentDispatcher creates a dispatcher over the three strategies.
func NewPaymentDispatcher(stripe, paypal HostedCheckout, manual ManualInstructor) *PaymentDispatcher {
	return &PaymentDispatcher{stripe: stripe, paypal: paypal, manual: manual}
}

// Hosted returns the hosted-checkout strategy for the method, or an error
// for manual methods.
func (d *PaymentDispatcher) Hosted(method models.PaymentMethod) (HostedCheckout, error) {
	switch method {
	case models.PaymentStripe:
		return d.stripe, nil
	case models.PaymentPayPal:
		return d.paypal, nil
	case models.PaymentVenmo, models.PaymentCashApp, models.PaymentZelle:
		return nil, fmt.Errorf("payment method %q is not a hosted checkout", method)
	}
	return nil, fmt.Errorf("unknown payment method %q", method)
}

// Manual returns the manual-instructions strategy for the method, or an
// error for hosted methods.
func (d *PaymentDispatcher) Manual(method models.PaymentMethod) (ManualInstructor, error) {
	switch method {
	case models.PaymentVenmo, models.PaymentCashApp, models.PaymentZelle:
		return d.manual, nil
	case models.PaymentStripe, models.PaymentPayPal:
		return nil, fmt.Errorf("payment method %q is a hosted checkout", method)
	}
	return nil, fmt.Errorf("unknown payment method %q", method)
}
