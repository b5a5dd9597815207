package services

import (
	"fmt"

	"gulf-float-booking/internal/config"
	"gulf-float-booking/internal/models"
)

// ManualPaymentService serves the peer-payment methods. It never calls an
// external collaborator: the customer pays out of band and the booking
// stays pending until an admin reconciles the payment.
type ManualPaymentService struct {
	accounts config.PeerPaymentConfig
}

// NewManualPaymentService creates the manual-instructions strategy.
func NewManualPaymentService(accounts config.PeerPaymentConfig) *ManualPaymentService {
	return &ManualPaymentService{accounts: accounts}
}

// Instructions returns the pay-to account for the method plus the booking
// reference the customer must include in the payment note.
func (s *ManualPaymentService) Instructions(method models.PaymentMethod, booking *models.Booking) (*PaymentInstructions, error) {
	instructions := &PaymentInstructions{
		Method:    method,
		Reference: booking.BookingReference,
	}

	switch method {
	case models.PaymentVenmo:
		instructions.DisplayName = "Venmo"
		instructions.Account = s.accounts.VenmoHandle
	case models.PaymentCashApp:
		instructions.DisplayName = "Cash App"
		instructions.Account = s.accounts.CashAppHandle
	case models.PaymentZelle:
		instructions.DisplayName = "Zelle"
		instructions.Account = s.accounts.ZelleAccount
	default:
		return nil, fmt.Errorf("payment method %q has no manual instructions", method)
	}

	instructions.Note = fmt.Sprintf("Send $%s to %s and include the note %q so we can match your payment.",
		centsToDecimal(booking.Totals.FinalTotal), instructions.Account, booking.BookingReference)

	return instructions, nil
}
