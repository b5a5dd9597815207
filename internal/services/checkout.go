package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"gulf-float-booking/internal/models"
)

// CheckoutRequest is the payload for converting a cart into a booking.
type CheckoutRequest struct {
	CustomerInfo   models.CustomerInfo  `json:"customer_info"`
	PaymentMethod  models.PaymentMethod `json:"payment_method" validate:"required"`
	TripProtection bool                 `json:"trip_protection"`
	SuccessURL     string               `json:"success_url"`
	CancelURL      string               `json:"cancel_url"`
}

// CheckoutResult is returned to the caller: hosted methods get a redirect
// URL, manual methods get payment instructions. The booking identifiers and
// totals are always present.
type CheckoutResult struct {
	BookingID           string               `json:"booking_id"`
	BookingReference    string               `json:"booking_reference"`
	Totals              models.Totals        `json:"totals"`
	CheckoutURL         string               `json:"checkout_url,omitempty"`
	SessionID           string               `json:"session_id,omitempty"`
	PaymentInstructions *PaymentInstructions `json:"payment_instructions,omitempty"`
}

// CheckoutService orchestrates the cart-to-booking state machine: waiver
// gate, totals, atomic cart consumption, durable booking creation, then
// payment dispatch. The booking is persisted before any payment call so a
// processor failure never loses the attempt and a retry never duplicates
// bookings.
type CheckoutService struct {
	carts    *CartService
	waivers  *WaiverService
	bookings BookingRepository
	payments *PaymentDispatcher
	notifier *Notifier
	logger   *zap.Logger
}

// NewCheckoutService creates the checkout orchestrator.
func NewCheckoutService(carts *CartService, waivers *WaiverService, bookings BookingRepository, payments *PaymentDispatcher, notifier *Notifier, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		carts:    carts,
		waivers:  waivers,
		bookings: bookings,
		payments: payments,
		notifier: notifier,
		logger:   logger,
	}
}

// Checkout converts the cart into a booking and dispatches payment. The
// precondition checks run before the cart is consumed, so a failed attempt
// never creates a booking and the cart stays usable; once the cart is
// consumed, exactly one booking exists for it.
func (s *CheckoutService) Checkout(ctx context.Context, cartID string, req CheckoutRequest) (*CheckoutResult, error) {
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("unknown payment method %q", req.PaymentMethod)
	}

	cart, err := s.carts.Get(cartID)
	if err != nil {
		return nil, err
	}

	if len(cart.Items) == 0 {
		return nil, models.ErrEmptyCart
	}

	info := cart.CustomerInfo
	info.Merge(req.CustomerInfo)
	if strings.TrimSpace(info.Name) == "" || strings.TrimSpace(info.Email) == "" {
		return nil, models.ErrMissingCustomerInfo
	}

	complete, err := s.waivers.IsComplete(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if !complete {
		return nil, models.ErrWaiverIncomplete
	}

	// At-most-once: the consume either wins or reports a concurrent
	// checkout. Everything after this point works from the snapshot.
	snapshot, err := s.carts.Consume(cartID)
	if err != nil {
		return nil, err
	}

	totals := CalculateTotals(snapshot.Subtotal, req.TripProtection, req.PaymentMethod)

	now := time.Now().UTC()
	booking := &models.Booking{
		ID:               uuid.New().String(),
		BookingReference: models.GenerateBookingReference(),
		CartID:           snapshot.ID,
		Items:            snapshot.Items,
		CustomerInfo:     info,
		PaymentMethod:    req.PaymentMethod,
		PaymentStatus:    models.PaymentPending,
		Status:           models.BookingPending,
		TripProtection:   req.TripProtection,
		Totals:           totals,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := booking.Validate(); err != nil {
		return nil, fmt.Errorf("booking validation failed: %w", err)
	}

	if err := s.bookings.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to save booking: %w", err)
	}

	s.logger.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("booking_reference", booking.BookingReference),
		zap.String("payment_method", string(booking.PaymentMethod)),
		zap.Int("final_total", totals.FinalTotal),
	)

	if s.notifier != nil {
		go s.notifier.BookingCreated(booking)
	}

	result := &CheckoutResult{
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		Totals:           totals,
	}

	if req.PaymentMethod.IsHosted() {
		hosted, err := s.payments.Hosted(req.PaymentMethod)
		if err != nil {
			return nil, err
		}

		session, err := hosted.CreateSession(ctx, booking, req.SuccessURL, req.CancelURL)
		if err != nil {
			// The pending booking is already durable; a later retry
			// resumes from it instead of re-running checkout.
			s.logger.Error("payment session creation failed",
				zap.String("booking_id", booking.ID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %v", models.ErrPaymentUnavailable, err)
		}

		if err := s.bookings.SetPaymentSession(ctx, booking.ID, session.SessionID); err != nil {
			return nil, fmt.Errorf("failed to attach payment session: %w", err)
		}

		result.CheckoutURL = session.CheckoutURL
		result.SessionID = session.SessionID
		return result, nil
	}

	manual, err := s.payments.Manual(req.PaymentMethod)
	if err != nil {
		return nil, err
	}
	instructions, err := manual.Instructions(req.PaymentMethod, booking)
	if err != nil {
		return nil, err
	}
	result.PaymentInstructions = instructions
	return result, nil
}
