package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"gulf-float-booking/internal/models"
)

// BookingService reads bookings and applies payment-status transitions
// reported by the hosted processors.
type BookingService struct {
	repo     BookingRepository
	payments *PaymentDispatcher
	poller   *StatusPoller
	logger   *zap.Logger
}

// NewBookingService creates a booking service.
func NewBookingService(repo BookingRepository, payments *PaymentDispatcher, poller *StatusPoller, logger *zap.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		payments: payments,
		poller:   poller,
		logger:   logger,
	}
}

// Get returns one booking by id.
func (s *BookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns bookings newest-first for the admin view.
func (s *BookingService) List(ctx context.Context, limit, offset int) ([]*models.Booking, error) {
	return s.repo.List(ctx, limit, offset)
}

// CheckSessionStatus does a single status query against the processor and
// applies any resulting transition. The success page calls this repeatedly
// on its own bounded schedule.
func (s *BookingService) CheckSessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	booking, err := s.repo.GetByPaymentSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	hosted, err := s.payments.Hosted(booking.PaymentMethod)
	if err != nil {
		return nil, err
	}

	status, err := hosted.SessionStatus(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrPaymentUnavailable, err)
	}

	if err := s.applyStatus(ctx, booking, status); err != nil {
		return nil, err
	}
	return status, nil
}

// AwaitSettlement runs the bounded poll loop against the processor and
// applies the terminal transition. Exhaustion is reported as a timeout
// outcome, not an error.
func (s *BookingService) AwaitSettlement(ctx context.Context, sessionID string) (*PollResult, error) {
	booking, err := s.repo.GetByPaymentSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	hosted, err := s.payments.Hosted(booking.PaymentMethod)
	if err != nil {
		return nil, err
	}

	result, err := s.poller.Poll(ctx, hosted, sessionID)
	if err != nil {
		return nil, err
	}

	if result.Status != nil {
		if err := s.applyStatus(ctx, booking, result.Status); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// MarkSessionPaid records a settlement reported by the processor webhook.
func (s *BookingService) MarkSessionPaid(ctx context.Context, sessionID string) error {
	booking, err := s.repo.GetByPaymentSession(ctx, sessionID)
	if err != nil {
		return err
	}
	return s.applyStatus(ctx, booking, &SessionStatus{Status: "complete", PaymentStatus: "paid"})
}

func (s *BookingService) applyStatus(ctx context.Context, booking *models.Booking, status *SessionStatus) error {
	switch {
	case status.Paid() && booking.PaymentStatus != models.PaymentCompleted:
		if err := s.repo.UpdatePaymentStatus(ctx, booking.ID, models.PaymentCompleted, models.BookingConfirmed); err != nil {
			return fmt.Errorf("failed to mark booking paid: %w", err)
		}
		s.logger.Info("booking payment completed",
			zap.String("booking_id", booking.ID),
			zap.String("booking_reference", booking.BookingReference),
		)
	case status.PaymentStatus == "expired" && booking.PaymentStatus == models.PaymentPending:
		if err := s.repo.UpdatePaymentStatus(ctx, booking.ID, models.PaymentFailed, models.BookingCancelled); err != nil {
			return fmt.Errorf("failed to mark booking expired: %w", err)
		}
		s.logger.Info("booking payment session expired",
			zap.String("booking_id", booking.ID),
		)
	}
	return nil
}
