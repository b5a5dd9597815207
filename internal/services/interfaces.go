package services

import (
	"context"

	"gulf-float-booking/internal/models"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, limit, offset int) ([]*models.Booking, error)
	SetPaymentSession(ctx context.Context, id, sessionID string) error
	GetByPaymentSession(ctx context.Context, sessionID string) (*models.Booking, error)
	UpdatePaymentStatus(ctx context.Context, id string, paymentStatus models.PaymentStatus, status models.BookingStatus) error
}

// WaiverRepository defines the persistence operations for waivers. Waivers
// are insert-only: there is no update path after signing.
type WaiverRepository interface {
	Create(ctx context.Context, waiver *models.Waiver) error
	GetByCartID(ctx context.Context, cartID string) (*models.Waiver, error)
	List(ctx context.Context, limit, offset int) ([]*models.Waiver, error)
}

// ContactRepository defines the persistence operations for contact
// messages.
type ContactRepository interface {
	Create(ctx context.Context, msg *models.ContactMessage) error
}
