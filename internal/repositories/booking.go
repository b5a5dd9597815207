package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gulf-float-booking/internal/models"
)

// BookingRepository handles booking persistence.
type BookingRepository struct {
	db *sql.DB
}

// NewBookingRepository creates a new booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

const bookingColumns = `id, booking_reference, cart_id, items, customer_name, customer_email, customer_phone,
	payment_method, payment_status, payment_session_id, status, trip_protection,
	items_subtotal, protection_fee, tax, surcharge, final_total, created_at, updated_at`

// Create inserts a new booking with its item snapshot serialized as JSONB.
func (r *BookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	if err := booking.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	items, err := json.Marshal(booking.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}

	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)`

	_, err = r.db.ExecContext(ctx, query,
		booking.ID,
		booking.BookingReference,
		booking.CartID,
		items,
		booking.CustomerInfo.Name,
		booking.CustomerInfo.Email,
		booking.CustomerInfo.Phone,
		booking.PaymentMethod,
		booking.PaymentStatus,
		booking.PaymentSessionID,
		booking.Status,
		booking.TripProtection,
		booking.Totals.ItemsSubtotal,
		booking.Totals.ProtectionFee,
		booking.Totals.Tax,
		booking.Totals.Surcharge,
		booking.Totals.FinalTotal,
		booking.CreatedAt,
		booking.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// GetByID returns one booking by id.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return r.scanBooking(r.db.QueryRowContext(ctx, query, id))
}

// GetByPaymentSession returns the booking attached to a payment session.
func (r *BookingRepository) GetByPaymentSession(ctx context.Context, sessionID string) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_session_id = $1`
	return r.scanBooking(r.db.QueryRowContext(ctx, query, sessionID))
}

// List returns bookings newest-first.
func (r *BookingRepository) List(ctx context.Context, limit, offset int) ([]*models.Booking, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking, err := r.scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// SetPaymentSession attaches the processor session id to a booking.
func (r *BookingRepository) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_session_id = $1, updated_at = $2 WHERE id = $3`,
		sessionID, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to set payment session: %w", err)
	}
	return checkAffected(result)
}

// UpdatePaymentStatus applies a payment transition to a booking.
func (r *BookingRepository) UpdatePaymentStatus(ctx context.Context, id string, paymentStatus models.PaymentStatus, status models.BookingStatus) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bookings SET payment_status = $1, status = $2, updated_at = $3 WHERE id = $4`,
		paymentStatus, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update payment status: %w", err)
	}
	return checkAffected(result)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *BookingRepository) scanBooking(row rowScanner) (*models.Booking, error) {
	booking := &models.Booking{}
	var items []byte

	err := row.Scan(
		&booking.ID,
		&booking.BookingReference,
		&booking.CartID,
		&items,
		&booking.CustomerInfo.Name,
		&booking.CustomerInfo.Email,
		&booking.CustomerInfo.Phone,
		&booking.PaymentMethod,
		&booking.PaymentStatus,
		&booking.PaymentSessionID,
		&booking.Status,
		&booking.TripProtection,
		&booking.Totals.ItemsSubtotal,
		&booking.Totals.ProtectionFee,
		&booking.Totals.Tax,
		&booking.Totals.Surcharge,
		&booking.Totals.FinalTotal,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan booking: %w", err)
	}

	if err := json.Unmarshal(items, &booking.Items); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking items: %w", err)
	}
	booking.Totals.SubtotalWithTax = booking.Totals.ItemsSubtotal + booking.Totals.ProtectionFee + booking.Totals.Tax
	return booking, nil
}

func checkAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return models.ErrBookingNotFound
	}
	return nil
}
