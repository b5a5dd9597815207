package models

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

// PaymentStatus represents the settlement state of a booking's payment.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
)

// BookingStatus represents the lifecycle state of a booking.
type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is the durable record of a checkout. Items are a snapshot copy of
// the cart at checkout time, not a live reference; the cart may be discarded
// afterwards.
type Booking struct {
	ID               string        `json:"id" db:"id"`
	BookingReference string        `json:"booking_reference" db:"booking_reference"`
	CartID           string        `json:"cart_id" db:"cart_id"`
	Items            []CartItem    `json:"items" db:"items"`
	CustomerInfo     CustomerInfo  `json:"customer_info"`
	PaymentMethod    PaymentMethod `json:"payment_method" db:"payment_method"`
	PaymentStatus    PaymentStatus `json:"payment_status" db:"payment_status"`
	PaymentSessionID string        `json:"payment_session_id,omitempty" db:"payment_session_id"`
	Status           BookingStatus `json:"status" db:"status"`
	TripProtection   bool          `json:"trip_protection" db:"trip_protection"`
	Totals           Totals        `json:"totals"`
	CreatedAt        time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" db:"updated_at"`
}

var bookingReferenceRegex = regexp.MustCompile(`^EGF-\d{8}-\d{6}$`)

// GenerateBookingReference returns a human-shown reference in the form
// EGF-YYYYMMDD-NNNNNN. Customers paying by a peer app include it in the
// payment note, so it must be short and unambiguous.
func GenerateBookingReference() string {
	now := time.Now()
	dateStr := now.Format("20060102")

	max := big.NewInt(1000000)
	randomNum, err := rand.Int(rand.Reader, max)
	if err != nil {
		// Fallback to timestamp-based generation if crypto/rand fails
		return fmt.Sprintf("EGF-%s-%06d", dateStr, now.UnixNano()%1000000)
	}

	return fmt.Sprintf("EGF-%s-%06d", dateStr, randomNum.Int64())
}

// Validate checks the booking record for internal consistency.
func (b *Booking) Validate() error {
	if b.BookingReference == "" {
		return errors.New("booking reference is required")
	}
	if !bookingReferenceRegex.MatchString(b.BookingReference) {
		return errors.New("booking reference format is invalid")
	}
	if len(b.Items) == 0 {
		return errors.New("booking must contain at least one item")
	}
	if !ValidPaymentMethod(b.PaymentMethod) {
		return fmt.Errorf("unknown payment method %q", b.PaymentMethod)
	}
	if b.Totals.FinalTotal < 0 {
		return errors.New("final total cannot be negative")
	}
	if err := validateBookingStatus(b.Status); err != nil {
		return err
	}
	if err := validatePaymentStatus(b.PaymentStatus); err != nil {
		return err
	}
	if strings.TrimSpace(b.CustomerInfo.Name) == "" {
		return errors.New("customer name is required")
	}
	if strings.TrimSpace(b.CustomerInfo.Email) == "" {
		return errors.New("customer email is required")
	}
	return nil
}

func validateBookingStatus(s BookingStatus) error {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return nil
	}
	return fmt.Errorf("invalid booking status %q", s)
}

func validatePaymentStatus(s PaymentStatus) error {
	switch s {
	case PaymentPending, PaymentCompleted, PaymentFailed:
		return nil
	}
	return fmt.Errorf("invalid payment status %q", s)
}

// IsPaid returns true once the payment has settled.
func (b *Booking) IsPaid() bool {
	return b.PaymentStatus == PaymentCompleted
}
