package models

import "errors"

// Common errors used throughout the application
var (
	// Cart errors
	ErrCartNotFound          = errors.New("cart not found")
	ErrCartExpired           = errors.New("cart has expired")
	ErrCartAlreadyCheckedOut = errors.New("cart has already been checked out")
	ErrEmptyCart             = errors.New("cart is empty")
	ErrUnknownService        = errors.New("unknown service")
	ErrInvalidQuantity       = errors.New("quantity must be at least 1")
	ErrInvalidDate           = errors.New("booking date cannot be in the past")
	ErrIndexOutOfRange       = errors.New("item index out of range")

	// Checkout errors
	ErrMissingCustomerInfo = errors.New("customer name and email are required")
	ErrWaiverIncomplete    = errors.New("liability waiver must be completed before checkout")

	// Waiver errors
	ErrInvalidWaiver           = errors.New("invalid waiver")
	ErrWaiverNotFound          = errors.New("waiver not found")
	ErrWaiverAlreadySigned     = errors.New("a waiver has already been signed for this cart")
	ErrGuestCountMismatch      = errors.New("waiver guest count does not match cart guest count")
	ErrIncompleteSignature     = errors.New("missing required signature")
	ErrMissingEmergencyContact = errors.New("emergency contact name and phone are required")

	// Booking errors
	ErrBookingNotFound = errors.New("booking not found")

	// Payment errors
	ErrPaymentUnavailable = errors.New("payment processor unavailable")
)
