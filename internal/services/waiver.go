package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gulf-float-booking/internal/models"
)

// WaiverSubmission is the payload for signing a waiver.
type WaiverSubmission struct {
	CartID            string                  `json:"cart_id" validate:"required"`
	Guests            []models.Guest          `json:"guests" validate:"required,min=1"`
	EmergencyContact  models.EmergencyContact `json:"emergency_contact"`
	MedicalConditions string                  `json:"medical_conditions"`
	TotalGuests       int                     `json:"total_guests"`
}

// WaiverService implements the waiver gate: checkout is blocked until a
// waiver exists for the cart and still covers the cart's current guest
// count. Waivers bind strictly to one cart id; a fresh cart always needs a
// fresh waiver.
type WaiverService struct {
	repo  WaiverRepository
	carts *CartService
}

// NewWaiverService creates a waiver service.
func NewWaiverService(repo WaiverRepository, carts *CartService) *WaiverService {
	return &WaiverService{repo: repo, carts: carts}
}

// Submit validates and persists a waiver. Waivers are immutable after
// creation and at most one exists per cart.
func (s *WaiverService) Submit(ctx context.Context, sub WaiverSubmission) (*models.Waiver, error) {
	cart, err := s.carts.Get(sub.CartID)
	if err != nil {
		return nil, err
	}

	if existing, err := s.repo.GetByCartID(ctx, sub.CartID); err == nil && existing != nil {
		return nil, models.ErrWaiverAlreadySigned
	} else if err != nil && !errors.Is(err, models.ErrWaiverNotFound) {
		return nil, fmt.Errorf("failed to check existing waiver: %w", err)
	}

	// The mismatch check keys off the actual guest entries, not the
	// client-declared total. The declared total still has to agree too.
	if len(sub.Guests) != cart.GuestCount() || sub.TotalGuests != cart.GuestCount() {
		return nil, models.ErrGuestCountMismatch
	}

	waiver := &models.Waiver{
		ID:                uuid.New().String(),
		CartID:            sub.CartID,
		Guests:            sub.Guests,
		EmergencyContact:  sub.EmergencyContact,
		MedicalConditions: sub.MedicalConditions,
		TotalGuests:       sub.TotalGuests,
		SignedAt:          time.Now().UTC(),
	}

	if err := waiver.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, waiver); err != nil {
		return nil, fmt.Errorf("failed to save waiver: %w", err)
	}
	return waiver, nil
}

// IsComplete reports whether the cart's waiver gate is open. The check
// recomputes against the live cart on every call: if guests were added
// after signing, the gate closes again.
func (s *WaiverService) IsComplete(ctx context.Context, cartID string) (bool, error) {
	cart, err := s.carts.Get(cartID)
	if err != nil {
		return false, err
	}

	waiver, err := s.repo.GetByCartID(ctx, cartID)
	if err != nil {
		if errors.Is(err, models.ErrWaiverNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to load waiver: %w", err)
	}

	return waiver.TotalGuests == cart.GuestCount(), nil
}

// List returns signed waivers for the admin view.
func (s *WaiverService) List(ctx context.Context, limit, offset int) ([]*models.Waiver, error) {
	return s.repo.List(ctx, limit, offset)
}
