package models

import (
	"fmt"
	"strings"
	"time"
)

// Guest is one participant entry on a liability waiver. Signatures are
// stored as the data-URL strings captured from the signing canvas.
type Guest struct {
	Name                 string `json:"name"`
	Date                 string `json:"date"` // YYYY-MM-DD
	IsMinor              bool   `json:"is_minor"`
	GuardianName         string `json:"guardian_name,omitempty"`
	ParticipantSignature string `json:"participant_signature,omitempty"`
	GuardianSignature    string `json:"guardian_signature,omitempty"`
}

// EmergencyContact is the single emergency contact block on a waiver.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship,omitempty"`
}

// Waiver is the signed liability record for a cart. It references the cart
// by id but does not own it, and it is immutable after creation.
type Waiver struct {
	ID                string           `json:"id" db:"id"`
	CartID            string           `json:"cart_id" db:"cart_id"`
	Guests            []Guest          `json:"guests"`
	EmergencyContact  EmergencyContact `json:"emergency_contact"`
	MedicalConditions string           `json:"medical_conditions,omitempty" db:"medical_conditions"`
	TotalGuests       int              `json:"total_guests" db:"total_guests"`
	SignedAt          time.Time        `json:"signed_at" db:"signed_at"`
}

// Validate enforces the signature rules: every adult guest needs a
// participant signature, every minor needs both a guardian name and a
// guardian signature, and the emergency contact must have name and phone.
func (w *Waiver) Validate() error {
	if w.CartID == "" {
		return fmt.Errorf("%w: cart id is required", ErrInvalidWaiver)
	}
	if len(w.Guests) == 0 {
		return fmt.Errorf("%w: at least one guest is required", ErrInvalidWaiver)
	}
	if w.TotalGuests != len(w.Guests) {
		return fmt.Errorf("total_guests %d does not match guest entries %d: %w", w.TotalGuests, len(w.Guests), ErrGuestCountMismatch)
	}
	if strings.TrimSpace(w.EmergencyContact.Name) == "" || strings.TrimSpace(w.EmergencyContact.Phone) == "" {
		return ErrMissingEmergencyContact
	}
	for i, g := range w.Guests {
		if strings.TrimSpace(g.Name) == "" {
			return fmt.Errorf("guest %d: name is required: %w", i+1, ErrInvalidWaiver)
		}
		if g.ParticipantSignature == "" {
			return fmt.Errorf("guest %d (%s): %w", i+1, g.Name, ErrIncompleteSignature)
		}
		if g.IsMinor {
			if strings.TrimSpace(g.GuardianName) == "" {
				return fmt.Errorf("guest %d (%s) is a minor and needs a guardian name: %w", i+1, g.Name, ErrIncompleteSignature)
			}
			if g.GuardianSignature == "" {
				return fmt.Errorf("guest %d (%s) is a minor and needs a guardian signature: %w", i+1, g.Name, ErrIncompleteSignature)
			}
		}
	}
	return nil
}
