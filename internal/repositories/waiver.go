package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"gulf-float-booking/internal/models"
)

// WaiverRepository handles waiver persistence. Waivers are insert-only;
// there is no update path after signing.
type WaiverRepository struct {
	db *sql.DB
}

// NewWaiverRepository creates a new waiver repository.
func NewWaiverRepository(db *sql.DB) *WaiverRepository {
	return &WaiverRepository{db: db}
}

const waiverColumns = `id, cart_id, guests, emergency_contact_name, emergency_contact_phone,
	emergency_contact_relationship, medical_conditions, total_guests, signed_at`

// Create inserts a signed waiver. The unique constraint on cart_id enforces
// one waiver per cart at the database level too.
func (r *WaiverRepository) Create(ctx context.Context, waiver *models.Waiver) error {
	if err := waiver.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	guests, err := json.Marshal(waiver.Guests)
	if err != nil {
		return fmt.Errorf("failed to marshal guests: %w", err)
	}

	query := `
		INSERT INTO waivers (` + waiverColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err = r.db.ExecContext(ctx, query,
		waiver.ID,
		waiver.CartID,
		guests,
		waiver.EmergencyContact.Name,
		waiver.EmergencyContact.Phone,
		waiver.EmergencyContact.Relationship,
		waiver.MedicalConditions,
		waiver.TotalGuests,
		waiver.SignedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert waiver: %w", err)
	}
	return nil
}

// GetByCartID returns the waiver signed for a cart.
func (r *WaiverRepository) GetByCartID(ctx context.Context, cartID string) (*models.Waiver, error) {
	query := `SELECT ` + waiverColumns + ` FROM waivers WHERE cart_id = $1`
	return r.scanWaiver(r.db.QueryRowContext(ctx, query, cartID))
}

// List returns waivers newest-first for the admin view.
func (r *WaiverRepository) List(ctx context.Context, limit, offset int) ([]*models.Waiver, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + waiverColumns + ` FROM waivers ORDER BY signed_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query waivers: %w", err)
	}
	defer rows.Close()

	var waivers []*models.Waiver
	for rows.Next() {
		waiver, err := r.scanWaiver(rows)
		if err != nil {
			return nil, err
		}
		waivers = append(waivers, waiver)
	}
	return waivers, rows.Err()
}

func (r *WaiverRepository) scanWaiver(row rowScanner) (*models.Waiver, error) {
	waiver := &models.Waiver{}
	var guests []byte

	err := row.Scan(
		&waiver.ID,
		&waiver.CartID,
		&guests,
		&waiver.EmergencyContact.Name,
		&waiver.EmergencyContact.Phone,
		&waiver.EmergencyContact.Relationship,
		&waiver.MedicalConditions,
		&waiver.TotalGuests,
		&waiver.SignedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrWaiverNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan waiver: %w", err)
	}

	if err := json.Unmarshal(guests, &waiver.Guests); err != nil {
		return nil, fmt.Errorf("failed to unmarshal waiver guests: %w", err)
	}
	return waiver, nil
}
