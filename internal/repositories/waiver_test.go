package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gulf-float-booking/internal/models"
)

func testWaiver(cartID string) *models.Waiver {
	return &models.Waiver{
		ID:     "33333333-3333-3333-3333-333333333333",
		CartID: cartID,
		Guests: []models.Guest{{
			Name:                 "Jordan Lee",
			Date:                 "2027-06-01",
			ParticipantSignature: "data:image/png;base64,sig",
		}},
		EmergencyContact:  models.EmergencyContact{Name: "Casey Lee", Phone: "850-555-0102", Relationship: "spouse"},
		MedicalConditions: "none",
		TotalGuests:       1,
		SignedAt:          time.Now().UTC().Truncate(time.Microsecond),
	}
}

func TestWaiverRepositoryRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	t.Cleanup(func() {
		db.Exec(`DELETE FROM waivers WHERE cart_id = '44444444-4444-4444-4444-444444444444'`)
	})

	repo := NewWaiverRepository(db)
	ctx := context.Background()

	waiver := testWaiver("44444444-4444-4444-4444-444444444444")
	require.NoError(t, repo.Create(ctx, waiver))

	got, err := repo.GetByCartID(ctx, waiver.CartID)
	require.NoError(t, err)
	assert.Equal(t, waiver.ID, got.ID)
	assert.Equal(t, waiver.Guests, got.Guests)
	assert.Equal(t, waiver.EmergencyContact, got.EmergencyContact)
	assert.Equal(t, 1, got.TotalGuests)

	// The unique constraint rejects a second waiver for the same cart.
	dup := testWaiver(waiver.CartID)
	dup.ID = "55555555-5555-5555-5555-555555555555"
	assert.Error(t, repo.Create(ctx, dup))
}

func TestWaiverRepositoryNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewWaiverRepository(db)

	_, err := repo.GetByCartID(context.Background(), "99999999-9999-9999-9999-999999999999")
	assert.ErrorIs(t, err, models.ErrWaiverNotFound)
}
