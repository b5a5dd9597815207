package services

import (
	"context"
	"sync"

	"gulf-float-booking/internal/models"
)

// Mock BookingRepository for testing
type mockBookingRepository struct {
	mu          sync.Mutex
	bookings    map[string]*models.Booking
	bySession   map[string]string
	createError error
	updateError error
}

func newMockBookingRepository() *mockBookingRepository {
	return &mockBookingRepository{
		bookings:  make(map[string]*models.Booking),
		bySession: make(map[string]string),
	}
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	clone := *booking
	m.bookings[booking.ID] = &clone
	return nil
}

func (m *mockBookingRepository) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	clone := *booking
	return &clone, nil
}

func (m *mockBookingRepository) List(ctx context.Context, limit, offset int) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (m *mockBookingRepository) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	booking, ok := m.bookings[id]
	if !ok {
		return models.ErrBookingNotFound
	}
	booking.PaymentSessionID = sessionID
	m.bySession[sessionID] = id
	return nil
}

func (m *mockBookingRepository) GetByPaymentSession(ctx context.Context, sessionID string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.bySession[sessionID]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	clone := *m.bookings[id]
	return &clone, nil
}

func (m *mockBookingRepository) UpdatePaymentStatus(ctx context.Context, id string, paymentStatus models.PaymentStatus, status models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateError != nil {
		return m.updateError
	}
	booking, ok := m.bookings[id]
	if !ok {
		return models.ErrBookingNotFound
	}
	booking.PaymentStatus = paymentStatus
	booking.Status = status
	return nil
}

func (m *mockBookingRepository) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.bookings)
}

func (m *mockBookingRepository) get(id string) *models.Booking {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.bookings[id]
}

// Mock WaiverRepository for testing
type mockWaiverRepository struct {
	mu          sync.Mutex
	byCartID    map[string]*models.Waiver
	createError error
	getError    error
}

func newMockWaiverRepository() *mockWaiverRepository {
	return &mockWaiverRepository{byCartID: make(map[string]*models.Waiver)}
}

func (m *mockWaiverRepository) Create(ctx context.Context, waiver *models.Waiver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createError != nil {
		return m.createError
	}
	clone := *waiver
	m.byCartID[waiver.CartID] = &clone
	return nil
}

func (m *mockWaiverRepository) GetByCartID(ctx context.Context, cartID string) (*models.Waiver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return nil, m.getError
	}
	waiver, ok := m.byCartID[cartID]
	if !ok {
		return nil, models.ErrWaiverNotFound
	}
	clone := *waiver
	return &clone, nil
}

func (m *mockWaiverRepository) List(ctx context.Context, limit, offset int) ([]*models.Waiver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Waiver, 0, len(m.byCartID))
	for _, w := range m.byCartID {
		clone := *w
		out = append(out, &clone)
	}
	return out, nil
}

// fakeHostedCheckout scripts a hosted processor for checkout and polling
// tests. Statuses are consumed one per SessionStatus call; the last one
// repeats once the script runs out.
type fakeHostedCheckout struct {
	mu          sync.Mutex
	session     *CheckoutSession
	createError error
	statuses    []*SessionStatus
	statusError error
	createCalls int
	statusCalls int
}

func (f *fakeHostedCheckout) CreateSession(ctx context.Context, booking *models.Booking, successURL, cancelURL string) (*CheckoutSession, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createError != nil {
		return nil, f.createError
	}
	if f.session != nil {
		return f.session, nil
	}
	return &CheckoutSession{SessionID: "sess_test", CheckoutURL: "https://pay.example.com/sess_test"}, nil
}

func (f *fakeHostedCheckout) SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statusCalls++
	if f.statusError != nil {
		return nil, f.statusError
	}
	if len(f.statuses) == 0 {
		return &SessionStatus{Status: "open", PaymentStatus: "unpaid"}, nil
	}
	status := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return status, nil
}
