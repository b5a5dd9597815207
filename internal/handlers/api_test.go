package handlers_test

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gulf-float-booking/internal/config"
	"gulf-float-booking/internal/handlers"
	"gulf-float-booking/internal/models"
	"gulf-float-booking/internal/server"
	"gulf-float-booking/internal/services"
	"gulf-float-booking/internal/store"
)

// In-memory repositories backing the API tests.

type memBookingRepo struct {
	mu        sync.Mutex
	bookings  map[string]*models.Booking
	bySession map[string]string
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{bookings: make(map[string]*models.Booking), bySession: make(map[string]string)}
}

func (m *memBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *b
	m.bookings[b.ID] = &clone
	return nil
}

func (m *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	clone := *b
	return &clone, nil
}

func (m *memBookingRepo) List(ctx context.Context, limit, offset int) ([]*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		clone := *b
		out = append(out, &clone)
	}
	return out, nil
}

func (m *memBookingRepo) SetPaymentSession(ctx context.Context, id, sessionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return models.ErrBookingNotFound
	}
	b.PaymentSessionID = sessionID
	m.bySession[sessionID] = id
	return nil
}

func (m *memBookingRepo) GetByPaymentSession(ctx context.Context, sessionID string) (*models.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.bySession[sessionID]
	if !ok {
		return nil, models.ErrBookingNotFound
	}
	clone := *m.bookings[id]
	return &clone, nil
}

func (m *memBookingRepo) UpdatePaymentStatus(ctx context.Context, id string, paymentStatus models.PaymentStatus, status models.BookingStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.bookings[id]
	if !ok {
		return models.ErrBookingNotFound
	}
	b.PaymentStatus = paymentStatus
	b.Status = status
	return nil
}

type memWaiverRepo struct {
	mu       sync.Mutex
	byCartID map[string]*models.Waiver
}

func newMemWaiverRepo() *memWaiverRepo {
	return &memWaiverRepo{byCartID: make(map[string]*models.Waiver)}
}

func (m *memWaiverRepo) Create(ctx context.Context, w *models.Waiver) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *w
	m.byCartID[w.CartID] = &clone
	return nil
}

func (m *memWaiverRepo) GetByCartID(ctx context.Context, cartID string) (*models.Waiver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.byCartID[cartID]
	if !ok {
		return nil, models.ErrWaiverNotFound
	}
	clone := *w
	return &clone, nil
}

func (m *memWaiverRepo) List(ctx context.Context, limit, offset int) ([]*models.Waiver, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*models.Waiver, 0, len(m.byCartID))
	for _, w := range m.byCartID {
		clone := *w
		out = append(out, &clone)
	}
	return out, nil
}

type memContactRepo struct {
	mu       sync.Mutex
	messages []*models.ContactMessage
}

func (m *memContactRepo) Create(ctx context.Context, msg *models.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *msg
	m.messages = append(m.messages, &clone)
	return nil
}

// stubHosted scripts the hosted processor behind the API.
type stubHosted struct {
	mu     sync.Mutex
	status *services.SessionStatus
}

func (s *stubHosted) CreateSession(ctx context.Context, booking *models.Booking, successURL, cancelURL string) (*services.CheckoutSession, error) {
	return &services.CheckoutSession{SessionID: "sess_api", CheckoutURL: "https://pay.example.com/sess_api"}, nil
}

func (s *stubHosted) SessionStatus(ctx context.Context, sessionID string) (*services.SessionStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != nil {
		return s.status, nil
	}
	return &services.SessionStatus{Status: "open", PaymentStatus: "unpaid"}, nil
}

func (s *stubHosted) setStatus(status *services.SessionStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = status
}

type apiFixture struct {
	router   chi.Router
	stripe   *services.StripeClient
	hosted   *stubHosted
	bookings *memBookingRepo
	contacts *memContactRepo
}

func newAPIFixture() *apiFixture {
	logger := zap.NewNop()
	validate := validator.New()

	bookings := newMemBookingRepo()
	waivers := newMemWaiverRepo()
	contacts := &memContactRepo{}

	catalog := services.NewCatalogService(models.DefaultServices())
	cartService := services.NewCartService(store.NewCartStore(time.Hour), catalog)
	waiverService := services.NewWaiverService(waivers, cartService)

	hosted := &stubHosted{}
	manual := services.NewManualPaymentService(config.PeerPaymentConfig{
		VenmoHandle:   "@ExclusiveFloat850",
		CashAppHandle: "$ExclusiveFloat",
		ZelleAccount:  "exclusivefloat850@gmail.com",
	})
	dispatcher := services.NewPaymentDispatcher(hosted, hosted, manual)

	poller := services.NewStatusPoller(2, time.Millisecond, logger)
	checkoutService := services.NewCheckoutService(cartService, waiverService, bookings, dispatcher, nil, logger)
	bookingService := services.NewBookingService(bookings, dispatcher, poller, logger)

	stripeClient := services.NewStripeClient(services.StripeConfig{WebhookSecret: "whsec_test"})

	router := server.NewRouter(server.Handlers{
		Catalog: handlers.NewCatalogHandler(catalog),
		Cart:    handlers.NewCartHandler(cartService, checkoutService, validate, "http://localhost:8080"),
		Waiver:  handlers.NewWaiverHandler(waiverService, validate),
		Booking: handlers.NewBookingHandler(bookingService),
		Payment: handlers.NewPaymentHandler(bookingService, stripeClient, logger),
		Contact: handlers.NewContactHandler(contacts, validate),
	}, logger, []string{"*"})

	return &apiFixture{
		router:   router,
		stripe:   stripeClient,
		hosted:   hosted,
		bookings: bookings,
		contacts: contacts,
	}
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func (f *apiFixture) createReadyCart(t *testing.T) string {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/api/cart", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var cart models.Cart
	decode(t, rec, &cart)

	rec = f.do(t, http.MethodPost, "/api/cart/"+cart.ID+"/items", map[string]interface{}{
		"service_id":   "luxury_cabana_3hr",
		"quantity":     1,
		"booking_date": "2027-06-01",
		"booking_time": "10:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPut, "/api/cart/"+cart.ID+"/customer", map[string]string{
		"name":  "Jordan Lee",
		"email": "jordan@example.com",
		"phone": "850-555-0101",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodPost, "/api/waivers/", map[string]interface{}{
		"cart_id": cart.ID,
		"guests": []map[string]interface{}{{
			"name":                  "Jordan Lee",
			"date":                  "2027-06-01",
			"participant_signature": "data:image/png;base64,sig",
		}},
		"emergency_contact": map[string]string{"name": "Casey Lee", "phone": "850-555-0102"},
		"total_guests":      1,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	return cart.ID
}

func TestAPIServiceCatalog(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list []models.Service
	decode(t, rec, &list)
	assert.Len(t, list, 6)

	rec = f.do(t, http.MethodGet, "/api/services/crystal_kayak", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/services/jet_ski", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPICartLifecycle(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/api/cart", nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var cart models.Cart
	decode(t, rec, &cart)
	require.NotEmpty(t, cart.ID)

	rec = f.do(t, http.MethodPost, "/api/cart/"+cart.ID+"/items", map[string]interface{}{
		"service_id":   "crystal_kayak",
		"quantity":     2,
		"booking_date": "2027-06-01",
		"booking_time": "10:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &cart)
	assert.Equal(t, 12000, cart.Subtotal)

	rec = f.do(t, http.MethodPut, "/api/cart/"+cart.ID+"/items/0", map[string]int{"quantity": 1})
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &cart)
	assert.Equal(t, 6000, cart.Subtotal)

	rec = f.do(t, http.MethodDelete, "/api/cart/"+cart.ID+"/items/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decode(t, rec, &cart)
	assert.Empty(t, cart.Items)
}

func TestAPICartErrorCodes(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodGet, "/api/cart/no-such-cart", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var errResp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}
	decode(t, rec, &errResp)
	assert.Equal(t, "cart_not_found", errResp.Code)

	// Empty cart cannot be checked out.
	rec = f.do(t, http.MethodPost, "/api/cart", nil)
	var cart models.Cart
	decode(t, rec, &cart)

	rec = f.do(t, http.MethodPost, "/api/cart/"+cart.ID+"/checkout", map[string]string{"payment_method": "stripe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &errResp)
	assert.Equal(t, "empty_cart", errResp.Code)

	// Out-of-range index.
	rec = f.do(t, http.MethodDelete, "/api/cart/"+cart.ID+"/items/7", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &errResp)
	assert.Equal(t, "index_out_of_range", errResp.Code)
}

func TestAPIWaiverGateBlocksCheckout(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/api/cart", nil)
	var cart models.Cart
	decode(t, rec, &cart)

	rec = f.do(t, http.MethodPost, "/api/cart/"+cart.ID+"/items", map[string]interface{}{
		"service_id":   "canoe",
		"quantity":     1,
		"booking_date": "2027-06-01",
		"booking_time": "09:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/api/waivers/status/"+cart.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var status struct {
		CartID   string `json:"cart_id"`
		Complete bool   `json:"complete"`
	}
	decode(t, rec, &status)
	assert.False(t, status.Complete)

	rec = f.do(t, http.MethodPost, "/api/cart/"+cart.ID+"/checkout", map[string]interface{}{
		"payment_method": "venmo",
		"customer_info":  map[string]string{"name": "Jordan Lee", "email": "jordan@example.com"},
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAPIWaiverRejectionsAreBadRequests(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/api/cart", nil)
	var cart models.Cart
	decode(t, rec, &cart)

	rec = f.do(t, http.MethodPost, "/api/cart/"+cart.ID+"/items", map[string]interface{}{
		"service_id":   "canoe",
		"quantity":     3,
		"booking_date": "2027-06-01",
		"booking_time": "09:00",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var errResp struct {
		Error string `json:"error"`
		Code  string `json:"code"`
	}

	// Two signed guests for a three-guest cart, with the declared total
	// papering over the gap.
	guests := []map[string]interface{}{
		{"name": "Jordan Lee", "date": "2027-06-01", "participant_signature": "data:image/png;base64,sig"},
		{"name": "Casey Lee", "date": "2027-06-01", "participant_signature": "data:image/png;base64,sig"},
	}
	rec = f.do(t, http.MethodPost, "/api/waivers/", map[string]interface{}{
		"cart_id":           cart.ID,
		"guests":            guests,
		"emergency_contact": map[string]string{"name": "Casey Lee", "phone": "850-555-0102"},
		"total_guests":      3,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &errResp)
	assert.Equal(t, "guest_count_mismatch", errResp.Code)

	// A guest entry without a name is invalid input, not a server fault.
	guests = append(guests, map[string]interface{}{
		"name":                  " ",
		"date":                  "2027-06-01",
		"participant_signature": "data:image/png;base64,sig",
	})
	rec = f.do(t, http.MethodPost, "/api/waivers/", map[string]interface{}{
		"cart_id":           cart.ID,
		"guests":            guests,
		"emergency_contact": map[string]string{"name": "Casey Lee", "phone": "850-555-0102"},
		"total_guests":      3,
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	decode(t, rec, &errResp)
	assert.Equal(t, "invalid_waiver", errResp.Code)
}

func TestAPIHostedCheckoutFlow(t *testing.T) {
	f := newAPIFixture()
	cartID := f.createReadyCart(t)

	rec := f.do(t, http.MethodPost, "/api/cart/"+cartID+"/checkout", map[string]string{"payment_method": "stripe"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.CheckoutResult
	decode(t, rec, &result)
	assert.Equal(t, "https://pay.example.com/sess_api", result.CheckoutURL)
	assert.Equal(t, "sess_api", result.SessionID)
	assert.Equal(t, 11341, result.Totals.SubtotalWithTax)

	// A replay of the same cart conflicts.
	rec = f.do(t, http.MethodPost, "/api/cart/"+cartID+"/checkout", map[string]string{"payment_method": "stripe"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Status polling settles the booking once the processor reports paid.
	f.hosted.setStatus(&services.SessionStatus{Status: "complete", PaymentStatus: "paid", AmountTotal: result.Totals.FinalTotal, Currency: "usd"})

	rec = f.do(t, http.MethodGet, "/api/payments/checkout/status/sess_api", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	booking, err := f.bookings.GetByID(context.Background(), result.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, booking.PaymentStatus)
	assert.Equal(t, models.BookingConfirmed, booking.Status)

	rec = f.do(t, http.MethodGet, "/api/bookings/"+result.BookingID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAPIManualCheckoutFlow(t *testing.T) {
	f := newAPIFixture()
	cartID := f.createReadyCart(t)

	rec := f.do(t, http.MethodPost, "/api/cart/"+cartID+"/checkout", map[string]string{"payment_method": "cashapp"})
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.CheckoutResult
	decode(t, rec, &result)
	require.NotNil(t, result.PaymentInstructions)
	assert.Equal(t, "$ExclusiveFloat", result.PaymentInstructions.Account)
	assert.Equal(t, result.BookingReference, result.PaymentInstructions.Reference)
	assert.Empty(t, result.CheckoutURL)
	assert.Zero(t, result.Totals.Surcharge)
}

func TestAPIConfirmTimeout(t *testing.T) {
	f := newAPIFixture()
	cartID := f.createReadyCart(t)

	rec := f.do(t, http.MethodPost, "/api/cart/"+cartID+"/checkout", map[string]string{"payment_method": "paypal"})
	require.Equal(t, http.StatusOK, rec.Code)

	// Session never settles; confirm reports a timeout outcome, not an error.
	rec = f.do(t, http.MethodGet, "/api/payments/checkout/confirm/sess_api", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var result services.PollResult
	decode(t, rec, &result)
	assert.Equal(t, services.PollTimeout, result.Outcome)
}

func TestAPIStripeWebhook(t *testing.T) {
	f := newAPIFixture()
	cartID := f.createReadyCart(t)

	rec := f.do(t, http.MethodPost, "/api/cart/"+cartID+"/checkout", map[string]string{"payment_method": "stripe"})
	require.Equal(t, http.StatusOK, rec.Code)
	var result services.CheckoutResult
	decode(t, rec, &result)

	payload := []byte(`{"type":"checkout.session.completed","data":{"object":{"id":"sess_api"}}}`)
	mac := hmac.New(sha256.New, []byte("whsec_test"))
	mac.Write([]byte("1756700000."))
	mac.Write(payload)
	signature := "t=1756700000,v1=" + hex.EncodeToString(mac.Sum(nil))

	req := httptest.NewRequest(http.MethodPost, "/api/webhook/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", signature)
	wrec := httptest.NewRecorder()
	f.router.ServeHTTP(wrec, req)
	require.Equal(t, http.StatusOK, wrec.Code)

	booking, err := f.bookings.GetByID(context.Background(), result.BookingID)
	require.NoError(t, err)
	assert.Equal(t, models.PaymentCompleted, booking.PaymentStatus)

	// A bad signature is rejected without touching any booking.
	req = httptest.NewRequest(http.MethodPost, "/api/webhook/stripe", bytes.NewReader(payload))
	req.Header.Set("Stripe-Signature", "t=1756700000,v1=deadbeef")
	wrec = httptest.NewRecorder()
	f.router.ServeHTTP(wrec, req)
	assert.Equal(t, http.StatusBadRequest, wrec.Code)
}

func TestAPIContactForm(t *testing.T) {
	f := newAPIFixture()

	rec := f.do(t, http.MethodPost, "/api/contact", map[string]string{
		"name":    "Riley Cruz",
		"email":   "riley@example.com",
		"message": "Do you allow dogs on the cabanas?",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Len(t, f.contacts.messages, 1)

	rec = f.do(t, http.MethodPost, "/api/contact", map[string]string{
		"name":    "Riley Cruz",
		"email":   "not-an-email",
		"message": "hello",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, f.contacts.messages, 1)
}

func TestAPIHealth(t *testing.T) {
	f := newAPIFixture()
	rec := f.do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
