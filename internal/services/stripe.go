package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"gulf-float-booking/internal/models"
)

// StripeConfig holds Stripe API credentials.
type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

// StripeClient drives Stripe Checkout Sessions: the customer is redirected
// to a Stripe-hosted page and the session is later polled for settlement.
type StripeClient struct {
	config  StripeConfig
	client  *http.Client
	baseURL string
}

// NewStripeClient creates a Stripe API client.
func NewStripeClient(config StripeConfig) *StripeClient {
	return &StripeClient{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: "https://api.stripe.com",
	}
}

// stripeSession is the subset of the Checkout Session object we read.
type stripeSession struct {
	ID            string `json:"id"`
	URL           string `json:"url"`
	Status        string `json:"status"`         // open, complete, expired
	PaymentStatus string `json:"payment_status"` // paid, unpaid, no_payment_required
	AmountTotal   int    `json:"amount_total"`
	Currency      string `json:"currency"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateSession creates a Checkout Session for the booking's final total.
// The whole booking is charged as one consolidated line item, matching what
// the customer saw on the cart page.
func (s *StripeClient) CreateSession(ctx context.Context, booking *models.Booking, successURL, cancelURL string) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", successURL)
	form.Set("cancel_url", cancelURL)
	form.Set("customer_email", booking.CustomerInfo.Email)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", "usd")
	form.Set("line_items[0][price_data][unit_amount]", strconv.Itoa(booking.Totals.FinalTotal))
	form.Set("line_items[0][price_data][product_data][name]", "Gulf Float Booking "+booking.BookingReference)
	form.Set("metadata[booking_id]", booking.ID)
	form.Set("metadata[booking_reference]", booking.BookingReference)

	var session stripeSession
	if err := s.do(ctx, http.MethodPost, "/v1/checkout/sessions", form, &session); err != nil {
		return nil, err
	}

	return &CheckoutSession{SessionID: session.ID, CheckoutURL: session.URL}, nil
}

// SessionStatus fetches the current state of a checkout session.
func (s *StripeClient) SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	var session stripeSession
	if err := s.do(ctx, http.MethodGet, "/v1/checkout/sessions/"+url.PathEscape(sessionID), nil, &session); err != nil {
		return nil, err
	}

	status := &SessionStatus{
		Status:        session.Status,
		PaymentStatus: session.PaymentStatus,
		AmountTotal:   session.AmountTotal,
		Currency:      session.Currency,
	}
	if session.Status == "expired" {
		status.PaymentStatus = "expired"
	}
	return status, nil
}

// VerifyWebhookSignature checks a Stripe-Signature header (t=...,v1=...)
// against the raw payload using the webhook signing secret.
func (s *StripeClient) VerifyWebhookSignature(payload []byte, header string) bool {
	if s.config.WebhookSecret == "" || header == "" {
		return false
	}

	var timestamp string
	var signatures []string
	for _, part := range strings.Split(header, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			continue
		}
		switch kv[0] {
		case "t":
			timestamp = kv[1]
		case "v1":
			signatures = append(signatures, kv[1])
		}
	}
	if timestamp == "" || len(signatures) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, []byte(s.config.WebhookSecret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return true
		}
	}
	return false
}

func (s *StripeClient) do(ctx context.Context, method, path string, form url.Values, out interface{}) error {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.config.SecretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("stripe request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read stripe response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr stripeError
		if err := json.Unmarshal(data, &apiErr); err == nil && apiErr.Error.Message != "" {
			return fmt.Errorf("stripe API error (%d): %s", resp.StatusCode, apiErr.Error.Message)
		}
		return fmt.Errorf("stripe API error (%d)", resp.StatusCode)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse stripe response: %w", err)
	}
	return nil
}
