package services

import (
	"bytes"
	"context"
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

// PayPalConfig holds PayPal REST API credentials.
type PayPalConfig struct {
	ClientID     string
	ClientSecret string
	Environment  string // "sandbox" or "live"
}

// PayPalClient drives the PayPal Orders v2 API as a hosted checkout: an
// order is created with an approval link the customer is redirected to, and
// the order is later polled for capture status.
type PayPalClient struct {
	config  PayPalConfig
	client  *http.Client
	baseURL string
}

// NewPayPalClient creates a PayPal API client.
func NewPayPalClient(config PayPalConfig) *PayPalClient {
	baseURL := "https://api-m.sandbox.paypal.com"
	if config.Environment == "live" {
		baseURL = "https://api-m.paypal.com"
	}

	return &PayPalClient{
		config:  config,
		client:  &http.Client{Timeout: 30 * time.Second},
		baseURL: baseURL,
	}
}

type paypalTokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

type paypalOrderRequest struct {
	Intent             string               `json:"intent"`
	PurchaseUnits      []paypalPurchaseUnit `json:"purchase_units"`
	ApplicationContext paypalAppContext     `json:"application_context"`
}

type paypalPurchaseUnit struct {
	ReferenceID string       `json:"reference_id"`
	Description string       `json:"description"`
	Amount      paypalAmount `json:"amount"`
}

type paypalAmount struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

type paypalAppContext struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
}

type paypalOrderResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"` // CREATED, APPROVED, COMPLETED, VOIDED
	PurchaseUnits []struct {
		Amount paypalAmount `json:"amount"`
	} `json:"purchase_units"`
	Links []struct {
		Href string `json:"href"`
		Rel  string `json:"rel"`
	} `json:"links"`
}

// authenticate obtains an OAuth access token via the client-credentials
// grant.
func (p *PayPalClient) authenticate(ctx context.Context) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/oauth2/token", strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to create auth request: %w", err)
	}
	req.SetBasicAuth(p.config.ClientID, p.config.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("paypal auth request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("paypal auth failed (%d)", resp.StatusCode)
	}

	var token paypalTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("failed to parse paypal auth response: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("received empty paypal access token")
	}
	return token.AccessToken, nil
}

// CreateSession creates a PayPal order and returns its approval URL.
func (p *PayPalClient) CreateSession(ctx context.Context, booking *models.Booking, successURL, cancelURL string) (*CheckoutSession, error) {
	token, err := p.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	orderReq := paypalOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypalPurchaseUnit{
			{
				ReferenceID: booking.BookingReference,
				Description: "Gulf Float Booking " + booking.BookingReference,
				Amount: paypalAmount{
					CurrencyCode: "USD",
					Value:        centsToDecimal(booking.Totals.FinalTotal),
				},
			},
		},
		ApplicationContext: paypalAppContext{
			ReturnURL: successURL,
			CancelURL: cancelURL,
		},
	}

	var order paypalOrderResponse
	if err := p.do(ctx, http.MethodPost, "/v2/checkout/orders", token, orderReq, &order); err != nil {
		return nil, err
	}

	approveURL := ""
	for _, link := range order.Links {
		if link.Rel == "approve" {
			approveURL = link.Href
			break
		}
	}
	if approveURL == "" {
		return nil, fmt.Errorf("paypal order %s has no approval link", order.ID)
	}

	return &CheckoutSession{SessionID: order.ID, CheckoutURL: approveURL}, nil
}

// SessionStatus fetches the order and maps PayPal's status vocabulary onto
// the shared paid/unpaid/expired one.
func (p *PayPalClient) SessionStatus(ctx context.Context, sessionID string) (*SessionStatus, error) {
	token, err := p.authenticate(ctx)
	if err != nil {
		return nil, err
	}

	var order paypalOrderResponse
	if err := p.do(ctx, http.MethodGet, "/v2/checkout/orders/"+url.PathEscape(sessionID), token, nil, &order); err != nil {
		return nil, err
	}

	status := &SessionStatus{Currency: "usd"}
	if len(order.PurchaseUnits) > 0 {
		status.AmountTotal = decimalToCents(order.PurchaseUnits[0].Amount.Value)
		status.Currency = strings.ToLower(order.PurchaseUnits[0].Amount.CurrencyCode)
	}

	switch order.Status {
	case "COMPLETED":
		status.Status = "complete"
		status.PaymentStatus = "paid"
	case "VOIDED":
		status.Status = "expired"
		status.PaymentStatus = "expired"
	default:
		status.Status = "open"
		status.PaymentStatus = "unpaid"
	}
	return status, nil
}

func (p *PayPalClient) do(ctx context.Context, method, path, token string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal paypal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("paypal request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read paypal response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return fmt.Errorf("paypal API error (%d): %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("failed to parse paypal response: %w", err)
		}
	}
	return nil
}

// centsToDecimal formats a cent amount as PayPal's "123.45" string.
func centsToDecimal(cents int) string {
	return strconv.Itoa(cents/100) + "." + fmt.Sprintf("%02d", cents%100)
}

// decimalToCents parses a "123.45" amount back to cents; malformed values
// come back as 0.
func decimalToCents(value string) int {
	parts := strings.SplitN(value, ".", 2)
	dollars, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	cents := 0
	if len(parts) == 2 {
		frac := parts[1]
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		if c, err := strconv.Atoi(frac); err == nil {
			cents = c
		}
	}
	return dollars*100 + cents
}
