package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-telegram/bot"
	"go.uber.org/zap"

	"gulf-float-booking/internal/config"
	"gulf-float-booking/internal/models"
)

// Notifier sends the booking-created notifications: a confirmation email to
// the customer and a Telegram message to the business. Both are best-effort
// and run off the request path; failures are logged and never surfaced to
// the customer.
type Notifier struct {
	cfg    config.NotifyConfig
	client *http.Client
	tg     *bot.Bot
	logger *zap.Logger
}

// NewNotifier creates a notifier. Channels with missing credentials are
// silently disabled.
func NewNotifier(cfg config.NotifyConfig, logger *zap.Logger) *Notifier {
	n := &Notifier{
		cfg:    cfg,
		client: &http.Client{Timeout: 15 * time.Second},
		logger: logger,
	}

	if cfg.TelegramBotToken != "" {
		tg, err := bot.New(cfg.TelegramBotToken)
		if err != nil {
			logger.Warn("telegram bot init failed, notifications disabled", zap.Error(err))
		} else {
			n.tg = tg
		}
	}

	return n
}

// BookingCreated fans out both notifications for a new booking.
func (n *Notifier) BookingCreated(booking *models.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := n.sendConfirmationEmail(ctx, booking); err != nil {
		n.logger.Warn("booking confirmation email failed",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}
	if err := n.sendTelegram(ctx, booking); err != nil {
		n.logger.Warn("booking telegram notification failed",
			zap.String("booking_id", booking.ID),
			zap.Error(err),
		)
	}
}

type sendGridMail struct {
	Personalizations []sendGridPersonalization `json:"personalizations"`
	From             map[string]string         `json:"from"`
	Subject          string                    `json:"subject"`
	Content          []sendGridContent         `json:"content"`
}

type sendGridPersonalization struct {
	To []map[string]string `json:"to"`
}

type sendGridContent struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// sendConfirmationEmail posts to the SendGrid v3 mail/send API.
func (n *Notifier) sendConfirmationEmail(ctx context.Context, booking *models.Booking) error {
	if n.cfg.SendGridAPIKey == "" {
		return nil
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nThank you for choosing Exclusive Gulf Float! Your booking %s has been received.\n\nTotal: $%s\nPayment method: %s\nPayment status: %s\n\nWe look forward to seeing you on the water.\n\nThe Exclusive Gulf Float Team",
		booking.CustomerInfo.Name,
		booking.BookingReference,
		centsToDecimal(booking.Totals.FinalTotal),
		booking.PaymentMethod,
		booking.PaymentStatus,
	)

	mail := sendGridMail{
		Personalizations: []sendGridPersonalization{
			{To: []map[string]string{{"email": booking.CustomerInfo.Email}}},
		},
		From:    map[string]string{"email": n.cfg.SenderEmail},
		Subject: "Booking Received - Exclusive Gulf Float - " + booking.BookingReference,
		Content: []sendGridContent{{Type: "text/plain", Value: body}},
	}

	payload, err := json.Marshal(mail)
	if err != nil {
		return fmt.Errorf("failed to marshal mail: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "https://api.sendgrid.com/v3/mail/send", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+n.cfg.SendGridAPIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("sendgrid request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}

func (n *Notifier) sendTelegram(ctx context.Context, booking *models.Booking) error {
	if n.tg == nil || n.cfg.TelegramChatID == "" {
		return nil
	}

	text := fmt.Sprintf(
		"New booking %s\n\nCustomer: %s\nEmail: %s\nPhone: %s\n\nItems: %d\nTotal: $%s\nPayment: %s (%s)",
		booking.BookingReference,
		booking.CustomerInfo.Name,
		booking.CustomerInfo.Email,
		booking.CustomerInfo.Phone,
		len(booking.Items),
		centsToDecimal(booking.Totals.FinalTotal),
		booking.PaymentMethod,
		booking.PaymentStatus,
	)

	_, err := n.tg.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.cfg.TelegramChatID,
		Text:   text,
	})
	return err
}
