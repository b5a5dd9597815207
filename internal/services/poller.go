package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"gulf-float-booking/internal/models"
)

// Poll outcome values.
const (
	PollPaid    = "paid"
	PollExpired = "expired"
	PollTimeout = "timeout"
)

// StatusPoller polls a hosted checkout session a bounded number of times.
// Exhausting the attempts is a timeout, a terminal-but-inconclusive outcome
// that needs manual follow-up; it is deliberately distinct from a transport
// error.
type StatusPoller struct {
	attempts int
	interval time.Duration
	sleep    func(ctx context.Context, d time.Duration) error
	logger   *zap.Logger
}

// PollResult is the terminal outcome of a poll loop.
type PollResult struct {
	Outcome string         `json:"outcome"` // paid | expired | timeout
	Status  *SessionStatus `json:"status,omitempty"`
}

// NewStatusPoller creates a poller with the given bounds.
func NewStatusPoller(attempts int, interval time.Duration, logger *zap.Logger) *StatusPoller {
	return &StatusPoller{
		attempts: attempts,
		interval: interval,
		sleep:    sleepContext,
		logger:   logger,
	}
}

// Poll queries the session until it settles, expires, or the attempts are
// exhausted. Transport errors abort the loop and are returned as errors;
// attempt exhaustion returns a timeout result with a nil error.
func (p *StatusPoller) Poll(ctx context.Context, hosted HostedCheckout, sessionID string) (*PollResult, error) {
	for attempt := 1; attempt <= p.attempts; attempt++ {
		status, err := hosted.SessionStatus(ctx, sessionID)
		if err != nil {
			p.logger.Warn("payment status poll failed",
				zap.String("session_id", sessionID),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			return nil, models.ErrPaymentUnavailable
		}

		if status.Paid() {
			return &PollResult{Outcome: PollPaid, Status: status}, nil
		}
		if status.PaymentStatus == "expired" {
			return &PollResult{Outcome: PollExpired, Status: status}, nil
		}

		if attempt < p.attempts {
			if err := p.sleep(ctx, p.interval); err != nil {
				return nil, err
			}
		}
	}

	p.logger.Info("payment status poll exhausted",
		zap.String("session_id", sessionID),
		zap.Int("attempts", p.attempts),
	)
	return &PollResult{Outcome: PollTimeout}, nil
}

// SetSleep overrides the inter-attempt sleep. Used by tests.
func (p *StatusPoller) SetSleep(sleep func(ctx context.Context, d time.Duration) error) {
	p.sleep = sleep
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
