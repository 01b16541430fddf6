package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"staybook/pkg/logger"
	"staybook/pkg/metrics"
	"staybook/pkg/money"
)

const (
	ledgerCapturePath = "/v1/captures"
	ledgerRefundPath  = "/v1/refunds"

	HeaderIdempotencyKey = "Idempotency-Key"

	OperationCapture = "capture"
	OperationRefund  = "refund"
)

var (
	// ErrLedgerRejected is a 4xx answer; retrying cannot help.
	ErrLedgerRejected = errors.New("ledger rejected the request")
	// ErrLedgerUnavailable means every attempt hit a 5xx or transport error.
	ErrLedgerUnavailable = errors.New("ledger unavailable")
)

type LedgerConfig struct {
	BaseURL      string
	Timeout      time.Duration
	MaxAttempts  int
	RetryBackoff time.Duration
}

type captureRequest struct {
	GuestID   string       `json:"guest_id"`
	Amount    money.Amount `json:"amount"`
	BookingID string       `json:"booking_id"`
}

type refundRequest struct {
	BookingID string `json:"booking_id"`
}

// LedgerClient talks to the external payment ledger. Every call carries an
// idempotency key derived from the booking, so a retried capture or refund
// for the same booking is applied at most once on the ledger side.
type LedgerClient struct {
	http        *HttpClient
	maxAttempts int
	backoff     time.Duration
	log         *logger.Logger
	metrics     *metrics.Metrics
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewLedgerClient(cfg LedgerConfig, log *logger.Logger, m *metrics.Metrics) *LedgerClient {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return &LedgerClient{
		http:        NewHttpClient(cfg.BaseURL, cfg.Timeout),
		maxAttempts: attempts,
		backoff:     cfg.RetryBackoff,
		log:         log,
		metrics:     m,
		sleep:       sleepCtx,
	}
}

func (c *LedgerClient) Capture(ctx context.Context, guestID string, amount money.Amount, bookingID string) error {
	body := captureRequest{GuestID: guestID, Amount: amount, BookingID: bookingID}
	return c.call(ctx, OperationCapture, ledgerCapturePath, bookingID, body)
}

func (c *LedgerClient) Refund(ctx context.Context, bookingID string) error {
	return c.call(ctx, OperationRefund, ledgerRefundPath, bookingID, refundRequest{BookingID: bookingID})
}

func IdempotencyKey(bookingID, operation string) string {
	return bookingID + ":" + operation
}

func (c *LedgerClient) call(ctx context.Context, operation, path, bookingID string, body any) error {
	start := time.Now()
	headers := map[string]string{HeaderIdempotencyKey: IdempotencyKey(bookingID, operation)}

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		resp, err := c.http.POST(ctx, path, body, headers)
		switch {
		case err != nil:
			lastErr = err
		case resp.IsSuccess():
			c.metrics.LedgerCall(operation, nil, time.Since(start))
			return nil
		case resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests:
			err = fmt.Errorf("%w: %s returned %d: %s", ErrLedgerRejected, operation, resp.StatusCode, GetErrorMessage(resp))
			c.metrics.LedgerCall(operation, err, time.Since(start))
			return err
		default:
			lastErr = fmt.Errorf("%s returned %d: %s", operation, resp.StatusCode, GetErrorMessage(resp))
		}

		if c.log != nil {
			c.log.Warn("Ledger call failed",
				"operation", operation,
				"booking_id", bookingID,
				"attempt", attempt,
				"max_attempts", c.maxAttempts,
				"error", lastErr,
			)
		}

		if attempt == c.maxAttempts {
			break
		}
		if err := c.sleep(ctx, c.backoff*time.Duration(attempt)); err != nil {
			lastErr = err
			break
		}
	}

	err := fmt.Errorf("%w: %s for booking %s: %v", ErrLedgerUnavailable, operation, bookingID, lastErr)
	c.metrics.LedgerCall(operation, err, time.Since(start))
	return err
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
