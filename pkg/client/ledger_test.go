package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"staybook/pkg/logger"
	"staybook/pkg/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger(t *testing.T, handler http.HandlerFunc, attempts int) *LedgerClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	c := NewLedgerClient(LedgerConfig{
		BaseURL:      server.URL,
		Timeout:      time.Second,
		MaxAttempts:  attempts,
		RetryBackoff: time.Millisecond,
	}, logger.Discard(), nil)
	c.sleep = func(context.Context, time.Duration) error { return nil }
	return c
}

func TestLedgerClient_CaptureSendsBodyAndIdempotencyKey(t *testing.T) {
	var (
		gotKey  string
		gotPath string
		gotBody map[string]any
	)
	c := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(HeaderIdempotencyKey)
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
	}, 3)

	err := c.Capture(context.Background(), "guest-1", money.New(5400), "booking-1")
	require.NoError(t, err)

	assert.Equal(t, "/v1/captures", gotPath)
	assert.Equal(t, "booking-1:capture", gotKey)
	assert.Equal(t, "guest-1", gotBody["guest_id"])
	assert.Equal(t, "booking-1", gotBody["booking_id"])
	assert.EqualValues(t, 5400, gotBody["amount"])
}

func TestLedgerClient_RefundPath(t *testing.T) {
	var gotKey, gotPath string
	c := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get(HeaderIdempotencyKey)
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}, 1)

	require.NoError(t, c.Refund(context.Background(), "booking-9"))
	assert.Equal(t, "/v1/refunds", gotPath)
	assert.Equal(t, "booking-9:refund", gotKey)
}

func TestLedgerClient_RetriesServerErrors(t *testing.T) {
	var calls int32
	c := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}, 3)

	require.NoError(t, c.Capture(context.Background(), "g", money.New(1), "b"))
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
}

func TestLedgerClient_GivesUpAfterMaxAttempts(t *testing.T) {
	var calls int32
	c := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	}, 2)

	err := c.Refund(context.Background(), "b")
	assert.ErrorIs(t, err, ErrLedgerUnavailable)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestLedgerClient_ClientErrorIsPermanent(t *testing.T) {
	var calls int32
	c := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"insufficient funds"}`))
	}, 5)

	err := c.Capture(context.Background(), "g", money.New(10), "b")
	assert.ErrorIs(t, err, ErrLedgerRejected)
	assert.Contains(t, err.Error(), "insufficient funds")
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestLedgerClient_StopsOnContextCancel(t *testing.T) {
	c := newTestLedger(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, 5)
	c.sleep = sleepCtx
	c.backoff = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err := c.Capture(ctx, "g", money.New(10), "b")
	assert.ErrorIs(t, err, ErrLedgerUnavailable)
}
