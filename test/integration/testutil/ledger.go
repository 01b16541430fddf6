//go:build integration

package testutil

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// FakeLedger answers capture and refund calls on a fixed address and records
// the booking ids it saw per operation.
type FakeLedger struct {
	server *httptest.Server

	mu       sync.Mutex
	captures []string
	refunds  []string
	fail     bool
}

func StartFakeLedger(t *testing.T, addr string) *FakeLedger {
	t.Helper()

	listener, err := net.Listen("tcp", addr)
	require.NoError(t, err, "listen on %s", addr)

	l := &FakeLedger{}
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/captures", l.handle(&l.captures))
	mux.HandleFunc("POST /v1/refunds", l.handle(&l.refunds))

	l.server = httptest.NewUnstartedServer(mux)
	l.server.Listener.Close()
	l.server.Listener = listener
	l.server.Start()
	t.Cleanup(l.server.Close)
	return l
}

func (l *FakeLedger) handle(calls *[]string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			BookingID string `json:"booking_id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		l.mu.Lock()
		defer l.mu.Unlock()
		if l.fail {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		*calls = append(*calls, body.BookingID)
		w.WriteHeader(http.StatusOK)
	}
}

// SetFailing makes every following call answer 503.
func (l *FakeLedger) SetFailing(fail bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fail = fail
}

func (l *FakeLedger) Captures() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.captures...)
}

func (l *FakeLedger) Refunds() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.refunds...)
}
