//go:build integration

package testutil

import (
	"os"
	"testing"
	"time"
)

const DefaultHealthCheckTimeout = 30 * time.Second

// TestEnv points at running bookings and coupons services sharing one
// database. The bookings service must be started with LEDGER_URL pointing at
// LedgerAddr so the suite can serve captures and refunds.
type TestEnv struct {
	MongoURI     string
	DatabaseName string
	BookingsURL  string
	CouponsURL   string
	LedgerAddr   string
}

func NewTestEnv() *TestEnv {
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", DefaultDatabaseName),
		BookingsURL:  getEnv("TEST_BOOKINGS_URL", "http://localhost:8080"),
		CouponsURL:   getEnv("TEST_COUPONS_URL", "http://localhost:8081"),
		LedgerAddr:   getEnv("TEST_LEDGER_ADDR", "127.0.0.1:8090"),
	}
}

func (e *TestEnv) Setup(t *testing.T) (mongo *MongoHelper, bookings *Client, coupons *Client) {
	t.Helper()

	mongo = NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanCollections(t)

	bookings = NewClient(e.BookingsURL)
	bookings.WaitForHealthy(t, DefaultHealthCheckTimeout)
	coupons = NewClient(e.CouponsURL)
	coupons.WaitForHealthy(t, DefaultHealthCheckTimeout)

	return mongo, bookings, coupons
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanCollections(t)
		mongo.Close(t)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
