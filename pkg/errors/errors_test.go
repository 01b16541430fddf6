package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestWrap(t *testing.T) {
	originalErr := errors.New("mongo connection failed")
	wrapped := Wrap(originalErr, CodeInternal, "internal error", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if errors.Unwrap(wrapped) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "Booking not found"},
			expected: "NOT_FOUND: Booking not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeLedgerFailure,
				Message: "capture failed",
				Err:     errors.New("503 from ledger"),
			},
			expected: "LEDGER_FAILURE: capture failed (caused by: 503 from ledger)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestConstructors_StatusAndCode(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFoundWithID("Booking", "abc"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad schedule", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad json"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("missing actor"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("not your booking"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("duplicate code"), CodeConflict, http.StatusConflict},
		{"coupon", CouponRejected("SAVE10", "expired"), CodeCouponRejected, http.StatusUnprocessableEntity},
		{"stale", StaleState("Booking", "abc"), CodeStaleState, http.StatusConflict},
		{"transition", InvalidTransition("canceled", "approve"), CodeInvalidTransition, http.StatusConflict},
		{"ledger", LedgerFailure("capture", errors.New("boom")), CodeLedgerFailure, http.StatusBadGateway},
		{"rate limited", RateLimited("slow down"), CodeRateLimited, http.StatusTooManyRequests},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusServiceUnavailable},
		{"internal", Internal("oops", errors.New("boom")), CodeInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.code {
				t.Errorf("expected code %s, got %s", tt.code, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, tt.err.StatusCode())
			}
		})
	}
}

func TestCouponRejected_Details(t *testing.T) {
	err := CouponRejected("SAVE10", "already_used")

	if err.Details["reason"] != "already_used" {
		t.Errorf("expected reason 'already_used', got %v", err.Details["reason"])
	}
	if err.Details["coupon_code"] != "SAVE10" {
		t.Errorf("expected coupon_code 'SAVE10', got %v", err.Details["coupon_code"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := NotFound("Booking")
	regularErr := errors.New("regular error")

	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	wrapped := fmt.Errorf("transaction failed: %w", appErr)
	if AsAppError(wrapped) != appErr {
		t.Errorf("AsAppError() should find AppError through wrapping")
	}

	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}

func TestIsAppErrorAndHasCode(t *testing.T) {
	stale := StaleState("Booking", "1")

	if !IsAppError(stale) {
		t.Errorf("IsAppError() should return true for AppError")
	}
	if IsAppError(errors.New("plain")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
	if !HasCode(fmt.Errorf("wrapped: %w", stale), CodeStaleState) {
		t.Errorf("HasCode() should see through wrapping")
	}
	if HasCode(stale, CodeNotFound) {
		t.Errorf("HasCode() should not match a different code")
	}
}

func TestAppError_ToJSON(t *testing.T) {
	jsonStr := string(NotFoundWithID("Booking", "12345").ToJSON())

	if !strings.Contains(jsonStr, "NOT_FOUND") {
		t.Errorf("ToJSON() should contain error code")
	}
	if !strings.Contains(jsonStr, `"id":"12345"`) {
		t.Errorf("ToJSON() should contain details, got %s", jsonStr)
	}
}
