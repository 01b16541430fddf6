package model

import (
	"time"

	"staybook/pkg/money"
)

type BookingStatus string

const (
	StatusPending         BookingStatus = "pending"
	StatusActive          BookingStatus = "active"
	StatusCancelRequested BookingStatus = "cancel_requested"
	StatusCanceled        BookingStatus = "canceled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCancelRequested, StatusCanceled:
		return true
	}
	return false
}

func (s BookingStatus) Terminal() bool {
	return s == StatusCanceled
}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Pricing is the snapshot taken at creation; it is never recomputed.
type Pricing struct {
	BasePrice      money.Amount `json:"base_price" bson:"base_price"`
	CouponCode     *string      `json:"coupon_code" bson:"coupon_code"`
	DiscountAmount money.Amount `json:"discount_amount" bson:"discount_amount"`
	TotalAmount    money.Amount `json:"total_amount" bson:"total_amount"`
}

type Booking struct {
	ID            string        `json:"id,omitempty" bson:"_id,omitempty"`
	ListingID     string        `json:"listing_id" bson:"listing_id"`
	GuestID       string        `json:"guest_id" bson:"guest_id"`
	HostID        string        `json:"host_id" bson:"host_id"`
	Category      Category      `json:"category" bson:"category"`
	Schedule      Schedule      `json:"schedule" bson:"schedule"`
	Pricing       Pricing       `json:"pricing" bson:"pricing"`
	Status        BookingStatus `json:"status" bson:"status"`
	PaymentStatus PaymentStatus `json:"payment_status" bson:"payment_status"`
	LedgerError   *string       `json:"ledger_error,omitempty" bson:"ledger_error,omitempty"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at" bson:"updated_at"`
}

// StatusChange describes a conditional write: it applies only while the stored
// booking still has From/FromPayment.
type StatusChange struct {
	From        BookingStatus
	FromPayment PaymentStatus
	To          BookingStatus
	ToPayment   PaymentStatus
}

// CreateBookingRequest is what a guest submits.
type CreateBookingRequest struct {
	ListingID  string   `json:"listing_id" validate:"required,mongodb"`
	Schedule   Schedule `json:"schedule"`
	CouponCode string   `json:"coupon_code,omitempty" validate:"omitempty,max=64"`
}

type BookingFilter struct {
	GuestID string
	HostID  string
	Status  *BookingStatus
}
