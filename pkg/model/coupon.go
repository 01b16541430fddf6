package model

import (
	"slices"
	"time"

	"staybook/pkg/money"
	"staybook/pkg/sanitizer"
)

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon.DiscountValue holds a percent (0-100) for percentage coupons and an
// amount for fixed ones.
type Coupon struct {
	ID            string       `json:"id,omitempty" bson:"_id,omitempty"`
	HostID        string       `json:"host_id" bson:"host_id"`
	Code          string       `json:"code" bson:"code" validate:"required,coupon_code"`
	DiscountType  DiscountType `json:"discount_type" bson:"discount_type" validate:"required,oneof=percentage fixed"`
	DiscountValue money.Amount `json:"discount_value" bson:"discount_value"`
	IsActive      bool         `json:"is_active" bson:"is_active"`
	ExpiresAt     *time.Time   `json:"expires_at,omitempty" bson:"expires_at,omitempty"`
	UsedBy        []string     `json:"used_by" bson:"used_by"`
	CreatedAt     time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at" bson:"updated_at"`
}

type CouponUpdate struct {
	Code          *string       `json:"code,omitempty" validate:"omitempty,coupon_code"`
	DiscountType  *DiscountType `json:"discount_type,omitempty" validate:"omitempty,oneof=percentage fixed"`
	DiscountValue *money.Amount `json:"discount_value,omitempty"`
	IsActive      *bool         `json:"is_active,omitempty"`
	ExpiresAt     *time.Time    `json:"expires_at,omitempty"`
	ClearExpiry   bool          `json:"clear_expiry,omitempty"`
}

// NormalizeCouponCode is the single place codes are case-folded.
func NormalizeCouponCode(code string) string {
	return sanitizer.CouponCode(code)
}

func (c *Coupon) IsExpired(now time.Time) bool {
	return c.ExpiresAt != nil && !c.ExpiresAt.After(now)
}

func (c *Coupon) UsedByGuest(guestID string) bool {
	return slices.Contains(c.UsedBy, guestID)
}
