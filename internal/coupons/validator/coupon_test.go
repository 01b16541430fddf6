package validator

import (
	"testing"
	"time"

	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/money"
	"staybook/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCoupon() *model.Coupon {
	return &model.Coupon{
		HostID:        "host-1",
		Code:          "SAVE10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: money.New(10),
		IsActive:      true,
	}
}

func TestCouponValidator_Validate(t *testing.T) {
	v := NewCouponValidator(logger.Discard())
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	tests := []struct {
		name   string
		mutate func(c *model.Coupon)
		field  string
	}{
		{"valid", func(c *model.Coupon) {}, ""},
		{"fixed zero", func(c *model.Coupon) { c.DiscountType = model.DiscountFixed; c.DiscountValue = money.Zero }, ""},
		{"percentage over 100", func(c *model.Coupon) { c.DiscountValue = money.New(101) }, "discount_value"},
		{"negative fixed", func(c *model.Coupon) { c.DiscountType = model.DiscountFixed; c.DiscountValue = money.New(-5) }, "discount_value"},
		{"bad type", func(c *model.Coupon) { c.DiscountType = "bogo" }, "discount_type"},
		{"bad code", func(c *model.Coupon) { c.Code = "x" }, "code"},
		{"missing code", func(c *model.Coupon) { c.Code = "" }, "code"},
		{"expired on creation", func(c *model.Coupon) { c.ExpiresAt = &past }, "expires_at"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCoupon()
			tt.mutate(c)

			err := v.Validate(c, now)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			var errs validation.ValidationErrors
			require.ErrorAs(t, err, &errs)
			assert.Equal(t, tt.field, errs[0].Field)
		})
	}
}

func TestCouponValidator_ValidateUpdate(t *testing.T) {
	v := NewCouponValidator(logger.Discard())
	soon := time.Now().Add(time.Hour)
	bad := "!"

	assert.NoError(t, v.ValidateUpdate(&model.CouponUpdate{ExpiresAt: &soon}))
	assert.Error(t, v.ValidateUpdate(&model.CouponUpdate{ExpiresAt: &soon, ClearExpiry: true}))
	assert.Error(t, v.ValidateUpdate(&model.CouponUpdate{Code: &bad}))
}
