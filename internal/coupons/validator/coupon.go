package validator

import (
	"time"

	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/money"
	"staybook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

var maxPercentage = money.New(100)

type CouponValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewCouponValidator(log *logger.Logger) *CouponValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to build coupon validator", "error", err)
	}
	return &CouponValidator{validate: v, logger: log}
}

// Validate checks a complete coupon definition, as created or after an
// update has been merged into it.
func (v *CouponValidator) Validate(c *model.Coupon, now time.Time) error {
	if err := validation.Struct(v.validate, c); err != nil {
		return err
	}
	return v.validateBusinessRules(c, now)
}

func (v *CouponValidator) ValidateUpdate(u *model.CouponUpdate) error {
	if err := validation.Struct(v.validate, u); err != nil {
		return err
	}
	if u.ClearExpiry && u.ExpiresAt != nil {
		return validation.ValidationErrors{{Field: "clear_expiry", Message: "clear_expiry cannot be combined with expires_at"}}
	}
	return nil
}

func (v *CouponValidator) validateBusinessRules(c *model.Coupon, now time.Time) error {
	var errs validation.ValidationErrors

	if c.DiscountValue.IsNegative() {
		errs = append(errs, validation.ValidationError{Field: "discount_value", Message: "discount_value cannot be negative"})
	}
	if c.DiscountType == model.DiscountPercentage && c.DiscountValue.Cmp(maxPercentage) > 0 {
		errs = append(errs, validation.ValidationError{Field: "discount_value", Message: "percentage discount_value must be between 0 and 100"})
	}
	if c.ExpiresAt != nil && !c.ExpiresAt.After(now) && c.ID == "" {
		errs = append(errs, validation.ValidationError{Field: "expires_at", Message: "expires_at must be in the future"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
