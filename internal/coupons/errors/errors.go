package errors

import "errors"

var (
	ErrNotFound      = errors.New("coupon not found")
	ErrInvalidID     = errors.New("invalid coupon ID format")
	ErrDuplicateCode = errors.New("coupon code already exists for this host")
	// ErrNotRedeemable means the conditional redeem matched nothing.
	ErrNotRedeemable = errors.New("coupon is not redeemable")
)

// Reason explains why a coupon cannot be applied.
type Reason string

const (
	ReasonNotFound    Reason = "not_found"
	ReasonInactive    Reason = "inactive"
	ReasonExpired     Reason = "expired"
	ReasonAlreadyUsed Reason = "already_used"
)
