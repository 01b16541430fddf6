package service

import (
	"context"
	"errors"
	"time"

	couponserrors "staybook/internal/coupons/errors"
	"staybook/internal/coupons/repository"
	"staybook/internal/coupons/validator"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/model"
	"staybook/pkg/money"
	"staybook/pkg/validation"
)

const (
	redeemRedeemed = "redeemed"
	redeemRejected = "rejected"
	redeemError    = "error"
)

// Validation is the result of checking a code against a guest and a price.
type Validation struct {
	Code           string               `json:"code"`
	Valid          bool                 `json:"valid"`
	DiscountAmount money.Amount         `json:"discount_amount"`
	Reason         couponserrors.Reason `json:"reason,omitempty"`
}

type CouponService interface {
	Create(ctx context.Context, actor model.Actor, coupon *model.Coupon) error
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Coupon, error)
	List(ctx context.Context, actor model.Actor, limit int, offset int64) ([]*model.Coupon, int64, error)
	Update(ctx context.Context, actor model.Actor, id string, updates *model.CouponUpdate) (*model.Coupon, error)
	Delete(ctx context.Context, actor model.Actor, id string) error

	// Validate never mutates the coupon.
	Validate(ctx context.Context, code, hostID string, candidateTotal money.Amount, guestID string) (*Validation, error)
	// Redeem consumes one use for guestID. Call it only while persisting the
	// booking that carries the discount.
	Redeem(ctx context.Context, code, hostID, guestID string) (*model.Coupon, error)
}

type couponService struct {
	repo      repository.CouponRepository
	validator *validator.CouponValidator
	cfg       *config.Config
	now       func() time.Time
}

func NewCouponService(
	repo repository.CouponRepository,
	validator *validator.CouponValidator,
	cfg *config.Config,
) CouponService {
	return &couponService{
		repo:      repo,
		validator: validator,
		cfg:       cfg,
		now:       time.Now,
	}
}

// Discount caps the reduction at the amount being discounted.
func Discount(coupon *model.Coupon, total money.Amount) money.Amount {
	var discount money.Amount
	switch coupon.DiscountType {
	case model.DiscountPercentage:
		discount = total.Percent(coupon.DiscountValue.Decimal())
	default:
		discount = coupon.DiscountValue
	}
	if discount.IsNegative() {
		return money.Zero
	}
	return money.Min(total, discount)
}

// Reject returns the reason coupon cannot be redeemed by guestID, or "" if it can.
func Reject(coupon *model.Coupon, guestID string, now time.Time) couponserrors.Reason {
	switch {
	case coupon == nil:
		return couponserrors.ReasonNotFound
	case !coupon.IsActive:
		return couponserrors.ReasonInactive
	case coupon.IsExpired(now):
		return couponserrors.ReasonExpired
	case coupon.UsedByGuest(guestID):
		return couponserrors.ReasonAlreadyUsed
	}
	return ""
}

func (s *couponService) Create(ctx context.Context, actor model.Actor, coupon *model.Coupon) error {
	if actor.Role != model.RoleHost {
		return apperrors.Forbidden("Only hosts can create coupons")
	}

	coupon.ID = ""
	coupon.HostID = actor.ID
	coupon.Code = model.NormalizeCouponCode(coupon.Code)
	coupon.UsedBy = []string{}

	if err := s.validator.Validate(coupon, s.now()); err != nil {
		s.cfg.Log.Warn("Coupon validation failed",
			"host_id", actor.ID,
			"code", coupon.Code,
			"error", err,
		)
		return validationError("Coupon validation failed", err)
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if errors.Is(err, couponserrors.ErrDuplicateCode) {
			return apperrors.Conflict("Coupon code already exists")
		}
		s.cfg.Log.Error("Failed to create coupon",
			"host_id", actor.ID,
			"code", coupon.Code,
			"error", err,
		)
		return apperrors.Internal("Failed to create coupon", err)
	}

	s.cfg.Log.Info("Coupon created successfully",
		"id", coupon.ID,
		"host_id", coupon.HostID,
		"code", coupon.Code,
		"discount_type", coupon.DiscountType,
	)
	return nil
}

func (s *couponService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Coupon, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Coupon ID cannot be empty")
	}

	coupon, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve coupon")
	}
	if !actor.IsHost(coupon.HostID) {
		return nil, apperrors.Forbidden("Coupon belongs to another host")
	}
	return coupon, nil
}

func (s *couponService) List(ctx context.Context, actor model.Actor, limit int, offset int64) ([]*model.Coupon, int64, error) {
	if actor.Role != model.RoleHost {
		return nil, 0, apperrors.Forbidden("Only hosts can list coupons")
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	count, err := s.repo.CountByHost(ctx, actor.ID)
	if err != nil {
		s.cfg.Log.Error("Failed to count coupons", "host_id", actor.ID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count coupons", err)
	}
	coupons, err := s.repo.FindByHost(ctx, actor.ID, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list coupons",
			"host_id", actor.ID,
			"limit", limit,
			"offset", offset,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to retrieve coupons", err)
	}
	return coupons, count, nil
}

func (s *couponService) Update(ctx context.Context, actor model.Actor, id string, updates *model.CouponUpdate) (*model.Coupon, error) {
	existing, err := s.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if err := s.validator.ValidateUpdate(updates); err != nil {
		return nil, validationError("Coupon update validation failed", err)
	}

	merged := mergeCouponUpdates(existing, updates)
	if err := s.validator.Validate(merged, s.now()); err != nil {
		s.cfg.Log.Warn("Coupon validation failed",
			"id", id,
			"host_id", actor.ID,
			"error", err,
		)
		return nil, validationError("Coupon validation failed", err)
	}

	if err := s.repo.Replace(ctx, merged); err != nil {
		if errors.Is(err, couponserrors.ErrDuplicateCode) {
			return nil, apperrors.Conflict("Coupon code already exists")
		}
		return nil, s.mapRepoError(err, id, "Failed to update coupon")
	}

	// used_by may have grown since the read; return what is stored.
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to reload coupon")
	}

	s.cfg.Log.Info("Coupon updated successfully",
		"id", id,
		"code", updated.Code,
		"is_active", updated.IsActive,
	)
	return updated, nil
}

func (s *couponService) Delete(ctx context.Context, actor model.Actor, id string) error {
	if _, err := s.GetByID(ctx, actor, id); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id, actor.ID); err != nil {
		return s.mapRepoError(err, id, "Failed to delete coupon")
	}

	s.cfg.Log.Info("Coupon deleted successfully", "id", id, "host_id", actor.ID)
	return nil
}

func (s *couponService) Validate(ctx context.Context, code, hostID string, candidateTotal money.Amount, guestID string) (*Validation, error) {
	code = model.NormalizeCouponCode(code)
	if code == "" || hostID == "" {
		return nil, apperrors.InvalidInput("Coupon code and host ID are required")
	}
	if candidateTotal.IsNegative() {
		return nil, apperrors.InvalidInput("Amount cannot be negative")
	}

	result := &Validation{Code: code, DiscountAmount: money.Zero}

	coupon, err := s.repo.FindByCode(ctx, hostID, code)
	if err != nil && !errors.Is(err, couponserrors.ErrNotFound) {
		s.cfg.Log.Error("Failed to look up coupon",
			"host_id", hostID,
			"code", code,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to validate coupon", err)
	}

	if reason := Reject(coupon, guestID, s.now()); reason != "" {
		result.Reason = reason
		return result, nil
	}

	result.Valid = true
	result.DiscountAmount = Discount(coupon, candidateTotal)
	return result, nil
}

func (s *couponService) Redeem(ctx context.Context, code, hostID, guestID string) (*model.Coupon, error) {
	code = model.NormalizeCouponCode(code)
	now := s.now()

	coupon, err := s.repo.Redeem(ctx, hostID, code, guestID, now)
	if err == nil {
		s.cfg.Metrics.CouponRedemption(redeemRedeemed)
		s.cfg.Log.Info("Coupon redeemed",
			"coupon_id", coupon.ID,
			"code", code,
			"guest_id", guestID,
		)
		return coupon, nil
	}

	if !errors.Is(err, couponserrors.ErrNotRedeemable) {
		s.cfg.Metrics.CouponRedemption(redeemError)
		s.cfg.Log.Error("Failed to redeem coupon",
			"host_id", hostID,
			"code", code,
			"guest_id", guestID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to redeem coupon", err)
	}

	s.cfg.Metrics.CouponRedemption(redeemRejected)
	reason := s.classify(ctx, hostID, code, guestID, now)
	s.cfg.Log.Warn("Coupon redemption rejected",
		"host_id", hostID,
		"code", code,
		"guest_id", guestID,
		"reason", reason,
	)
	return nil, apperrors.CouponRejected(code, string(reason))
}

// classify re-reads a coupon after a failed conditional redeem. A coupon that
// looks redeemable again was consumed by a concurrent request from the guest.
func (s *couponService) classify(ctx context.Context, hostID, code, guestID string, now time.Time) couponserrors.Reason {
	coupon, err := s.repo.FindByCode(ctx, hostID, code)
	if err != nil {
		if errors.Is(err, couponserrors.ErrNotFound) {
			return couponserrors.ReasonNotFound
		}
		return couponserrors.ReasonAlreadyUsed
	}
	if reason := Reject(coupon, guestID, now); reason != "" {
		return reason
	}
	return couponserrors.ReasonAlreadyUsed
}

func (s *couponService) mapRepoError(err error, id, message string) error {
	if errors.Is(err, couponserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Coupon", id)
	}
	if errors.Is(err, couponserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid coupon ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func mergeCouponUpdates(existing *model.Coupon, updates *model.CouponUpdate) *model.Coupon {
	merged := *existing
	if updates.Code != nil {
		merged.Code = model.NormalizeCouponCode(*updates.Code)
	}
	if updates.DiscountType != nil {
		merged.DiscountType = *updates.DiscountType
	}
	if updates.DiscountValue != nil {
		merged.DiscountValue = *updates.DiscountValue
	}
	if updates.IsActive != nil {
		merged.IsActive = *updates.IsActive
	}
	if updates.ExpiresAt != nil {
		expiresAt := *updates.ExpiresAt
		merged.ExpiresAt = &expiresAt
	}
	if updates.ClearExpiry {
		merged.ExpiresAt = nil
	}
	return &merged
}

func validationError(message string, err error) error {
	var fieldErrs validation.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.Validation(message, fieldErrs.Fields())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}
