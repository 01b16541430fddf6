package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "staybook/internal/bookings/errors"
	"staybook/internal/bookings/lifecycle"
	"staybook/internal/bookings/notifier"
	"staybook/internal/bookings/repository"
	"staybook/internal/bookings/validator"
	couponservice "staybook/internal/coupons/service"
	listingserrors "staybook/internal/listings/errors"
	listingsrepository "staybook/internal/listings/repository"
	"staybook/internal/pricing"
	"staybook/pkg/client"
	"staybook/pkg/config"
	apperrors "staybook/pkg/errors"
	"staybook/pkg/metrics"
	"staybook/pkg/model"
	"staybook/pkg/money"
	"staybook/pkg/validation"

	"go.mongodb.org/mongo-driver/mongo"
)

const eventCreate = "create"

// Ledger is the payment ledger. Both calls are idempotent per booking.
type Ledger interface {
	Capture(ctx context.Context, guestID string, amount money.Amount, bookingID string) error
	Refund(ctx context.Context, bookingID string) error
}

type BookingService interface {
	Create(ctx context.Context, actor model.Actor, req *model.CreateBookingRequest) (*model.Booking, error)
	Quote(ctx context.Context, actor model.Actor, req *model.CreateBookingRequest) (*model.Pricing, error)
	GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	List(ctx context.Context, actor model.Actor, status *model.BookingStatus, limit int, offset int64) ([]*model.Booking, int64, error)

	Approve(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	Reject(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	RequestCancellation(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
	ApproveCancellation(ctx context.Context, actor model.Actor, id string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	listings  listingsrepository.ListingRepository
	coupons   couponservice.CouponService
	validator *validator.BookingValidator
	ledger    Ledger
	notifier  notifier.Notifier
	cfg       *config.Config
	now       func() time.Time
}

func NewBookingService(
	repo repository.BookingRepository,
	listings listingsrepository.ListingRepository,
	coupons couponservice.CouponService,
	validator *validator.BookingValidator,
	ledger Ledger,
	notifier notifier.Notifier,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		listings:  listings,
		coupons:   coupons,
		validator: validator,
		ledger:    ledger,
		notifier:  notifier,
		cfg:       cfg,
		now:       time.Now,
	}
}

// quote is a priced request that has not been persisted.
type quote struct {
	listing *model.Listing
	pricing model.Pricing
}

func (s *bookingService) Create(ctx context.Context, actor model.Actor, req *model.CreateBookingRequest) (*model.Booking, error) {
	q, err := s.price(ctx, actor, req)
	if err != nil {
		s.cfg.Metrics.Transition(eventCreate, metrics.OutcomeDenied)
		return nil, err
	}

	booking := &model.Booking{
		ListingID:     q.listing.ID,
		GuestID:       actor.ID,
		HostID:        q.listing.HostID,
		Category:      q.listing.Category,
		Schedule:      req.Schedule,
		Pricing:       q.pricing,
		Status:        model.StatusPending,
		PaymentStatus: model.PaymentUnpaid,
	}

	if q.pricing.CouponCode == nil {
		err = s.repo.Create(ctx, booking)
	} else {
		err = s.createWithCoupon(ctx, booking, *q.pricing.CouponCode)
	}
	if err != nil {
		if apperrors.IsAppError(err) {
			s.cfg.Metrics.Transition(eventCreate, metrics.OutcomeDenied)
			return nil, err
		}
		s.cfg.Metrics.Transition(eventCreate, metrics.OutcomeFailure)
		s.cfg.Log.Error("Failed to create booking",
			"listing_id", booking.ListingID,
			"guest_id", booking.GuestID,
			"error", err,
		)
		return nil, apperrors.Internal("Failed to create booking", err)
	}

	s.cfg.Metrics.Transition(eventCreate, metrics.OutcomeSuccess)
	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"listing_id", booking.ListingID,
		"guest_id", booking.GuestID,
		"category", booking.Category,
		"total_amount", booking.Pricing.TotalAmount.String(),
	)
	return booking, nil
}

// createWithCoupon redeems the coupon and inserts the booking in one
// transaction. The discount is recomputed from the coupon as redeemed, so an
// edit between validation and commit cannot apply a stale discount.
func (s *bookingService) createWithCoupon(ctx context.Context, booking *model.Booking, code string) error {
	base := booking.Pricing.BasePrice

	return s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking.ID = ""

		coupon, err := s.coupons.Redeem(sessCtx, code, booking.HostID, booking.GuestID)
		if err != nil {
			return err
		}

		discount := couponservice.Discount(coupon, base)
		booking.Pricing.DiscountAmount = discount
		booking.Pricing.TotalAmount = base.Sub(discount)

		return s.repo.Create(sessCtx, booking)
	})
}

func (s *bookingService) Quote(ctx context.Context, actor model.Actor, req *model.CreateBookingRequest) (*model.Pricing, error) {
	q, err := s.price(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	return &q.pricing, nil
}

// price validates the request, loads the listing and computes the pricing
// snapshot. A coupon that fails validation is surfaced, never dropped.
func (s *bookingService) price(ctx context.Context, actor model.Actor, req *model.CreateBookingRequest) (*quote, error) {
	if actor.Role != model.RoleGuest || actor.ID == "" {
		return nil, apperrors.Forbidden("Only guests can book listings")
	}

	if err := s.validator.ValidateRequest(req); err != nil {
		s.cfg.Log.Warn("Booking request validation failed",
			"listing_id", req.ListingID,
			"guest_id", actor.ID,
			"error", err,
		)
		return nil, validationError("Booking validation failed", err)
	}

	listing, err := s.listings.FindByID(ctx, req.ListingID)
	if err != nil {
		if errors.Is(err, listingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Listing", req.ListingID)
		}
		if errors.Is(err, listingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid listing ID format")
		}
		s.cfg.Log.Error("Failed to load listing", "listing_id", req.ListingID, "error", err)
		return nil, apperrors.Internal("Failed to load listing", err)
	}

	today := model.NewDate(s.now().UTC().Date())
	if err := s.validator.ValidateForListing(req.Schedule, listing, today); err != nil {
		return nil, validationError("Booking validation failed", err)
	}

	base, err := pricing.BasePrice(listing.Category, req.Schedule, listing.Rate)
	if err != nil {
		if errors.Is(err, pricing.ErrNegativeRate) {
			s.cfg.Log.Error("Listing has a negative rate", "listing_id", listing.ID)
			return nil, apperrors.Internal("Listing is misconfigured", err)
		}
		return nil, apperrors.Validation("Booking validation failed", map[string]any{"schedule": err.Error()})
	}

	snapshot := model.Pricing{
		BasePrice:      base,
		DiscountAmount: money.Zero,
		TotalAmount:    base,
	}

	if req.CouponCode != "" {
		code := model.NormalizeCouponCode(req.CouponCode)
		result, err := s.coupons.Validate(ctx, code, listing.HostID, base, actor.ID)
		if err != nil {
			return nil, err
		}
		if !result.Valid {
			s.cfg.Log.Info("Coupon rejected for booking",
				"listing_id", listing.ID,
				"guest_id", actor.ID,
				"code", code,
				"reason", result.Reason,
			)
			return nil, apperrors.CouponRejected(code, string(result.Reason))
		}
		snapshot.CouponCode = &code
		snapshot.DiscountAmount = result.DiscountAmount
		snapshot.TotalAmount = base.Sub(result.DiscountAmount)
	}

	return &quote{listing: listing, pricing: snapshot}, nil
}

func (s *bookingService) GetByID(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsGuest(booking.GuestID) && !actor.IsHost(booking.HostID) {
		return nil, apperrors.Forbidden("Booking belongs to another guest or host")
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, actor model.Actor, status *model.BookingStatus, limit int, offset int64) ([]*model.Booking, int64, error) {
	var filter model.BookingFilter
	switch actor.Role {
	case model.RoleGuest:
		filter.GuestID = actor.ID
	case model.RoleHost:
		filter.HostID = actor.ID
	default:
		return nil, 0, apperrors.Forbidden("Unknown role")
	}
	if status != nil {
		if !status.Valid() {
			return nil, 0, apperrors.InvalidInput("Unknown booking status: " + string(*status))
		}
		filter.Status = status
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	count, err := s.repo.Count(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "actor_id", actor.ID, "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}
	bookings, err := s.repo.Find(ctx, filter, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings",
			"actor_id", actor.ID,
			"limit", limit,
			"offset", offset,
			"error", err,
		)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, count, nil
}

func (s *bookingService) Approve(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	return s.transition(ctx, actor, id, lifecycle.EventApprove)
}

func (s *bookingService) Reject(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	return s.transition(ctx, actor, id, lifecycle.EventReject)
}

func (s *bookingService) RequestCancellation(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	return s.transition(ctx, actor, id, lifecycle.EventRequestCancellation)
}

func (s *bookingService) ApproveCancellation(ctx context.Context, actor model.Actor, id string) (*model.Booking, error) {
	return s.transition(ctx, actor, id, lifecycle.EventApproveCancellation)
}

// transition plans the event, runs its ledger effect and then writes the new
// status conditionally. A failed effect leaves the status untouched.
func (s *bookingService) transition(ctx context.Context, actor model.Actor, id string, event lifecycle.Event) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	plan, err := lifecycle.Plan(booking, event, actor)
	if err != nil {
		s.cfg.Metrics.Transition(string(event), metrics.OutcomeDenied)
		s.cfg.Log.Warn("Booking transition refused",
			"id", id,
			"event", event,
			"status", booking.Status,
			"actor_id", actor.ID,
			"actor_role", actor.Role,
			"error", err,
		)
		return nil, planError(err, booking, event)
	}

	if err := s.applyEffect(ctx, booking, plan); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, booking.ID, plan.Change)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStaleState) {
			s.cfg.Metrics.Transition(string(event), metrics.OutcomeStale)
			s.cfg.Log.Warn("Booking transition lost a race",
				"id", id,
				"event", event,
				"expected_status", plan.Change.From,
			)
			if plan.Effect == lifecycle.EffectCapture {
				s.compensateCapture(ctx, booking.ID)
			}
			return nil, apperrors.StaleState("Booking", id)
		}
		s.cfg.Metrics.Transition(string(event), metrics.OutcomeFailure)
		s.reconcileEffect(ctx, booking.ID, plan, err)
		return nil, s.mapRepoError(err, id, "Failed to update booking")
	}

	s.cfg.Metrics.Transition(string(event), metrics.OutcomeSuccess)
	s.cfg.Log.Info("Booking transitioned",
		"id", id,
		"event", event,
		"from", plan.Change.From,
		"to", updated.Status,
		"payment_status", updated.PaymentStatus,
		"actor_id", actor.ID,
	)

	switch event {
	case lifecycle.EventApprove:
		s.notifier.Notify(ctx, notifier.EventBookingApproved, updated)
	case lifecycle.EventApproveCancellation:
		s.notifier.Notify(ctx, notifier.EventCancellationApproved, updated)
	}

	return updated, nil
}

func (s *bookingService) applyEffect(ctx context.Context, booking *model.Booking, plan lifecycle.Transition) error {
	var (
		operation string
		err       error
	)
	switch plan.Effect {
	case lifecycle.EffectCapture:
		operation = client.OperationCapture
		err = s.ledger.Capture(ctx, booking.GuestID, booking.Pricing.TotalAmount, booking.ID)
	case lifecycle.EffectRefund:
		operation = client.OperationRefund
		err = s.ledger.Refund(ctx, booking.ID)
	default:
		return nil
	}
	if err == nil {
		return nil
	}

	s.cfg.Metrics.Transition(string(plan.Event), metrics.OutcomeFailure)
	s.cfg.Log.Error("Ledger call failed, booking left unchanged",
		"id", booking.ID,
		"operation", operation,
		"status", booking.Status,
		"error", err,
	)

	s.recordLedgerError(ctx, booking.ID, operation+": "+err.Error())
	return apperrors.LedgerFailure(operation, err)
}

// reconcileEffect handles a ledger effect that went through while the status
// write failed for a reason other than a lost race.
func (s *bookingService) reconcileEffect(ctx context.Context, id string, plan lifecycle.Transition, writeErr error) {
	switch plan.Effect {
	case lifecycle.EffectCapture:
		s.compensateCapture(ctx, id)
	case lifecycle.EffectRefund:
		// the refund is idempotent; retrying the event finishes the write
		s.recordLedgerError(ctx, id, "refund applied but status not recorded: "+writeErr.Error())
	}
}

func (s *bookingService) recordLedgerError(ctx context.Context, id, message string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()
	if err := s.repo.SetLedgerError(ctx, id, message); err != nil {
		s.cfg.Log.Error("Failed to record ledger error on booking", "id", id, "error", err)
	}
}

// compensateCapture refunds a capture whose status write did not land,
// unless the booking is paid: a concurrent approve won with the same capture,
// or the write committed before its error was reported.
func (s *bookingService) compensateCapture(ctx context.Context, id string) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.cfg.Log.Error("Failed to reload booking after approve, capture not compensated",
			"id", id,
			"error", err,
		)
		return
	}
	if current.PaymentStatus == model.PaymentPaid {
		return
	}

	if err := s.ledger.Refund(ctx, id); err != nil {
		s.cfg.Log.Error("Compensating refund failed", "id", id, "error", err)
		s.recordLedgerError(ctx, id, "compensating refund: "+err.Error())
		return
	}
	s.cfg.Log.Warn("Refunded capture of an unrecorded approve", "id", id, "status", current.Status)
}

func (s *bookingService) load(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapRepoError(err, id, "Failed to retrieve booking")
	}
	return booking, nil
}

func (s *bookingService) mapRepoError(err error, id, message string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	s.cfg.Log.Error(message, "id", id, "error", err)
	return apperrors.Internal(message, err)
}

func planError(err error, booking *model.Booking, event lifecycle.Event) error {
	switch {
	case errors.Is(err, lifecycle.ErrForbidden):
		return apperrors.Forbidden("Not allowed to " + string(event) + " this booking")
	case errors.Is(err, lifecycle.ErrInvalidTransition):
		return apperrors.InvalidTransition(string(booking.Status), string(event))
	default:
		return apperrors.InvalidInput(err.Error())
	}
}

func validationError(message string, err error) error {
	var fieldErrs validation.ValidationErrors
	if errors.As(err, &fieldErrs) {
		return apperrors.Validation(message, fieldErrs.Fields())
	}
	return apperrors.Validation(message, map[string]any{"error": err.Error()})
}
