// Package lifecycle holds the booking state machine. It is pure: it decides
// whether a transition is allowed and what it implies, and never performs it.
package lifecycle

import (
	"errors"
	"fmt"
	"slices"

	"staybook/pkg/model"
)

var (
	ErrForbidden         = errors.New("actor may not perform this transition")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrUnknownEvent      = errors.New("unknown lifecycle event")
)

type Event string

const (
	EventApprove             Event = "approve"
	EventReject              Event = "reject"
	EventRequestCancellation Event = "request_cancellation"
	EventApproveCancellation Event = "approve_cancellation"
)

// Effect is the ledger call a transition depends on.
type Effect string

const (
	EffectNone    Effect = "none"
	EffectCapture Effect = "capture"
	EffectRefund  Effect = "refund"
)

type Transition struct {
	Event  Event
	Change model.StatusChange
	Effect Effect
}

type rule struct {
	from   []model.BookingStatus
	role   model.Role
	to     model.BookingStatus
	effect Effect
}

// rules is exhaustive; any (status, event) pair not listed is rejected.
var rules = map[Event]rule{
	EventApprove: {
		from:   []model.BookingStatus{model.StatusPending},
		role:   model.RoleHost,
		to:     model.StatusActive,
		effect: EffectCapture,
	},
	EventReject: {
		from:   []model.BookingStatus{model.StatusPending},
		role:   model.RoleHost,
		to:     model.StatusCanceled,
		effect: EffectNone,
	},
	EventRequestCancellation: {
		from:   []model.BookingStatus{model.StatusPending, model.StatusActive},
		role:   model.RoleGuest,
		to:     model.StatusCancelRequested,
		effect: EffectNone,
	},
	EventApproveCancellation: {
		from:   []model.BookingStatus{model.StatusCancelRequested},
		role:   model.RoleHost,
		to:     model.StatusCanceled,
		effect: EffectRefund,
	},
}

func Events() []Event {
	return []Event{EventApprove, EventReject, EventRequestCancellation, EventApproveCancellation}
}

// Plan checks authorization, then legality, and returns the conditional write
// and side effect the event requires.
func Plan(b *model.Booking, event Event, actor model.Actor) (Transition, error) {
	r, ok := rules[event]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s", ErrUnknownEvent, event)
	}

	if !authorized(b, r.role, actor) {
		return Transition{}, fmt.Errorf("%w: %s by %s %s", ErrForbidden, event, actor.Role, actor.ID)
	}

	if b.Status.Terminal() || !slices.Contains(r.from, b.Status) {
		return Transition{}, fmt.Errorf("%w: %s from %s", ErrInvalidTransition, event, b.Status)
	}

	t := Transition{
		Event: event,
		Change: model.StatusChange{
			From:        b.Status,
			FromPayment: b.PaymentStatus,
			To:          r.to,
			ToPayment:   b.PaymentStatus,
		},
		Effect: r.effect,
	}

	switch r.effect {
	case EffectCapture:
		if b.PaymentStatus != model.PaymentUnpaid {
			return Transition{}, fmt.Errorf("%w: %s with payment %s", ErrInvalidTransition, event, b.PaymentStatus)
		}
		t.Change.ToPayment = model.PaymentPaid
	case EffectRefund:
		// a cancellation requested before approval has nothing to refund
		if b.PaymentStatus == model.PaymentPaid {
			t.Change.ToPayment = model.PaymentRefunded
		} else {
			t.Effect = EffectNone
		}
	}
	return t, nil
}

func authorized(b *model.Booking, role model.Role, actor model.Actor) bool {
	switch role {
	case model.RoleHost:
		return actor.IsHost(b.HostID)
	case model.RoleGuest:
		return actor.IsGuest(b.GuestID)
	}
	return false
}
