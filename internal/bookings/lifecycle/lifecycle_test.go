package lifecycle

import (
	"errors"
	"testing"

	"staybook/pkg/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	host  = model.Actor{ID: "host-1", Role: model.RoleHost}
	guest = model.Actor{ID: "guest-1", Role: model.RoleGuest}
)

func booking(status model.BookingStatus, payment model.PaymentStatus) *model.Booking {
	return &model.Booking{
		ID:            "b1",
		GuestID:       guest.ID,
		HostID:        host.ID,
		Status:        status,
		PaymentStatus: payment,
	}
}

func actorFor(event Event) model.Actor {
	if event == EventRequestCancellation {
		return guest
	}
	return host
}

func TestPlan_AllowedTransitions(t *testing.T) {
	tests := []struct {
		event   Event
		status  model.BookingStatus
		payment model.PaymentStatus
		to      model.BookingStatus
		toPay   model.PaymentStatus
		effect  Effect
	}{
		{EventApprove, model.StatusPending, model.PaymentUnpaid, model.StatusActive, model.PaymentPaid, EffectCapture},
		{EventReject, model.StatusPending, model.PaymentUnpaid, model.StatusCanceled, model.PaymentUnpaid, EffectNone},
		{EventRequestCancellation, model.StatusPending, model.PaymentUnpaid, model.StatusCancelRequested, model.PaymentUnpaid, EffectNone},
		{EventRequestCancellation, model.StatusActive, model.PaymentPaid, model.StatusCancelRequested, model.PaymentPaid, EffectNone},
		{EventApproveCancellation, model.StatusCancelRequested, model.PaymentPaid, model.StatusCanceled, model.PaymentRefunded, EffectRefund},
		{EventApproveCancellation, model.StatusCancelRequested, model.PaymentUnpaid, model.StatusCanceled, model.PaymentUnpaid, EffectNone},
	}

	for _, tt := range tests {
		t.Run(string(tt.event)+"/"+string(tt.status)+"/"+string(tt.payment), func(t *testing.T) {
			tr, err := Plan(booking(tt.status, tt.payment), tt.event, actorFor(tt.event))
			require.NoError(t, err)
			assert.Equal(t, tt.status, tr.Change.From)
			assert.Equal(t, tt.payment, tr.Change.FromPayment)
			assert.Equal(t, tt.to, tr.Change.To)
			assert.Equal(t, tt.toPay, tr.Change.ToPayment)
			assert.Equal(t, tt.effect, tr.Effect)
		})
	}
}

// Every (status, event) pair outside the table must fail.
func TestPlan_TableIsExhaustive(t *testing.T) {
	allowed := map[model.BookingStatus][]Event{
		model.StatusPending:         {EventApprove, EventReject, EventRequestCancellation},
		model.StatusActive:          {EventRequestCancellation},
		model.StatusCancelRequested: {EventApproveCancellation},
		model.StatusCanceled:        {},
	}

	for status, events := range allowed {
		for _, event := range Events() {
			payment := model.PaymentUnpaid
			if status == model.StatusActive {
				payment = model.PaymentPaid
			}
			_, err := Plan(booking(status, payment), event, actorFor(event))

			isAllowed := false
			for _, e := range events {
				if e == event {
					isAllowed = true
				}
			}
			if isAllowed {
				assert.NoError(t, err, "%s from %s", event, status)
			} else {
				assert.ErrorIs(t, err, ErrInvalidTransition, "%s from %s", event, status)
			}
		}
	}
}

func TestPlan_Authorization(t *testing.T) {
	otherHost := model.Actor{ID: "host-2", Role: model.RoleHost}
	otherGuest := model.Actor{ID: "guest-2", Role: model.RoleGuest}
	// a guest id that happens to equal the host id still lacks the host role
	impostor := model.Actor{ID: host.ID, Role: model.RoleGuest}

	tests := []struct {
		name   string
		event  Event
		status model.BookingStatus
		actor  model.Actor
	}{
		{"other host approves", EventApprove, model.StatusPending, otherHost},
		{"guest approves", EventApprove, model.StatusPending, guest},
		{"role mismatch", EventReject, model.StatusPending, impostor},
		{"other guest cancels", EventRequestCancellation, model.StatusActive, otherGuest},
		{"host requests cancellation", EventRequestCancellation, model.StatusActive, host},
		{"guest approves cancellation", EventApproveCancellation, model.StatusCancelRequested, guest},
		{"empty actor", EventApprove, model.StatusPending, model.Actor{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Plan(booking(tt.status, model.PaymentUnpaid), tt.event, tt.actor)
			assert.ErrorIs(t, err, ErrForbidden)
		})
	}
}

func TestPlan_AuthorizationCheckedBeforeLegality(t *testing.T) {
	_, err := Plan(booking(model.StatusCanceled, model.PaymentRefunded), EventApprove, guest)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestPlan_ApproveRequiresUnpaid(t *testing.T) {
	_, err := Plan(booking(model.StatusPending, model.PaymentPaid), EventApprove, host)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestPlan_UnknownEvent(t *testing.T) {
	_, err := Plan(booking(model.StatusPending, model.PaymentUnpaid), Event("reactivate"), host)
	assert.True(t, errors.Is(err, ErrUnknownEvent))
}

func TestPlan_DoesNotMutateBooking(t *testing.T) {
	b := booking(model.StatusPending, model.PaymentUnpaid)
	_, err := Plan(b, EventApprove, host)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, b.Status)
	assert.Equal(t, model.PaymentUnpaid, b.PaymentStatus)
}
