package validator

import (
	"strings"
	"testing"
	"time"

	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/money"
	"staybook/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = model.NewDate(2024, time.May, 1)

func homeListing() *model.Listing {
	return &model.Listing{ID: "l1", HostID: "host-1", Category: model.CategoryHome, Rate: money.New(2000), Capacity: 4}
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var errs validation.ValidationErrors
	require.ErrorAs(t, err, &errs)
	require.NotEmpty(t, errs)
	return errs[0].Field
}

func TestValidateRequest(t *testing.T) {
	v := NewBookingValidator(logger.Discard())
	home := &model.HomeStay{CheckIn: model.NewDate(2024, time.June, 1), CheckOut: model.NewDate(2024, time.June, 4), Guests: 2}

	valid := &model.CreateBookingRequest{
		ListingID:  "665f1f77bcf86cd799439011",
		Schedule:   model.Schedule{Home: home},
		CouponCode: "save10",
	}
	assert.NoError(t, v.ValidateRequest(valid))

	oddCode := *valid
	oddCode.CouponCode = "!!"
	assert.NoError(t, v.ValidateRequest(&oddCode), "code shape is left to the coupon lookup")

	tests := []struct {
		name  string
		req   *model.CreateBookingRequest
		field string
	}{
		{"bad listing id", &model.CreateBookingRequest{ListingID: "nope", Schedule: model.Schedule{Home: home}}, "listing_id"},
		{"coupon too long", &model.CreateBookingRequest{ListingID: valid.ListingID, Schedule: model.Schedule{Home: home}, CouponCode: strings.Repeat("A", 65)}, "coupon_code"},
		{"no schedule", &model.CreateBookingRequest{ListingID: valid.ListingID}, "schedule"},
		{"two schedules", &model.CreateBookingRequest{
			ListingID: valid.ListingID,
			Schedule:  model.Schedule{Home: home, Service: &model.ServiceSlot{BookingDate: today, BookingTime: "10:00"}},
		}, "schedule"},
		{"bad time", &model.CreateBookingRequest{
			ListingID: valid.ListingID,
			Schedule:  model.Schedule{Service: &model.ServiceSlot{BookingDate: today, BookingTime: "25:00"}},
		}, "schedule.service.booking_time"},
		{"zero guests", &model.CreateBookingRequest{
			ListingID: valid.ListingID,
			Schedule:  model.Schedule{Home: &model.HomeStay{CheckIn: home.CheckIn, CheckOut: home.CheckOut}},
		}, "schedule.home.guests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.field, fieldOf(t, v.ValidateRequest(tt.req)))
		})
	}
}

func TestValidateForListing(t *testing.T) {
	v := NewBookingValidator(logger.Discard())
	experience := &model.Listing{Category: model.CategoryExperience, Capacity: 4}

	tests := []struct {
		name     string
		schedule model.Schedule
		listing  *model.Listing
		field    string
	}{
		{"home ok", model.Schedule{Home: &model.HomeStay{CheckIn: model.NewDate(2024, time.June, 1), CheckOut: model.NewDate(2024, time.June, 4), Guests: 4}}, homeListing(), ""},
		{"over capacity", model.Schedule{Home: &model.HomeStay{CheckIn: model.NewDate(2024, time.June, 1), CheckOut: model.NewDate(2024, time.June, 4), Guests: 5}}, homeListing(), "schedule.home.guests"},
		{"check out before check in", model.Schedule{Home: &model.HomeStay{CheckIn: model.NewDate(2024, time.June, 4), CheckOut: model.NewDate(2024, time.June, 1), Guests: 1}}, homeListing(), "schedule.home.check_out"},
		{"past check in", model.Schedule{Home: &model.HomeStay{CheckIn: model.NewDate(2024, time.April, 1), CheckOut: model.NewDate(2024, time.June, 1), Guests: 1}}, homeListing(), "schedule.home.check_in"},
		{"category mismatch", model.Schedule{Service: &model.ServiceSlot{BookingDate: today, BookingTime: "09:00"}}, homeListing(), "schedule"},
		{"experience ok", model.Schedule{Experience: &model.ExperienceSlot{BookingDate: today, BookingTime: "09:00", GroupSize: 4}}, experience, ""},
		{"experience too big", model.Schedule{Experience: &model.ExperienceSlot{BookingDate: today, BookingTime: "09:00", GroupSize: 5}}, experience, "schedule.experience.group_size"},
		{"service ignores capacity", model.Schedule{Service: &model.ServiceSlot{BookingDate: today, BookingTime: "09:00"}}, &model.Listing{Category: model.CategoryService}, ""},
		{"service missing date", model.Schedule{Service: &model.ServiceSlot{BookingTime: "09:00"}}, &model.Listing{Category: model.CategoryService}, "schedule.service.booking_date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateForListing(tt.schedule, tt.listing, today)
			if tt.field == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.field, fieldOf(t, err))
		})
	}
}
