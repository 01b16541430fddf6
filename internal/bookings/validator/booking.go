package validator

import (
	"fmt"

	"staybook/pkg/logger"
	"staybook/pkg/model"
	"staybook/pkg/validation"

	"github.com/go-playground/validator/v10"
)

type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v, err := validation.New()
	if err != nil {
		log.Fatal("Failed to build booking validator", "error", err)
	}

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

// ValidateRequest checks the request shape before any listing is loaded.
func (v *BookingValidator) ValidateRequest(req *model.CreateBookingRequest) error {
	if err := validation.Struct(v.validate, req); err != nil {
		return err
	}
	if _, err := req.Schedule.Category(); err != nil {
		return validation.ValidationErrors{{Field: "schedule", Message: err.Error()}}
	}
	return nil
}

// partyFields names the schedule field that carries the party size.
var partyFields = map[model.Category]string{
	model.CategoryHome:       "guests",
	model.CategoryExperience: "group_size",
}

// ValidateForListing checks the schedule against the listing it books.
// Dates before today are rejected.
func (v *BookingValidator) ValidateForListing(schedule model.Schedule, listing *model.Listing, today model.Date) error {
	category, err := schedule.Category()
	if err != nil {
		return validation.ValidationErrors{{Field: "schedule", Message: err.Error()}}
	}
	if category != listing.Category {
		return validation.ValidationErrors{{
			Field:   "schedule",
			Message: fmt.Sprintf("listing is a %s listing, schedule is for %s", listing.Category, category),
		}}
	}

	var errs validation.ValidationErrors

	switch category {
	case model.CategoryHome:
		home := schedule.Home
		if home.CheckIn.IsZero() {
			errs = append(errs, validation.ValidationError{Field: "schedule.home.check_in", Message: "check_in is required"})
		} else if home.CheckIn.Before(today.Time) {
			errs = append(errs, validation.ValidationError{Field: "schedule.home.check_in", Message: "check_in cannot be in the past"})
		}
		if home.CheckOut.IsZero() {
			errs = append(errs, validation.ValidationError{Field: "schedule.home.check_out", Message: "check_out is required"})
		} else if !home.CheckIn.IsZero() && !home.CheckOut.After(home.CheckIn.Time) {
			errs = append(errs, validation.ValidationError{Field: "schedule.home.check_out", Message: "check_out must be after check_in"})
		}

	case model.CategoryExperience:
		errs = append(errs, checkDate("schedule.experience.booking_date", schedule.Experience.BookingDate, today)...)

	case model.CategoryService:
		errs = append(errs, checkDate("schedule.service.booking_date", schedule.Service.BookingDate, today)...)
	}

	if party := schedule.Party(); party > listing.Capacity {
		field := partyFields[category]
		errs = append(errs, validation.ValidationError{
			Field:   "schedule." + string(category) + "." + field,
			Message: fmt.Sprintf("%s (%d) exceeds listing capacity (%d)", field, party, listing.Capacity),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func checkDate(field string, d model.Date, today model.Date) validation.ValidationErrors {
	if d.IsZero() {
		return validation.ValidationErrors{{Field: field, Message: "booking_date is required"}}
	}
	if d.Before(today.Time) {
		return validation.ValidationErrors{{Field: field, Message: "booking_date cannot be in the past"}}
	}
	return nil
}
