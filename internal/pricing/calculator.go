package pricing

import (
	"errors"
	"fmt"
	"time"

	"staybook/pkg/model"
	"staybook/pkg/money"
)

var (
	ErrInvalidSchedule  = errors.New("pricing: invalid schedule")
	ErrCategoryMismatch = errors.New("pricing: schedule does not match listing category")
	ErrNegativeRate     = errors.New("pricing: rate cannot be negative")
)

const day = 24 * time.Hour

// BasePrice is the undiscounted price of a schedule at the given rate:
// per night for homes, per person for experiences, flat for services.
// Invalid input is rejected rather than clamped.
func BasePrice(category model.Category, schedule model.Schedule, rate money.Amount) (money.Amount, error) {
	if rate.IsNegative() {
		return money.Zero, ErrNegativeRate
	}

	scheduled, err := schedule.Category()
	if err != nil {
		return money.Zero, fmt.Errorf("%w: %v", ErrInvalidSchedule, err)
	}
	if scheduled != category {
		return money.Zero, fmt.Errorf("%w: listing is %s, schedule is %s", ErrCategoryMismatch, category, scheduled)
	}

	switch category {
	case model.CategoryHome:
		nights, err := Nights(schedule.Home.CheckIn, schedule.Home.CheckOut)
		if err != nil {
			return money.Zero, err
		}
		return rate.MulInt(nights), nil

	case model.CategoryExperience:
		if schedule.Experience.GroupSize < 1 {
			return money.Zero, fmt.Errorf("%w: group size must be at least 1, got %d", ErrInvalidSchedule, schedule.Experience.GroupSize)
		}
		return rate.MulInt(int64(schedule.Experience.GroupSize)), nil

	case model.CategoryService:
		return rate, nil
	}

	return money.Zero, fmt.Errorf("%w: unknown category %q", ErrInvalidSchedule, category)
}

// Nights counts started days between check-in and check-out.
func Nights(checkIn, checkOut model.Date) (int64, error) {
	if checkIn.IsZero() || checkOut.IsZero() {
		return 0, fmt.Errorf("%w: check-in and check-out are required", ErrInvalidSchedule)
	}
	if !checkOut.After(checkIn.Time) {
		return 0, fmt.Errorf("%w: check-out %s must be after check-in %s", ErrInvalidSchedule, checkOut, checkIn)
	}

	span := checkOut.Sub(checkIn.Time)
	nights := int64(span / day)
	if span%day != 0 {
		nights++
	}
	return nights, nil
}
