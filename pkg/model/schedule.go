package model

import "errors"

var (
	ErrScheduleMissing   = errors.New("schedule must set exactly one of home, experience or service")
	ErrScheduleAmbiguous = errors.New("schedule sets more than one of home, experience or service")
)

type HomeStay struct {
	CheckIn  Date `json:"check_in" bson:"check_in"`
	CheckOut Date `json:"check_out" bson:"check_out"`
	Guests   int  `json:"guests" bson:"guests" validate:"min=1"`
}

type ExperienceSlot struct {
	BookingDate Date   `json:"booking_date" bson:"booking_date"`
	BookingTime string `json:"booking_time" bson:"booking_time" validate:"required,hhmm"`
	GroupSize   int    `json:"group_size" bson:"group_size" validate:"min=1"`
}

type ServiceSlot struct {
	BookingDate Date   `json:"booking_date" bson:"booking_date"`
	BookingTime string `json:"booking_time" bson:"booking_time" validate:"required,hhmm"`
}

// Schedule is a variant keyed by listing category: exactly one field is set.
type Schedule struct {
	Home       *HomeStay       `json:"home,omitempty" bson:"home,omitempty" validate:"omitempty"`
	Experience *ExperienceSlot `json:"experience,omitempty" bson:"experience,omitempty" validate:"omitempty"`
	Service    *ServiceSlot    `json:"service,omitempty" bson:"service,omitempty" validate:"omitempty"`
}

func (s Schedule) Category() (Category, error) {
	var (
		category Category
		set      int
	)
	if s.Home != nil {
		category = CategoryHome
		set++
	}
	if s.Experience != nil {
		category = CategoryExperience
		set++
	}
	if s.Service != nil {
		category = CategoryService
		set++
	}
	switch set {
	case 0:
		return "", ErrScheduleMissing
	case 1:
		return category, nil
	default:
		return "", ErrScheduleAmbiguous
	}
}

// Party is the number of people the schedule reserves for.
func (s Schedule) Party() int {
	switch {
	case s.Home != nil:
		return s.Home.Guests
	case s.Experience != nil:
		return s.Experience.GroupSize
	default:
		return 0
	}
}
