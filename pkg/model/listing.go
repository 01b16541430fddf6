package model

import (
	"time"

	"staybook/pkg/money"
)

type Category string

const (
	CategoryHome       Category = "home"
	CategoryExperience Category = "experience"
	CategoryService    Category = "service"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryHome, CategoryExperience, CategoryService:
		return true
	}
	return false
}

// Listing is owned by the host-listing subsystem; bookings only read it.
type Listing struct {
	ID        string       `json:"id,omitempty" bson:"_id,omitempty"`
	HostID    string       `json:"host_id" bson:"host_id"`
	Category  Category     `json:"category" bson:"category"`
	Title     string       `json:"title" bson:"title"`
	Rate      money.Amount `json:"rate" bson:"rate"`
	Capacity  int          `json:"capacity" bson:"capacity"`
	CreatedAt time.Time    `json:"created_at" bson:"created_at"`
}
