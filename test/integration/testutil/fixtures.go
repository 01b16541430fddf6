//go:build integration

package testutil

import (
	"time"

	"staybook/pkg/model"
	"staybook/pkg/money"
)

type ListingBuilder struct {
	listing model.Listing
}

func NewListingBuilder(hostID string) *ListingBuilder {
	return &ListingBuilder{
		listing: model.Listing{
			HostID:    hostID,
			Category:  model.CategoryHome,
			Title:     "Test Listing",
			Rate:      money.New(2000),
			Capacity:  4,
			CreatedAt: time.Now(),
		},
	}
}

func (b *ListingBuilder) WithCategory(category model.Category) *ListingBuilder {
	b.listing.Category = category
	return b
}

func (b *ListingBuilder) WithRate(rate money.Amount) *ListingBuilder {
	b.listing.Rate = rate
	return b
}

func (b *ListingBuilder) WithCapacity(capacity int) *ListingBuilder {
	b.listing.Capacity = capacity
	return b
}

func (b *ListingBuilder) Build() *model.Listing {
	listing := b.listing
	return &listing
}

// Days returns a date n days from today (UTC).
func Days(n int) model.Date {
	now := time.Now().UTC().AddDate(0, 0, n)
	return model.NewDate(now.Year(), now.Month(), now.Day())
}

func HomeBooking(listingID string, checkIn, checkOut model.Date, guests int, coupon string) model.CreateBookingRequest {
	return model.CreateBookingRequest{
		ListingID:  listingID,
		Schedule:   model.Schedule{Home: &model.HomeStay{CheckIn: checkIn, CheckOut: checkOut, Guests: guests}},
		CouponCode: coupon,
	}
}

func PercentageCoupon(code string, percent int64) model.Coupon {
	return model.Coupon{
		Code:          code,
		DiscountType:  model.DiscountPercentage,
		DiscountValue: money.New(percent),
		IsActive:      true,
	}
}
