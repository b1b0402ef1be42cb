package rents

import (
	"time"

	"staymarket/internal/domain/catalog"
	"staymarket/internal/domain/shared/daterange"
)

type RentBooked struct {
	RentID    RentID
	ProductID catalog.ProductID
	GuestID   string
	Range     daterange.DateRange
	Snapshot  PricingSnapshot
	At        time.Time
}

func (e RentBooked) EventName() string     { return "pricing.rent_booked" }
func (e RentBooked) AggregateID() string   { return string(e.RentID) }
func (e RentBooked) OccurredAt() time.Time { return e.At }

type RentCancelled struct {
	RentID RentID
	Reason string
	At     time.Time
}

func (e RentCancelled) EventName() string     { return "pricing.rent_cancelled" }
func (e RentCancelled) AggregateID() string   { return string(e.RentID) }
func (e RentCancelled) OccurredAt() time.Time { return e.At }
