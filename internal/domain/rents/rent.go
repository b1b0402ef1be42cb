package rents

import (
	"context"
	"time"

	"staymarket/internal/domain/catalog"
	"staymarket/internal/domain/pricing"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/events"
	"staymarket/internal/domain/shared/faults"
	"staymarket/internal/domain/shared/money"
)

var (
	ErrRentNotFound  = faults.NotFoundf("rents: rent not found")
	ErrInvalidState  = faults.Conflictf("rents: invalid state transition")
	ErrGuestRequired = faults.Validationf("rents: guest id required")
	ErrEmptySnapshot = faults.Validationf("rents: pricing snapshot required")
)

type RentID string

type RentState string

const (
	StateBooked     RentState = "BOOKED"
	StateCancelled  RentState = "CANCELLED"
	StateCheckedIn  RentState = "CHECKED_IN"
	StateCheckedOut RentState = "CHECKED_OUT"
)

// PricingSnapshot is the monetary split frozen at booking time. Once a rent
// exists its snapshot never changes, whatever happens to commission
// configuration afterwards.
type PricingSnapshot struct {
	Subtotal          money.Money
	ExtrasTotal       money.Money
	ClientCommission  money.Money
	HostCommission    money.Money
	PlatformAmount    money.Money
	HostAmount        money.Money
	TotalAmount       money.Money
	Nights            int
	BasePricePerNight money.Money
	CalculatedAt      time.Time
}

// SnapshotFromSummary copies the summary fields verbatim.
func SnapshotFromSummary(basePerNight money.Money, s pricing.Summary) PricingSnapshot {
	return PricingSnapshot{
		Subtotal:          s.Subtotal,
		ExtrasTotal:       s.ExtrasTotal,
		ClientCommission:  s.ClientCommission,
		HostCommission:    s.HostCommission,
		PlatformAmount:    s.PlatformAmount,
		HostAmount:        s.HostAmount,
		TotalAmount:       s.TotalAmount,
		Nights:            s.Nights,
		BasePricePerNight: basePerNight,
		CalculatedAt:      s.CalculatedAt,
	}
}

// Rent is a confirmed reservation carrying its frozen pricing snapshot.
type Rent struct {
	ID        RentID
	ProductID catalog.ProductID
	GuestID   string
	Range     daterange.DateRange
	State     RentState
	Snapshot  PricingSnapshot
	CreatedAt time.Time
	UpdatedAt time.Time
	Version   int64
	events.EventRecorder
}

type CreateParams struct {
	ID        RentID
	ProductID catalog.ProductID
	GuestID   string
	Range     daterange.DateRange
	Snapshot  PricingSnapshot
	CreatedAt time.Time
}

// NewRent books a reservation, freezing the snapshot. There is no setter for
// the snapshot: this constructor is the only write.
func NewRent(params CreateParams) (*Rent, error) {
	if params.GuestID == "" {
		return nil, ErrGuestRequired
	}
	if err := params.Range.Validate(); err != nil {
		return nil, faults.Validationf("rents: %v", err)
	}
	if params.Snapshot.Nights <= 0 || params.Snapshot.TotalAmount.Currency == "" {
		return nil, ErrEmptySnapshot
	}
	now := params.CreatedAt.UTC()
	r := &Rent{
		ID:        params.ID,
		ProductID: params.ProductID,
		GuestID:   params.GuestID,
		Range:     params.Range,
		State:     StateBooked,
		Snapshot:  params.Snapshot,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.Record(RentBooked{RentID: r.ID, ProductID: r.ProductID, GuestID: r.GuestID, Range: r.Range, Snapshot: r.Snapshot, At: now})
	return r, nil
}

func (r *Rent) Cancel(reason string, now time.Time) error {
	if r.State != StateBooked {
		return ErrInvalidState
	}
	r.State = StateCancelled
	r.UpdatedAt = now.UTC()
	r.Record(RentCancelled{RentID: r.ID, Reason: reason, At: r.UpdatedAt})
	return nil
}

func (r *Rent) CheckIn(now time.Time) error {
	if r.State != StateBooked {
		return ErrInvalidState
	}
	r.State = StateCheckedIn
	r.UpdatedAt = now.UTC()
	return nil
}

func (r *Rent) CheckOut(now time.Time) error {
	if r.State != StateCheckedIn {
		return ErrInvalidState
	}
	r.State = StateCheckedOut
	r.UpdatedAt = now.UTC()
	return nil
}

type Repository interface {
	ByID(ctx context.Context, id RentID) (*Rent, error)
	Save(ctx context.Context, rent *Rent) error
	ListByGuest(ctx context.Context, guestID string) ([]*Rent, error)
}
