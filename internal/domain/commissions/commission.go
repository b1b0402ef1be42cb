package commissions

import (
	"context"
	"time"

	"staymarket/internal/domain/catalog"
	"staymarket/internal/domain/shared/faults"
	"staymarket/internal/domain/shared/money"
)

var (
	ErrCommissionNotFound = faults.NotFoundf("commissions: commission not found")
	ErrSettingsNotFound   = faults.NotFoundf("commissions: no active commission settings")
	ErrTypeTaken          = faults.Conflictf("commissions: property type already has a commission")
)

type CommissionID string

// Rates is the resolved fee configuration applied to a booking subtotal.
// Rate fields are fractional (0.12 = 12%), fixed fields are flat surcharges.
type Rates struct {
	HostRate    float64
	HostFixed   money.Money
	ClientRate  float64
	ClientFixed money.Money
}

func (r Rates) IsZero() bool {
	return r.HostRate == 0 && r.ClientRate == 0 && r.HostFixed.IsZero() && r.ClientFixed.IsZero()
}

// ClientFee is the surcharge added on top of what the guest pays.
func (r Rates) ClientFee(base money.Money) money.Money {
	fee := base.ApplyRate(r.ClientRate)
	fee.Amount += r.ClientFixed.Amount
	return fee
}

// HostFee is the deduction taken from the host payout.
func (r Rates) HostFee(base money.Money) money.Money {
	fee := base.ApplyRate(r.HostRate)
	fee.Amount += r.HostFixed.Amount
	return fee
}

// Commission is the per-property-type fee override. At most one row exists
// per property type.
type Commission struct {
	ID        CommissionID
	TypeID    catalog.PropertyTypeID
	Rates     Rates
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Commission) Toggle(now time.Time) {
	c.Active = !c.Active
	c.UpdatedAt = now.UTC()
}

// Settings is the global fallback used for property types without an
// override; the most recent active row wins.
type Settings struct {
	ID        string
	Rates     Rates
	Active    bool
	CreatedAt time.Time
}

type Store interface {
	ByID(ctx context.Context, id CommissionID) (*Commission, error)
	ByType(ctx context.Context, typeID catalog.PropertyTypeID) (*Commission, error)
	All(ctx context.Context) ([]*Commission, error)
	// Create fails with ErrTypeTaken when the type already has a row.
	Create(ctx context.Context, commission *Commission) error
	// Update fails with ErrTypeTaken when moving onto an occupied type.
	Update(ctx context.Context, commission *Commission) error
	Delete(ctx context.Context, id CommissionID) error
	LatestActiveSettings(ctx context.Context) (*Settings, error)
	SaveSettings(ctx context.Context, settings *Settings) error
}
