package promotions

import (
	"context"
	"time"

	"staymarket/internal/domain/catalog"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/faults"
)

var (
	ErrPromotionNotFound = faults.NotFoundf("promotions: promotion not found")
	ErrInvalidDiscount   = faults.Validationf("promotions: discount must be within 0..100")
	ErrInvalidWindow     = faults.Validationf("promotions: end date must not precede start date")
)

type PromotionID string

// Promotion is a percentage discount over an inclusive date range.
// Deactivated rows are retained for audit and never deleted.
type Promotion struct {
	ID              PromotionID
	ProductID       catalog.ProductID
	DiscountPercent float64
	Start           time.Time
	End             time.Time
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Draft carries validated promotion data before a row exists.
type Draft struct {
	ProductID       catalog.ProductID
	DiscountPercent float64
	Start           time.Time
	End             time.Time
}

func NewDraft(productID catalog.ProductID, discountPercent float64, start, end time.Time) (Draft, error) {
	if productID == "" {
		return Draft{}, faults.Validationf("promotions: product id required")
	}
	if discountPercent < 0 || discountPercent > 100 {
		return Draft{}, ErrInvalidDiscount
	}
	start = daterange.Day(start)
	end = daterange.Day(end)
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return Draft{}, ErrInvalidWindow
	}
	return Draft{ProductID: productID, DiscountPercent: discountPercent, Start: start, End: end}, nil
}

// Build materializes the draft as an active promotion row.
func (d Draft) Build(id PromotionID, now time.Time) *Promotion {
	now = now.UTC()
	return &Promotion{
		ID:              id,
		ProductID:       d.ProductID,
		DiscountPercent: d.DiscountPercent,
		Start:           d.Start,
		End:             d.End,
		Active:          true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// AppliesOn reports whether the promotion discounts the given night.
func (p *Promotion) AppliesOn(date time.Time) bool {
	if !p.Active {
		return false
	}
	d := daterange.Day(date)
	return !d.Before(p.Start) && !d.After(p.End)
}

// OverlapsWindow tests closed-interval overlap against [start, end].
// Adjacent ranges (p.End before start) do not overlap.
func (p *Promotion) OverlapsWindow(start, end time.Time) bool {
	start = daterange.Day(start)
	end = daterange.Day(end)
	return !p.Start.After(end) && !start.After(p.End)
}

func (p *Promotion) Deactivate(now time.Time) {
	if !p.Active {
		return
	}
	p.Active = false
	p.UpdatedAt = now.UTC()
}

type Repository interface {
	ByID(ctx context.Context, id PromotionID) (*Promotion, error)
	// ActiveByProduct returns active promotions touching the given stay range.
	ActiveByProduct(ctx context.Context, productID catalog.ProductID, start, end time.Time) ([]*Promotion, error)
	// ActiveOverlapping returns active promotions whose closed window overlaps [start, end].
	ActiveOverlapping(ctx context.Context, productID catalog.ProductID, start, end time.Time) ([]*Promotion, error)
	// ByProduct returns every promotion for the product, deactivated rows included.
	ByProduct(ctx context.Context, productID catalog.ProductID) ([]*Promotion, error)
	Save(ctx context.Context, promotion *Promotion) error
}
