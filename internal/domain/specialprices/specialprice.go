package specialprices

import (
	"context"
	"math"
	"sort"
	"time"

	"staymarket/internal/domain/catalog"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/faults"
	"staymarket/internal/domain/shared/money"
)

var ErrSpecialPriceNotFound = faults.NotFoundf("specialprices: special price not found")

type SpecialPriceID string

// SpecialPrice is a fixed nightly override effective on specific weekdays,
// optionally bounded by a date window. An unset bound is open-ended.
type SpecialPrice struct {
	ID        SpecialPriceID
	ProductID catalog.ProductID
	Price     money.Money
	// PriceMGA mirrors the operator-entered ariary amount; display only,
	// all settlement happens in EUR.
	PriceMGA  int64
	Weekdays  []time.Weekday
	Start     *time.Time
	End       *time.Time
	Activate  bool
	CreatedAt time.Time
}

// AppliesOn reports whether the override is effective for the given night.
func (s *SpecialPrice) AppliesOn(date time.Time) bool {
	if !s.Activate {
		return false
	}
	d := daterange.Day(date)
	if !s.weekdayMatches(d.Weekday()) {
		return false
	}
	if s.Start != nil && d.Before(daterange.Day(*s.Start)) {
		return false
	}
	if s.End != nil && d.After(daterange.Day(*s.End)) {
		return false
	}
	return true
}

func (s *SpecialPrice) weekdayMatches(day time.Weekday) bool {
	for _, wd := range s.Weekdays {
		if wd == day {
			return true
		}
	}
	return false
}

// windowSpan measures the explicit date window; open-ended windows sort as
// infinitely wide so a bounded row always wins the tie-break.
func (s *SpecialPrice) windowSpan() int64 {
	if s.Start == nil || s.End == nil {
		return math.MaxInt64
	}
	return int64(daterange.Day(*s.End).Sub(daterange.Day(*s.Start)) / (24 * time.Hour))
}

// BestMatch picks the row applying on the date. When several rows match, the
// narrowest explicit window wins, then the most recently created row.
func BestMatch(rows []*SpecialPrice, date time.Time) (*SpecialPrice, bool) {
	matches := make([]*SpecialPrice, 0, len(rows))
	for _, row := range rows {
		if row.AppliesOn(date) {
			matches = append(matches, row)
		}
	}
	if len(matches) == 0 {
		return nil, false
	}
	sort.SliceStable(matches, func(i, j int) bool {
		si, sj := matches[i].windowSpan(), matches[j].windowSpan()
		if si != sj {
			return si < sj
		}
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})
	return matches[0], true
}

type Repository interface {
	ByID(ctx context.Context, id SpecialPriceID) (*SpecialPrice, error)
	// ActiveByProduct returns activated rows for the product; weekday and
	// window filtering happens per night in the calculator.
	ActiveByProduct(ctx context.Context, productID catalog.ProductID) ([]*SpecialPrice, error)
	ByProduct(ctx context.Context, productID catalog.ProductID) ([]*SpecialPrice, error)
	Save(ctx context.Context, row *SpecialPrice) error
}
