package specialprices

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staymarket/internal/domain/shared/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func weekendRow(id SpecialPriceID) *SpecialPrice {
	return &SpecialPrice{
		ID:        id,
		ProductID: "prod-1",
		Price:     money.Cents(8000),
		Weekdays:  []time.Weekday{time.Saturday, time.Sunday},
		Activate:  true,
	}
}

func TestAppliesOnWeekday(t *testing.T) {
	row := weekendRow("sp-1")

	// Jul 11 2026 is a Saturday, Jul 13 a Monday.
	assert.True(t, row.AppliesOn(date(2026, time.July, 11)))
	assert.False(t, row.AppliesOn(date(2026, time.July, 13)))
}

func TestAppliesOnRespectsWindowBounds(t *testing.T) {
	row := weekendRow("sp-1")
	row.Start = datePtr(2026, time.July, 1)
	row.End = datePtr(2026, time.July, 31)

	assert.True(t, row.AppliesOn(date(2026, time.July, 11)))
	// Saturdays outside the window do not match.
	assert.False(t, row.AppliesOn(date(2026, time.June, 27)))
	assert.False(t, row.AppliesOn(date(2026, time.August, 1)))
}

func TestAppliesOnIgnoresDeactivatedRows(t *testing.T) {
	row := weekendRow("sp-1")
	row.Activate = false
	assert.False(t, row.AppliesOn(date(2026, time.July, 11)))
}

func TestBestMatchPrefersNarrowestWindow(t *testing.T) {
	wide := weekendRow("sp-wide")
	wide.Start = datePtr(2026, time.July, 1)
	wide.End = datePtr(2026, time.August, 31)
	wide.CreatedAt = date(2026, time.June, 1)

	narrow := weekendRow("sp-narrow")
	narrow.Price = money.Cents(7000)
	narrow.Start = datePtr(2026, time.July, 10)
	narrow.End = datePtr(2026, time.July, 12)
	narrow.CreatedAt = date(2026, time.May, 1)

	best, ok := BestMatch([]*SpecialPrice{wide, narrow}, date(2026, time.July, 11))
	require.True(t, ok)
	assert.Equal(t, SpecialPriceID("sp-narrow"), best.ID)
}

func TestBestMatchOpenEndedLosesToBounded(t *testing.T) {
	open := weekendRow("sp-open")
	open.CreatedAt = date(2026, time.June, 30)

	bounded := weekendRow("sp-bounded")
	bounded.Start = datePtr(2026, time.July, 1)
	bounded.End = datePtr(2026, time.July, 31)
	bounded.CreatedAt = date(2026, time.January, 1)

	best, ok := BestMatch([]*SpecialPrice{open, bounded}, date(2026, time.July, 11))
	require.True(t, ok)
	assert.Equal(t, SpecialPriceID("sp-bounded"), best.ID)
}

func TestBestMatchTiesBreakOnMostRecentCreation(t *testing.T) {
	older := weekendRow("sp-older")
	older.Start = datePtr(2026, time.July, 1)
	older.End = datePtr(2026, time.July, 31)
	older.CreatedAt = date(2026, time.May, 1)

	newer := weekendRow("sp-newer")
	newer.Start = datePtr(2026, time.July, 1)
	newer.End = datePtr(2026, time.July, 31)
	newer.CreatedAt = date(2026, time.June, 1)

	best, ok := BestMatch([]*SpecialPrice{older, newer}, date(2026, time.July, 11))
	require.True(t, ok)
	assert.Equal(t, SpecialPriceID("sp-newer"), best.ID)
}

func TestBestMatchNoRows(t *testing.T) {
	_, ok := BestMatch(nil, date(2026, time.July, 11))
	assert.False(t, ok)

	// A row matching the weekday but not the window is not a match.
	row := weekendRow("sp-1")
	row.Start = datePtr(2026, time.August, 1)
	row.End = datePtr(2026, time.August, 31)
	_, ok = BestMatch([]*SpecialPrice{row}, date(2026, time.July, 11))
	assert.False(t, ok)
}
