package rents

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staymarket/internal/domain/pricing"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testSnapshot() PricingSnapshot {
	return PricingSnapshot{
		Subtotal:          money.Cents(24000),
		ExtrasTotal:       money.Cents(3000),
		ClientCommission:  money.Cents(1350),
		HostCommission:    money.Cents(2700),
		PlatformAmount:    money.Cents(4050),
		HostAmount:        money.Cents(24300),
		TotalAmount:       money.Cents(28350),
		Nights:            3,
		BasePricePerNight: money.Cents(10000),
		CalculatedAt:      date(2026, time.June, 1),
	}
}

func testParams(t *testing.T) CreateParams {
	t.Helper()
	dr, err := daterange.New(date(2026, time.July, 10), date(2026, time.July, 13))
	require.NoError(t, err)
	return CreateParams{
		ID:        "rent-1",
		ProductID: "prod-1",
		GuestID:   "guest-1",
		Range:     dr,
		Snapshot:  testSnapshot(),
		CreatedAt: date(2026, time.June, 1),
	}
}

func TestNewRentFreezesSnapshotAndRecordsEvent(t *testing.T) {
	rent, err := NewRent(testParams(t))
	require.NoError(t, err)

	assert.Equal(t, StateBooked, rent.State)
	assert.Equal(t, testSnapshot(), rent.Snapshot)

	pending := rent.PendingEvents()
	require.Len(t, pending, 1)
	booked, ok := pending[0].(RentBooked)
	require.True(t, ok)
	assert.Equal(t, RentID("rent-1"), booked.RentID)
	assert.Equal(t, testSnapshot(), booked.Snapshot)
}

func TestNewRentValidation(t *testing.T) {
	params := testParams(t)
	params.GuestID = ""
	_, err := NewRent(params)
	assert.ErrorIs(t, err, ErrGuestRequired)

	params = testParams(t)
	params.Range = daterange.DateRange{}
	_, err = NewRent(params)
	assert.Error(t, err)

	params = testParams(t)
	params.Snapshot = PricingSnapshot{}
	_, err = NewRent(params)
	assert.ErrorIs(t, err, ErrEmptySnapshot)
}

func TestSnapshotFromSummaryCopiesVerbatim(t *testing.T) {
	summary := pricing.Summary{
		Nights:           3,
		Subtotal:         money.Cents(24000),
		ExtrasTotal:      money.Cents(3000),
		ClientCommission: money.Cents(1350),
		HostCommission:   money.Cents(2700),
		TotalAmount:      money.Cents(28350),
		HostAmount:       money.Cents(24300),
		PlatformAmount:   money.Cents(4050),
		CalculatedAt:     date(2026, time.June, 1),
	}

	snapshot := SnapshotFromSummary(money.Cents(10000), summary)
	assert.Equal(t, testSnapshot(), snapshot)
}

func TestStateTransitions(t *testing.T) {
	now := date(2026, time.July, 10)

	rent, err := NewRent(testParams(t))
	require.NoError(t, err)
	require.NoError(t, rent.CheckIn(now))
	assert.Equal(t, StateCheckedIn, rent.State)
	assert.ErrorIs(t, rent.Cancel("too late", now), ErrInvalidState)
	require.NoError(t, rent.CheckOut(now.AddDate(0, 0, 3)))
	assert.Equal(t, StateCheckedOut, rent.State)

	cancelled, err := NewRent(testParams(t))
	require.NoError(t, err)
	require.NoError(t, cancelled.Cancel("guest request", now))
	assert.Equal(t, StateCancelled, cancelled.State)
	assert.ErrorIs(t, cancelled.CheckIn(now), ErrInvalidState)
}

func TestSnapshotSurvivesStateChanges(t *testing.T) {
	rent, err := NewRent(testParams(t))
	require.NoError(t, err)

	before := rent.Snapshot
	require.NoError(t, rent.CheckIn(date(2026, time.July, 10)))
	require.NoError(t, rent.CheckOut(date(2026, time.July, 13)))
	assert.Equal(t, before, rent.Snapshot)
}
