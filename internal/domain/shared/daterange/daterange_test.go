package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewTruncatesToUTCMidnight(t *testing.T) {
	checkIn := time.Date(2026, time.July, 10, 15, 30, 0, 0, time.FixedZone("CET", 3600))
	checkOut := time.Date(2026, time.July, 13, 11, 0, 0, 0, time.UTC)

	dr, err := New(checkIn, checkOut)
	require.NoError(t, err)
	assert.Equal(t, date(2026, time.July, 10), dr.CheckIn)
	assert.Equal(t, date(2026, time.July, 13), dr.CheckOut)
}

func TestNewRejectsEmptyOrInvertedRange(t *testing.T) {
	_, err := New(date(2026, time.July, 10), date(2026, time.July, 10))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(date(2026, time.July, 10), date(2026, time.July, 9))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(time.Time{}, date(2026, time.July, 9))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestNightsIsHalfOpen(t *testing.T) {
	dr, err := New(date(2026, time.July, 10), date(2026, time.July, 13))
	require.NoError(t, err)
	assert.Equal(t, 3, dr.Nights())

	one, err := New(date(2026, time.July, 10), date(2026, time.July, 11))
	require.NoError(t, err)
	assert.Equal(t, 1, one.Nights())
}

func TestNightDatesExcludesCheckout(t *testing.T) {
	dr, err := New(date(2026, time.July, 10), date(2026, time.July, 13))
	require.NoError(t, err)

	nights := dr.NightDates()
	require.Len(t, nights, 3)
	assert.Equal(t, date(2026, time.July, 10), nights[0])
	assert.Equal(t, date(2026, time.July, 12), nights[2])
}

func TestContainsDate(t *testing.T) {
	dr, err := New(date(2026, time.July, 10), date(2026, time.July, 13))
	require.NoError(t, err)

	assert.True(t, dr.ContainsDate(date(2026, time.July, 10)))
	assert.True(t, dr.ContainsDate(date(2026, time.July, 12)))
	assert.False(t, dr.ContainsDate(date(2026, time.July, 13)))
	assert.False(t, dr.ContainsDate(date(2026, time.July, 9)))
}

func TestOverlaps(t *testing.T) {
	a, err := New(date(2026, time.July, 10), date(2026, time.July, 13))
	require.NoError(t, err)
	b, err := New(date(2026, time.July, 12), date(2026, time.July, 15))
	require.NoError(t, err)
	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))

	// Back-to-back stays share a date but not a night.
	c, err := New(date(2026, time.July, 13), date(2026, time.July, 15))
	require.NoError(t, err)
	assert.False(t, a.Overlaps(c))
}
