package commissions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"staymarket/internal/domain/shared/money"
)

func TestClientFeeCombinesRateAndFixed(t *testing.T) {
	rates := Rates{ClientRate: 0.05, ClientFixed: money.Cents(150)}
	fee := rates.ClientFee(money.Cents(26000))
	assert.Equal(t, int64(1450), fee.Amount)
	assert.Equal(t, money.EUR, fee.Currency)
}

func TestHostFeeCombinesRateAndFixed(t *testing.T) {
	rates := Rates{HostRate: 0.12, HostFixed: money.Cents(200)}
	fee := rates.HostFee(money.Cents(10000))
	assert.Equal(t, int64(1400), fee.Amount)
}

func TestFeesRoundPerFee(t *testing.T) {
	// 3.333% of 100.01 EUR is 333.36 cents, rounded to 333.
	rates := Rates{HostRate: 0.03333, ClientRate: 0.03333}
	assert.Equal(t, int64(333), rates.HostFee(money.Cents(10001)).Amount)
	assert.Equal(t, int64(333), rates.ClientFee(money.Cents(10001)).Amount)
}

func TestZeroRatesYieldZeroFees(t *testing.T) {
	rates := Rates{}
	assert.True(t, rates.IsZero())
	assert.Equal(t, int64(0), rates.ClientFee(money.Cents(99999)).Amount)
	assert.Equal(t, int64(0), rates.HostFee(money.Cents(99999)).Amount)

	assert.False(t, Rates{HostFixed: money.Cents(1)}.IsZero())
}

func TestToggleFlipsActivation(t *testing.T) {
	c := &Commission{Active: true}
	first := time.Date(2026, time.July, 1, 12, 0, 0, 0, time.UTC)
	c.Toggle(first)
	assert.False(t, c.Active)
	assert.Equal(t, first, c.UpdatedAt)

	c.Toggle(first.Add(time.Hour))
	assert.True(t, c.Active)
}
