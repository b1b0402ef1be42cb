package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"staymarket/internal/domain/catalog"
	"staymarket/internal/domain/commissions"
	"staymarket/internal/domain/promotions"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
	"staymarket/internal/domain/specialprices"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testProduct(baseCents int64) *catalog.Product {
	return &catalog.Product{
		ID:             "prod-1",
		Title:          "Test apartment",
		BasePrice:      money.Cents(baseCents),
		PropertyTypeID: "pt-1",
		OwnerID:        "host-1",
	}
}

func stayRange(t *testing.T, checkIn, checkOut time.Time) daterange.DateRange {
	t.Helper()
	dr, err := daterange.New(checkIn, checkOut)
	require.NoError(t, err)
	return dr
}

func activePromotion(productID catalog.ProductID, percent float64, start, end time.Time) *promotions.Promotion {
	return &promotions.Promotion{
		ID:              "promo-1",
		ProductID:       productID,
		DiscountPercent: percent,
		Start:           start,
		End:             end,
		Active:          true,
	}
}

func TestBuildQuotePlainNights(t *testing.T) {
	quote, err := BuildQuote(QuoteInput{
		Product: testProduct(10000),
		Range:   stayRange(t, date(2026, time.July, 10), date(2026, time.July, 13)),
		Now:     date(2026, time.June, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, 3, quote.Summary.Nights)
	assert.Equal(t, int64(30000), quote.Summary.Subtotal.Amount)
	assert.Equal(t, int64(0), quote.Summary.TotalSavings.Amount)
	assert.Equal(t, int64(10000), quote.Summary.AverageNightly.Amount)
	assert.Equal(t, int64(30000), quote.Summary.TotalAmount.Amount)
	assert.False(t, quote.Summary.PromotionApplied)
	assert.False(t, quote.Summary.SpecialPriceApplied)
}

func TestBuildQuoteWithPromotion(t *testing.T) {
	// 100 EUR base, 3 nights, 20% off every night.
	stay := stayRange(t, date(2026, time.July, 10), date(2026, time.July, 13))
	promo := activePromotion("prod-1", 20, date(2026, time.July, 1), date(2026, time.July, 31))

	quote, err := BuildQuote(QuoteInput{
		Product:    testProduct(10000),
		Range:      stay,
		Promotions: []*promotions.Promotion{promo},
		Now:        date(2026, time.June, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(24000), quote.Summary.Subtotal.Amount)
	assert.Equal(t, int64(6000), quote.Summary.TotalSavings.Amount)
	assert.True(t, quote.Summary.PromotionApplied)
	require.Len(t, quote.Nights, 3)
	for _, night := range quote.Nights {
		assert.Equal(t, int64(8000), night.Final.Amount)
		assert.True(t, night.PromotionApplied)
	}
}

func TestSpecialPriceOverridesAndSuppressesPromotion(t *testing.T) {
	// Mon Jul 13 2026 is priced at a flat 80 EUR; the 20% promotion covers
	// the whole stay but must not stack on the override night.
	stay := stayRange(t, date(2026, time.July, 12), date(2026, time.July, 15))
	promo := activePromotion("prod-1", 20, date(2026, time.July, 1), date(2026, time.July, 31))
	special := &specialprices.SpecialPrice{
		ID:        "sp-1",
		ProductID: "prod-1",
		Price:     money.Cents(8000),
		Weekdays:  []time.Weekday{time.Monday},
		Activate:  true,
	}

	quote, err := BuildQuote(QuoteInput{
		Product:    testProduct(10000),
		Range:      stay,
		Specials:   []*specialprices.SpecialPrice{special},
		Promotions: []*promotions.Promotion{promo},
		Now:        date(2026, time.June, 1),
	})
	require.NoError(t, err)

	require.Len(t, quote.Nights, 3)
	monday := quote.Nights[1]
	assert.Equal(t, date(2026, time.July, 13), monday.Date)
	assert.Equal(t, int64(8000), monday.Final.Amount)
	assert.Equal(t, int64(2000), monday.Savings.Amount)
	assert.True(t, monday.SpecialPriceApplied)
	assert.False(t, monday.PromotionApplied)

	// Sunday and Tuesday keep the promotion.
	assert.Equal(t, int64(8000), quote.Nights[0].Final.Amount)
	assert.True(t, quote.Nights[0].PromotionApplied)

	assert.Equal(t, int64(24000), quote.Summary.Subtotal.Amount)
	assert.Equal(t, int64(6000), quote.Summary.TotalSavings.Amount)
	assert.True(t, quote.Summary.PromotionApplied)
	assert.True(t, quote.Summary.SpecialPriceApplied)
}

func TestSpecialPriceAboveBaseClampsSavingsToZero(t *testing.T) {
	special := &specialprices.SpecialPrice{
		ID:        "sp-high",
		ProductID: "prod-1",
		Price:     money.Cents(15000),
		Weekdays:  []time.Weekday{time.Friday},
		Activate:  true,
	}

	night := NightPrice(money.Cents(10000), date(2026, time.July, 10), []*specialprices.SpecialPrice{special}, nil)
	assert.True(t, night.SpecialPriceApplied)
	assert.Equal(t, int64(15000), night.Final.Amount)
	assert.Equal(t, int64(0), night.Savings.Amount)
}

func TestBuildQuoteWithExtrasAndCommission(t *testing.T) {
	stay := stayRange(t, date(2026, time.July, 10), date(2026, time.July, 12))
	cleaning := &catalog.Extra{ID: "extra-1", Name: "Cleaning", Price: money.Cents(3000)}
	rates := commissions.Rates{
		HostRate:    0.10,
		HostFixed:   money.Cents(0),
		ClientRate:  0.05,
		ClientFixed: money.Cents(100),
	}

	quote, err := BuildQuote(QuoteInput{
		Product: testProduct(10000),
		Range:   stay,
		Extras:  []ExtraSelection{{Extra: cleaning, Quantity: 2}},
		Rates:   rates,
		Now:     date(2026, time.June, 1),
	})
	require.NoError(t, err)

	assert.Equal(t, int64(20000), quote.Summary.Subtotal.Amount)
	assert.Equal(t, int64(6000), quote.Summary.ExtrasTotal.Amount)
	// Fee base is 260 EUR: client 5% + 1 EUR fixed, host 10%.
	assert.Equal(t, int64(1400), quote.Summary.ClientCommission.Amount)
	assert.Equal(t, int64(2600), quote.Summary.HostCommission.Amount)
	assert.Equal(t, int64(27400), quote.Summary.TotalAmount.Amount)
	assert.Equal(t, int64(23400), quote.Summary.HostAmount.Amount)
	assert.Equal(t, int64(4000), quote.Summary.PlatformAmount.Amount)
	assert.False(t, quote.Summary.CommissionMissing)
}

func TestBuildQuoteMissingCommissionDegradesToZeroFees(t *testing.T) {
	quote, err := BuildQuote(QuoteInput{
		Product:      testProduct(10000),
		Range:        stayRange(t, date(2026, time.July, 10), date(2026, time.July, 12)),
		RatesMissing: true,
		Now:          date(2026, time.June, 1),
	})
	require.NoError(t, err)

	assert.True(t, quote.Summary.CommissionMissing)
	assert.Equal(t, int64(0), quote.Summary.ClientCommission.Amount)
	assert.Equal(t, int64(0), quote.Summary.HostCommission.Amount)
	assert.Equal(t, quote.Summary.Subtotal.Amount, quote.Summary.TotalAmount.Amount)
	assert.Equal(t, quote.Summary.Subtotal.Amount, quote.Summary.HostAmount.Amount)
}

func TestBuildQuoteSubtotalMatchesNightSum(t *testing.T) {
	stay := stayRange(t, date(2026, time.July, 1), date(2026, time.July, 15))
	promo := activePromotion("prod-1", 33, date(2026, time.July, 5), date(2026, time.July, 9))
	special := &specialprices.SpecialPrice{
		ID:        "sp-1",
		ProductID: "prod-1",
		Price:     money.Cents(7777),
		Weekdays:  []time.Weekday{time.Saturday, time.Sunday},
		Activate:  true,
	}

	quote, err := BuildQuote(QuoteInput{
		Product:    testProduct(10101),
		Range:      stay,
		Specials:   []*specialprices.SpecialPrice{special},
		Promotions: []*promotions.Promotion{promo},
		Now:        date(2026, time.June, 1),
	})
	require.NoError(t, err)

	var sum, savings int64
	for _, night := range quote.Nights {
		sum += night.Final.Amount
		savings += night.Savings.Amount
	}
	assert.Equal(t, sum, quote.Summary.Subtotal.Amount)
	assert.Equal(t, savings, quote.Summary.TotalSavings.Amount)
}

func TestBuildQuoteIsDeterministic(t *testing.T) {
	input := QuoteInput{
		Product:    testProduct(10000),
		Range:      stayRange(t, date(2026, time.July, 10), date(2026, time.July, 13)),
		Promotions: []*promotions.Promotion{activePromotion("prod-1", 15, date(2026, time.July, 1), date(2026, time.July, 31))},
		Now:        date(2026, time.June, 1),
	}

	first, err := BuildQuote(input)
	require.NoError(t, err)
	second, err := BuildQuote(input)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBuildQuoteValidation(t *testing.T) {
	_, err := BuildQuote(QuoteInput{Range: stayRange(t, date(2026, time.July, 10), date(2026, time.July, 13))})
	assert.ErrorIs(t, err, catalog.ErrProductNotFound)

	_, err = BuildQuote(QuoteInput{
		Product: testProduct(0),
		Range:   stayRange(t, date(2026, time.July, 10), date(2026, time.July, 13)),
	})
	assert.Error(t, err)

	_, err = BuildQuote(QuoteInput{
		Product: testProduct(10000),
		Range:   stayRange(t, date(2026, time.July, 10), date(2026, time.July, 12)),
		Extras:  []ExtraSelection{{Extra: &catalog.Extra{ID: "e", Price: money.Cents(100)}, Quantity: 0}},
	})
	assert.Error(t, err)
}
