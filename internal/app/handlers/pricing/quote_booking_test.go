package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
	domainpromotions "staymarket/internal/domain/promotions"
	"staymarket/internal/domain/shared/faults"
	"staymarket/internal/domain/shared/money"
	domainspecial "staymarket/internal/domain/specialprices"
	"staymarket/internal/infra/storage/memory"
)

type fixedCommission struct {
	rates domaincommissions.Rates
	err   error
}

func (f fixedCommission) Resolve(ctx context.Context, typeID domaincatalog.PropertyTypeID) (domaincommissions.Rates, error) {
	if f.err != nil {
		return domaincommissions.Rates{}, f.err
	}
	return f.rates, nil
}

type fixtures struct {
	factory    memory.Factory
	catalog    *memory.CatalogRepository
	promotions *memory.PromotionRepository
	specials   *memory.SpecialPriceRepository
	rents      *memory.RentRepository
	outbox     *memory.Outbox
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func setupFixtures(t *testing.T) fixtures {
	t.Helper()
	f := fixtures{
		catalog:    memory.NewCatalogRepository(),
		promotions: memory.NewPromotionRepository(),
		specials:   memory.NewSpecialPriceRepository(),
		rents:      memory.NewRentRepository(),
		outbox:     memory.NewOutbox(),
	}
	f.factory = memory.Factory{
		CatalogRepo:      f.catalog,
		PromotionRepo:    f.promotions,
		SpecialPriceRepo: f.specials,
		CommissionStore:  memory.NewCommissionStore(),
		RentRepo:         f.rents,
	}

	ctx := context.Background()
	require.NoError(t, f.catalog.SavePropertyType(ctx, &domaincatalog.PropertyType{ID: "pt-1", Name: "Apartment"}))
	require.NoError(t, f.catalog.SaveProduct(ctx, &domaincatalog.Product{
		ID:             "prod-1",
		Title:          "Seaside apartment",
		BasePrice:      money.Cents(10000),
		PropertyTypeID: "pt-1",
		OwnerID:        "host-1",
	}))
	require.NoError(t, f.catalog.SaveExtra(ctx, &domaincatalog.Extra{ID: "extra-cleaning", Name: "Cleaning", Price: money.Cents(3000)}))
	return f
}

func standardRates() domaincommissions.Rates {
	return domaincommissions.Rates{HostRate: 0.10, ClientRate: 0.05}
}

func TestQuoteBookingEndToEnd(t *testing.T) {
	f := setupFixtures(t)
	ctx := context.Background()

	require.NoError(t, f.promotions.Save(ctx, &domainpromotions.Promotion{
		ID: "promo-1", ProductID: "prod-1", DiscountPercent: 20, Active: true,
		Start: date(2026, time.July, 1), End: date(2026, time.July, 31),
	}))

	handler := &QuoteBookingHandler{
		Commission: fixedCommission{rates: standardRates()},
		UoWFactory: f.factory,
	}

	quote, err := handler.Handle(ctx, QuoteBookingQuery{
		ProductID: "prod-1",
		CheckIn:   date(2026, time.July, 10),
		CheckOut:  date(2026, time.July, 13),
		Extras:    []ExtraSelection{{ExtraID: "extra-cleaning", Quantity: 1}},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, quote.Summary.Nights)
	assert.Equal(t, int64(24000), quote.Summary.SubtotalCents)
	assert.Equal(t, int64(6000), quote.Summary.TotalSavingsCents)
	assert.Equal(t, int64(3000), quote.Summary.ExtrasTotalCents)
	// Fee base 270 EUR: 5% client, 10% host.
	assert.Equal(t, int64(1350), quote.Summary.ClientCommissionCents)
	assert.Equal(t, int64(2700), quote.Summary.HostCommissionCents)
	assert.Equal(t, int64(28350), quote.Summary.TotalAmountCents)
	assert.Equal(t, int64(24300), quote.Summary.HostAmountCents)
	assert.True(t, quote.Summary.PromotionApplied)
	assert.False(t, quote.Summary.CommissionMissing)
	require.Len(t, quote.Nights, 3)
	assert.Equal(t, "2026-07-10", quote.Nights[0].Date)
}

func TestQuoteBookingSpecialPriceWinsOverPromotion(t *testing.T) {
	f := setupFixtures(t)
	ctx := context.Background()

	require.NoError(t, f.promotions.Save(ctx, &domainpromotions.Promotion{
		ID: "promo-1", ProductID: "prod-1", DiscountPercent: 20, Active: true,
		Start: date(2026, time.July, 1), End: date(2026, time.July, 31),
	}))
	require.NoError(t, f.specials.Save(ctx, &domainspecial.SpecialPrice{
		ID: "sp-1", ProductID: "prod-1", Price: money.Cents(8000),
		Weekdays: []time.Weekday{time.Monday}, Activate: true,
	}))

	handler := &QuoteBookingHandler{
		Commission: fixedCommission{},
		UoWFactory: f.factory,
	}

	// Sun Jul 12, Mon Jul 13, Tue Jul 14.
	quote, err := handler.Handle(ctx, QuoteBookingQuery{
		ProductID: "prod-1",
		CheckIn:   date(2026, time.July, 12),
		CheckOut:  date(2026, time.July, 15),
	})
	require.NoError(t, err)

	require.Len(t, quote.Nights, 3)
	monday := quote.Nights[1]
	assert.True(t, monday.SpecialPriceApplied)
	assert.False(t, monday.PromotionApplied)
	assert.Equal(t, int64(8000), monday.FinalCents)
	assert.True(t, quote.Summary.SpecialPriceApplied)
	assert.True(t, quote.Summary.PromotionApplied)
}

func TestQuoteBookingDegradesWhenCommissionResolutionFails(t *testing.T) {
	f := setupFixtures(t)

	handler := &QuoteBookingHandler{
		Commission: fixedCommission{err: errors.New("resolver down")},
		UoWFactory: f.factory,
	}

	quote, err := handler.Handle(context.Background(), QuoteBookingQuery{
		ProductID: "prod-1",
		CheckIn:   date(2026, time.July, 10),
		CheckOut:  date(2026, time.July, 12),
	})
	require.NoError(t, err)

	assert.True(t, quote.Summary.CommissionMissing)
	assert.Equal(t, int64(0), quote.Summary.ClientCommissionCents)
	assert.Equal(t, int64(0), quote.Summary.HostCommissionCents)
	assert.Equal(t, quote.Summary.SubtotalCents, quote.Summary.TotalAmountCents)
}

func TestQuoteBookingValidation(t *testing.T) {
	f := setupFixtures(t)
	handler := &QuoteBookingHandler{Commission: fixedCommission{}, UoWFactory: f.factory}
	ctx := context.Background()

	_, err := handler.Handle(ctx, QuoteBookingQuery{
		ProductID: "",
		CheckIn:   date(2026, time.July, 10),
		CheckOut:  date(2026, time.July, 12),
	})
	assert.ErrorIs(t, err, faults.ErrValidation)

	_, err = handler.Handle(ctx, QuoteBookingQuery{
		ProductID: "prod-1",
		CheckIn:   date(2026, time.July, 12),
		CheckOut:  date(2026, time.July, 12),
	})
	assert.ErrorIs(t, err, faults.ErrValidation)

	_, err = handler.Handle(ctx, QuoteBookingQuery{
		ProductID: "prod-missing",
		CheckIn:   date(2026, time.July, 10),
		CheckOut:  date(2026, time.July, 12),
	})
	assert.ErrorIs(t, err, faults.ErrNotFound)

	_, err = handler.Handle(ctx, QuoteBookingQuery{
		ProductID: "prod-1",
		CheckIn:   date(2026, time.July, 10),
		CheckOut:  date(2026, time.July, 12),
		Extras:    []ExtraSelection{{ExtraID: "extra-missing", Quantity: 1}},
	})
	assert.ErrorIs(t, err, faults.ErrNotFound)
}
