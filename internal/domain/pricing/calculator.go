package pricing

import (
	"time"

	"staymarket/internal/domain/catalog"
	"staymarket/internal/domain/commissions"
	"staymarket/internal/domain/promotions"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/faults"
	"staymarket/internal/domain/shared/money"
	"staymarket/internal/domain/specialprices"
)

// NightPrice derives the effective price of a single night. A matching
// special price overrides the base outright and suppresses promotion
// discounting; otherwise the first applicable promotion discounts the base.
// Pure over the pre-fetched rule slices: callers fetch rows once per
// booking, not once per night.
func NightPrice(base money.Money, date time.Time, specials []*specialprices.SpecialPrice, promos []*promotions.Promotion) NightQuote {
	date = daterange.Day(date)
	quote := NightQuote{Date: date, Base: base, Final: base, Savings: money.Money{Currency: base.Currency}}

	if row, ok := specialprices.BestMatch(specials, date); ok {
		quote.Final = row.Price
		quote.SpecialPriceApplied = true
		quote.Savings = money.Money{Amount: base.Amount - row.Price.Amount, Currency: base.Currency}
		if quote.Savings.Amount < 0 {
			quote.Savings.Amount = 0
		}
		return quote
	}

	for _, promo := range promos {
		if promo.AppliesOn(date) {
			quote.Final = base.Discount(promo.DiscountPercent)
			quote.PromotionApplied = true
			quote.Savings = money.Money{Amount: base.Amount - quote.Final.Amount, Currency: base.Currency}
			break
		}
	}
	return quote
}

// ExtraSelection pairs a catalog extra with the requested quantity.
type ExtraSelection struct {
	Extra    *catalog.Extra
	Quantity int
}

// QuoteInput is everything a booking price calculation reads. All lookups
// happen before the call; the calculation itself is deterministic apart
// from the Now stamp.
type QuoteInput struct {
	Product      *catalog.Product
	Range        daterange.DateRange
	Specials     []*specialprices.SpecialPrice
	Promotions   []*promotions.Promotion
	Extras       []ExtraSelection
	Rates        commissions.Rates
	RatesMissing bool
	Now          time.Time
}

// BuildQuote walks every night of the half-open stay range, sums extras and
// applies the resolved commission rates to produce the complete breakdown.
func BuildQuote(in QuoteInput) (Quote, error) {
	if in.Product == nil {
		return Quote{}, catalog.ErrProductNotFound
	}
	if err := in.Range.Validate(); err != nil {
		return Quote{}, faults.Validationf("pricing: %v", err)
	}
	if in.Product.BasePrice.Amount <= 0 {
		return Quote{}, faults.Validationf("pricing: product %s has a non-positive base price", in.Product.ID)
	}

	currency := in.Product.BasePrice.Currency
	quote := Quote{ProductID: in.Product.ID, Range: in.Range}

	subtotal := money.Money{Currency: currency}
	savings := money.Money{Currency: currency}
	for _, date := range in.Range.NightDates() {
		night := NightPrice(in.Product.BasePrice, date, in.Specials, in.Promotions)
		quote.Nights = append(quote.Nights, night)
		subtotal.Amount += night.Final.Amount
		savings.Amount += night.Savings.Amount
		if night.PromotionApplied {
			quote.Summary.PromotionApplied = true
		}
		if night.SpecialPriceApplied {
			quote.Summary.SpecialPriceApplied = true
		}
	}

	extrasTotal := money.Money{Currency: currency}
	for _, sel := range in.Extras {
		if sel.Extra == nil {
			return Quote{}, catalog.ErrExtraNotFound
		}
		if sel.Quantity <= 0 {
			return Quote{}, faults.Validationf("pricing: extra %s quantity must be positive", sel.Extra.ID)
		}
		line := ExtraLine{
			ExtraID:  sel.Extra.ID,
			Name:     sel.Extra.Name,
			Unit:     sel.Extra.Price,
			Quantity: sel.Quantity,
			Total:    sel.Extra.Price.Multiply(int64(sel.Quantity)),
		}
		quote.Extras = append(quote.Extras, line)
		extrasTotal.Amount += line.Total.Amount
	}

	feeBase := money.Money{Amount: subtotal.Amount + extrasTotal.Amount, Currency: currency}
	clientFee := in.Rates.ClientFee(feeBase)
	hostFee := in.Rates.HostFee(feeBase)

	nights := in.Range.Nights()
	quote.Summary.Nights = nights
	quote.Summary.Subtotal = subtotal
	quote.Summary.TotalSavings = savings
	quote.Summary.AverageNightly = subtotal.DivideBy(int64(nights))
	quote.Summary.ExtrasTotal = extrasTotal
	quote.Summary.ClientCommission = clientFee
	quote.Summary.HostCommission = hostFee
	quote.Summary.TotalAmount = money.Money{Amount: feeBase.Amount + clientFee.Amount, Currency: currency}
	quote.Summary.HostAmount = money.Money{Amount: feeBase.Amount - hostFee.Amount, Currency: currency}
	quote.Summary.PlatformAmount = money.Money{Amount: clientFee.Amount + hostFee.Amount, Currency: currency}
	quote.Summary.CommissionMissing = in.RatesMissing
	quote.Summary.CalculatedAt = in.Now.UTC()
	return quote, nil
}
