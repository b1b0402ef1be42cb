package pricing

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"staymarket/internal/app/dto"
	handlersupport "staymarket/internal/app/handlers/support"
	"staymarket/internal/app/policies"
	"staymarket/internal/app/queries"
	"staymarket/internal/app/uow"
	domaincatalog "staymarket/internal/domain/catalog"
	domaincommissions "staymarket/internal/domain/commissions"
	domainpricing "staymarket/internal/domain/pricing"
	domainrange "staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/faults"
)

const quoteBookingKey = "pricing.quote_booking"

type ExtraSelection struct {
	ExtraID  string
	Quantity int
}

type QuoteBookingQuery struct {
	ProductID string
	CheckIn   time.Time
	CheckOut  time.Time
	Extras    []ExtraSelection
}

func (q QuoteBookingQuery) Key() string { return quoteBookingKey }

type QuoteBookingHandler struct {
	Logger     *slog.Logger
	Commission policies.CommissionPort
	UoWFactory uow.UoWFactory
}

func (h *QuoteBookingHandler) Handle(ctx context.Context, q QuoteBookingQuery) (dto.BookingQuote, error) {
	var zero dto.BookingQuote
	if strings.TrimSpace(q.ProductID) == "" {
		return zero, faults.Validationf("pricing: product id is required")
	}
	unit, execCtx, cleanup, err := handlersupport.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return zero, err
	}
	if cleanup != nil {
		defer cleanup()
	}

	quote, err := computeQuote(execCtx, unit, h.Commission, h.Logger, quoteParams{
		ProductID: q.ProductID,
		CheckIn:   q.CheckIn,
		CheckOut:  q.CheckOut,
		Extras:    q.Extras,
		Now:       time.Now().UTC(),
	})
	if err != nil {
		return zero, err
	}
	return quoteToDTO(quote), nil
}

type quoteParams struct {
	ProductID string
	CheckIn   time.Time
	CheckOut  time.Time
	Extras    []ExtraSelection
	Now       time.Time
}

// computeQuote is the single quote path used by both the guest-facing quote
// query and the confirmation command, so a frozen snapshot always matches
// what the guest was shown under unchanged configuration.
func computeQuote(ctx context.Context, unit uow.UnitOfWork, commission policies.CommissionPort, logger *slog.Logger, p quoteParams) (domainpricing.Quote, error) {
	var zero domainpricing.Quote

	dr, err := domainrange.New(p.CheckIn, p.CheckOut)
	if err != nil {
		return zero, faults.Validationf("pricing: %v", err)
	}

	product, err := unit.Catalog().ProductByID(ctx, domaincatalog.ProductID(p.ProductID))
	if err != nil {
		return zero, err
	}
	if product.BasePrice.Amount <= 0 {
		return zero, faults.Validationf("pricing: product %s has a non-positive base price", product.ID)
	}

	// Rule rows are fetched once per booking, not once per night.
	specials, err := unit.SpecialPrices().ActiveByProduct(ctx, product.ID)
	if err != nil {
		return zero, err
	}
	promos, err := unit.Promotions().ActiveByProduct(ctx, product.ID, dr.CheckIn, dr.CheckOut.AddDate(0, 0, -1))
	if err != nil {
		return zero, err
	}

	selections := make([]domainpricing.ExtraSelection, 0, len(p.Extras))
	for _, sel := range p.Extras {
		extra, err := unit.Catalog().ExtraByID(ctx, domaincatalog.ExtraID(sel.ExtraID))
		if err != nil {
			return zero, err
		}
		selections = append(selections, domainpricing.ExtraSelection{Extra: extra, Quantity: sel.Quantity})
	}

	rates := domaincommissions.Rates{}
	ratesMissing := false
	if commission != nil {
		resolved, err := commission.Resolve(ctx, product.PropertyTypeID)
		if err != nil {
			// A configuration gap must not take the quote down; the guest
			// sees a commission-free price and operators see the warning.
			ratesMissing = true
			if logger != nil {
				logger.Warn("commission resolution failed, quoting without commission", "product_id", product.ID, "type_id", product.PropertyTypeID, "error", err)
			}
		} else {
			rates = resolved
		}
	} else {
		ratesMissing = true
	}

	return domainpricing.BuildQuote(domainpricing.QuoteInput{
		Product:      product,
		Range:        dr,
		Specials:     specials,
		Promotions:   promos,
		Extras:       selections,
		Rates:        rates,
		RatesMissing: ratesMissing,
		Now:          p.Now,
	})
}

func quoteToDTO(quote domainpricing.Quote) dto.BookingQuote {
	out := dto.BookingQuote{
		ProductID: string(quote.ProductID),
		CheckIn:   quote.Range.CheckIn,
		CheckOut:  quote.Range.CheckOut,
		Summary: dto.QuoteSummary{
			Nights:                quote.Summary.Nights,
			AverageNightlyCents:   quote.Summary.AverageNightly.Amount,
			SubtotalCents:         quote.Summary.Subtotal.Amount,
			TotalSavingsCents:     quote.Summary.TotalSavings.Amount,
			ExtrasTotalCents:      quote.Summary.ExtrasTotal.Amount,
			ClientCommissionCents: quote.Summary.ClientCommission.Amount,
			HostCommissionCents:   quote.Summary.HostCommission.Amount,
			TotalAmountCents:      quote.Summary.TotalAmount.Amount,
			HostAmountCents:       quote.Summary.HostAmount.Amount,
			PlatformAmountCents:   quote.Summary.PlatformAmount.Amount,
			PromotionApplied:      quote.Summary.PromotionApplied,
			SpecialPriceApplied:   quote.Summary.SpecialPriceApplied,
			CommissionMissing:     quote.Summary.CommissionMissing,
			Currency:              quote.Summary.Subtotal.Currency,
			CalculatedAt:          quote.Summary.CalculatedAt,
		},
	}
	for _, night := range quote.Nights {
		out.Nights = append(out.Nights, dto.NightLine{
			Date:                night.Date.Format("2006-01-02"),
			BaseCents:           night.Base.Amount,
			FinalCents:          night.Final.Amount,
			SavingsCents:        night.Savings.Amount,
			PromotionApplied:    night.PromotionApplied,
			SpecialPriceApplied: night.SpecialPriceApplied,
		})
	}
	for _, extra := range quote.Extras {
		out.Extras = append(out.Extras, dto.ExtraLine{
			ExtraID:    string(extra.ExtraID),
			Name:       extra.Name,
			UnitCents:  extra.Unit.Amount,
			Quantity:   extra.Quantity,
			TotalCents: extra.Total.Amount,
		})
	}
	return out
}

var _ queries.Handler[QuoteBookingQuery, dto.BookingQuote] = (*QuoteBookingHandler)(nil)
