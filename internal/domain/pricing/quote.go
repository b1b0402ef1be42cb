package pricing

import (
	"time"

	"staymarket/internal/domain/catalog"
	"staymarket/internal/domain/shared/daterange"
	"staymarket/internal/domain/shared/money"
)

// NightQuote is the per-night line of the guest-facing breakdown.
type NightQuote struct {
	Date                time.Time
	Base                money.Money
	Final               money.Money
	Savings             money.Money
	PromotionApplied    bool
	SpecialPriceApplied bool
}

// ExtraLine is one selected extra priced per unit.
type ExtraLine struct {
	ExtraID  catalog.ExtraID
	Name     string
	Unit     money.Money
	Quantity int
	Total    money.Money
}

// Summary is the monetary split of a stay. On confirmation it is frozen
// verbatim onto the reservation.
type Summary struct {
	Nights              int
	AverageNightly      money.Money
	Subtotal            money.Money
	TotalSavings        money.Money
	ExtrasTotal         money.Money
	ClientCommission    money.Money
	HostCommission      money.Money
	TotalAmount         money.Money
	HostAmount          money.Money
	PlatformAmount      money.Money
	PromotionApplied    bool
	SpecialPriceApplied bool
	CommissionMissing   bool
	CalculatedAt        time.Time
}

// Quote is the full result of a booking price calculation. It is ephemeral:
// recomputed on every request and only persisted through a rent snapshot.
type Quote struct {
	ProductID catalog.ProductID
	Range     daterange.DateRange
	Nights    []NightQuote
	Extras    []ExtraLine
	Summary   Summary
}
