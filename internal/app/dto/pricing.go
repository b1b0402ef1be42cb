package dto

import "time"

type NightLine struct {
	Date                string `json:"date"`
	BaseCents           int64  `json:"base_cents"`
	FinalCents          int64  `json:"final_cents"`
	SavingsCents        int64  `json:"savings_cents"`
	PromotionApplied    bool   `json:"promotion_applied"`
	SpecialPriceApplied bool   `json:"special_price_applied"`
}

type ExtraLine struct {
	ExtraID    string `json:"extra_id"`
	Name       string `json:"name"`
	UnitCents  int64  `json:"unit_cents"`
	Quantity   int    `json:"quantity"`
	TotalCents int64  `json:"total_cents"`
}

type QuoteSummary struct {
	Nights                int       `json:"nights"`
	AverageNightlyCents   int64     `json:"average_nightly_cents"`
	SubtotalCents         int64     `json:"subtotal_cents"`
	TotalSavingsCents     int64     `json:"total_savings_cents"`
	ExtrasTotalCents      int64     `json:"extras_total_cents"`
	ClientCommissionCents int64     `json:"client_commission_cents"`
	HostCommissionCents   int64     `json:"host_commission_cents"`
	TotalAmountCents      int64     `json:"total_amount_cents"`
	HostAmountCents       int64     `json:"host_amount_cents"`
	PlatformAmountCents   int64     `json:"platform_amount_cents"`
	PromotionApplied      bool      `json:"promotion_applied"`
	SpecialPriceApplied   bool      `json:"special_price_applied"`
	CommissionMissing     bool      `json:"commission_missing"`
	Currency              string    `json:"currency"`
	CalculatedAt          time.Time `json:"calculated_at"`
}

type BookingQuote struct {
	ProductID string       `json:"product_id"`
	CheckIn   time.Time    `json:"check_in"`
	CheckOut  time.Time    `json:"check_out"`
	Nights    []NightLine  `json:"nights"`
	Extras    []ExtraLine  `json:"extras"`
	Summary   QuoteSummary `json:"summary"`
}

type RentSnapshot struct {
	SubtotalCents          int64     `json:"subtotal_cents"`
	ExtrasTotalCents       int64     `json:"extras_total_cents"`
	ClientCommissionCents  int64     `json:"client_commission_cents"`
	HostCommissionCents    int64     `json:"host_commission_cents"`
	PlatformAmountCents    int64     `json:"platform_amount_cents"`
	HostAmountCents        int64     `json:"host_amount_cents"`
	TotalAmountCents       int64     `json:"total_amount_cents"`
	Nights                 int       `json:"nights"`
	BasePricePerNightCents int64     `json:"base_price_per_night_cents"`
	Currency               string    `json:"currency"`
	CalculatedAt           time.Time `json:"calculated_at"`
}
