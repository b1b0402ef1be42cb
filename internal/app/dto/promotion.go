package dto

import "time"

type Promotion struct {
	ID              string    `json:"id"`
	ProductID       string    `json:"product_id"`
	DiscountPercent float64   `json:"discount_percent"`
	StartDate       string    `json:"start_date"`
	EndDate         string    `json:"end_date"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}

type SpecialPrice struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	PriceCents int64     `json:"price_cents"`
	PriceMGA   int64     `json:"price_mga,omitempty"`
	Weekdays   []string  `json:"weekdays"`
	StartDate  string    `json:"start_date,omitempty"`
	EndDate    string    `json:"end_date,omitempty"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}
