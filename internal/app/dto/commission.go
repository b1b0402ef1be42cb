package dto

import "time"

type Commission struct {
	ID                    string    `json:"id"`
	TypeID                string    `json:"type_id"`
	HostCommissionRate    float64   `json:"host_commission_rate"`
	HostCommissionFixed   int64     `json:"host_commission_fixed_cents"`
	ClientCommissionRate  float64   `json:"client_commission_rate"`
	ClientCommissionFixed int64     `json:"client_commission_fixed_cents"`
	IsActive              bool      `json:"is_active"`
	UpdatedAt             time.Time `json:"updated_at"`
}

type CommissionSettings struct {
	ID                    string    `json:"id"`
	HostCommissionRate    float64   `json:"host_commission_rate"`
	HostCommissionFixed   int64     `json:"host_commission_fixed_cents"`
	ClientCommissionRate  float64   `json:"client_commission_rate"`
	ClientCommissionFixed int64     `json:"client_commission_fixed_cents"`
	IsActive              bool      `json:"is_active"`
	CreatedAt             time.Time `json:"created_at"`
}

type PropertyType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsHotelType bool   `json:"is_hotel_type"`
}
