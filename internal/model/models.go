package model

import (
	"time"

	"github.com/anyulbade/esim-pricing-service/internal/pricing"
)

type Plan struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	CountryCode  string    `json:"country_code"`
	DataAmount   string    `json:"data_amount,omitempty"`
	ValidityDays int       `json:"validity_days"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	CreatedAt    time.Time `json:"created_at"`
}

// Country is a destination with at least one plan on sale.
type Country struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	PlanCount    int     `json:"plan_count"`
	MinPlanPrice float64 `json:"min_plan_price"`
	Currency     string  `json:"currency"`
}

type ReferralCode struct {
	Code      string    `json:"code"`
	OwnerID   string    `json:"owner_id"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// PricingSettingsRecord is the single pricing settings document.
type PricingSettingsRecord struct {
	Settings  pricing.Settings `json:"settings"`
	UpdatedAt time.Time        `json:"updated_at"`
	UpdatedBy string           `json:"updated_by,omitempty"`
}
