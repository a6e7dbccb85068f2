package dto

import "github.com/anyulbade/esim-pricing-service/internal/pricing"

type QuoteRequest struct {
	PlanID       string `json:"plan_id" binding:"required"`
	ReferralCode string `json:"referral_code"`
}

type PreviewRequest struct {
	Price *float64 `json:"price" binding:"required"`
}

type ComputeRequest struct {
	OriginalPrice   *float64          `json:"original_price" binding:"required"`
	HasReferralCode bool              `json:"has_referral_code"`
	Settings        *pricing.Settings `json:"settings"`
}

// UpdateSettingsRequest is a partial update; omitted fields keep their stored value.
type UpdateSettingsRequest struct {
	RegularDiscountPercentage       *float64 `json:"regular_discount_percentage"`
	ReferralDiscountPercentage      *float64 `json:"referral_discount_percentage"`
	MinimumPrice                    *float64 `json:"minimum_price"`
	TransactionCommissionPercentage *float64 `json:"transaction_commission_percentage"`
	UpdatedBy                       string   `json:"updated_by" binding:"required"`
}

func (r *UpdateSettingsRequest) Patch() pricing.Settings {
	return pricing.Settings{
		RegularDiscountPercentage:       r.RegularDiscountPercentage,
		ReferralDiscountPercentage:      r.ReferralDiscountPercentage,
		MinimumPrice:                    r.MinimumPrice,
		TransactionCommissionPercentage: r.TransactionCommissionPercentage,
	}
}

type ResetSettingsRequest struct {
	UpdatedBy string `json:"updated_by" binding:"required"`
}
