package service

import (
	"context"
	"fmt"

	"github.com/anyulbade/esim-pricing-service/internal/money"
	"github.com/anyulbade/esim-pricing-service/internal/pricing"
)

// PreviewService backs the admin plan editor, which shows both discount
// paths for a candidate list price.
type PreviewService struct {
	settings SettingsStore
}

func NewPreviewService(settings SettingsStore) *PreviewService {
	return &PreviewService{settings: settings}
}

type PreviewLine struct {
	Pricing           pricing.Result `json:"pricing"`
	HasDiscount       bool           `json:"has_discount"`
	DisplayDiscounted float64        `json:"display_discounted_price"`
	DisplaySavings    float64        `json:"display_savings"`
}

type Preview struct {
	Price         float64               `json:"price"`
	Configuration pricing.Configuration `json:"configuration"`
	Regular       PreviewLine           `json:"regular"`
	Referral      PreviewLine           `json:"referral"`
}

func (s *PreviewService) Preview(ctx context.Context, price float64) (*Preview, error) {
	rec, err := s.settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pricing settings: %w", err)
	}

	regular, err := pricing.ComputePrice(price, rec.Settings, false)
	if err != nil {
		return nil, err
	}
	referral, err := pricing.ComputePrice(price, rec.Settings, true)
	if err != nil {
		return nil, err
	}

	return &Preview{
		Price:         price,
		Configuration: rec.Settings.Resolve(),
		Regular:       editorLine(regular),
		Referral:      editorLine(referral),
	}, nil
}

// Compute runs the engine directly. With a nil override the stored settings
// are used.
func (s *PreviewService) Compute(ctx context.Context, price float64, hasReferralCode bool, override *pricing.Settings) (pricing.Result, error) {
	var settings pricing.Settings
	if override != nil {
		settings = *override
	} else {
		rec, err := s.settings.Get(ctx)
		if err != nil {
			return pricing.Result{}, fmt.Errorf("load pricing settings: %w", err)
		}
		settings = rec.Settings
	}
	return pricing.ComputePrice(price, settings, hasReferralCode)
}

// editorLine rounds to whole currency units, matching what the plan editor stores.
func editorLine(res pricing.Result) PreviewLine {
	return PreviewLine{
		Pricing:           res,
		HasDiscount:       res.HasDiscount(),
		DisplayDiscounted: money.WholeUnits(res.DiscountedPrice),
		DisplaySavings:    money.WholeUnits(res.Savings),
	}
}
