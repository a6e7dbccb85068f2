package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/anyulbade/esim-pricing-service/internal/model"
	"github.com/anyulbade/esim-pricing-service/internal/pricing"
)

type SettingsService struct {
	store SettingsStore
}

func NewSettingsService(store SettingsStore) *SettingsService {
	return &SettingsService{store: store}
}

type SettingsView struct {
	Record   model.PricingSettingsRecord `json:"record"`
	Resolved pricing.Configuration       `json:"resolved"`
}

func (s *SettingsService) Get(ctx context.Context) (*SettingsView, error) {
	rec, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pricing settings: %w", err)
	}
	return newSettingsView(rec), nil
}

// Update overlays patch on the stored record. The merged record must pass
// the engine's validation before anything is written.
func (s *SettingsService) Update(ctx context.Context, patch pricing.Settings, updatedBy string) (*SettingsView, error) {
	current, err := s.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("load pricing settings: %w", err)
	}

	merged := current.Settings.Merge(patch)
	if err := pricing.ValidateSettings(merged); err != nil {
		return nil, err
	}

	rec := &model.PricingSettingsRecord{Settings: merged, UpdatedBy: updatedBy}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, err
	}

	cfg := merged.Resolve()
	log.Info().
		Str("updated_by", updatedBy).
		Float64("regular_discount_percentage", cfg.RegularDiscountPercentage).
		Float64("referral_discount_percentage", cfg.ReferralDiscountPercentage).
		Float64("minimum_price", cfg.MinimumPrice).
		Float64("transaction_commission_percentage", cfg.TransactionCommissionPercentage).
		Msg("pricing settings updated")

	return newSettingsView(rec), nil
}

// Reset replaces the stored record with the documented defaults.
func (s *SettingsService) Reset(ctx context.Context, updatedBy string) (*SettingsView, error) {
	rec := &model.PricingSettingsRecord{Settings: pricing.DefaultSettings(), UpdatedBy: updatedBy}
	if err := s.store.Save(ctx, rec); err != nil {
		return nil, err
	}
	log.Info().Str("updated_by", updatedBy).Msg("pricing settings reset to defaults")
	return newSettingsView(rec), nil
}

func newSettingsView(rec *model.PricingSettingsRecord) *SettingsView {
	return &SettingsView{Record: *rec, Resolved: rec.Settings.Resolve()}
}
