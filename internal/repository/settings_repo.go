package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/esim-pricing-service/internal/model"
)

const settingsRowID = "general"

type SettingsRepository struct {
	pool *pgxpool.Pool
}

func NewSettingsRepository(pool *pgxpool.Pool) *SettingsRepository {
	return &SettingsRepository{pool: pool}
}

// Get returns the stored record. A missing row yields an empty record, whose
// fields all resolve to the pricing defaults.
func (r *SettingsRepository) Get(ctx context.Context) (*model.PricingSettingsRecord, error) {
	rec := &model.PricingSettingsRecord{}
	s := &rec.Settings
	err := r.pool.QueryRow(ctx,
		`SELECT regular_discount_percentage, referral_discount_percentage, minimum_price,
			transaction_commission_percentage, updated_at, updated_by
		FROM pricing_settings WHERE id = $1`, settingsRowID).
		Scan(&s.RegularDiscountPercentage, &s.ReferralDiscountPercentage, &s.MinimumPrice,
			&s.TransactionCommissionPercentage, &rec.UpdatedAt, &rec.UpdatedBy)
	if errors.Is(err, pgx.ErrNoRows) {
		return &model.PricingSettingsRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query pricing settings: %w", err)
	}
	return rec, nil
}

func (r *SettingsRepository) Save(ctx context.Context, rec *model.PricingSettingsRecord) error {
	s := rec.Settings
	err := r.pool.QueryRow(ctx,
		`INSERT INTO pricing_settings (id, regular_discount_percentage, referral_discount_percentage,
			minimum_price, transaction_commission_percentage, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, NOW(), $6)
		ON CONFLICT (id) DO UPDATE SET
			regular_discount_percentage = EXCLUDED.regular_discount_percentage,
			referral_discount_percentage = EXCLUDED.referral_discount_percentage,
			minimum_price = EXCLUDED.minimum_price,
			transaction_commission_percentage = EXCLUDED.transaction_commission_percentage,
			updated_at = EXCLUDED.updated_at,
			updated_by = EXCLUDED.updated_by
		RETURNING updated_at`,
		settingsRowID, s.RegularDiscountPercentage, s.ReferralDiscountPercentage,
		s.MinimumPrice, s.TransactionCommissionPercentage, rec.UpdatedBy,
	).Scan(&rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save pricing settings: %w", err)
	}
	return nil
}
