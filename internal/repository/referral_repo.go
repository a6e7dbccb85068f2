package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/esim-pricing-service/internal/model"
)

type ReferralRepository struct {
	pool *pgxpool.Pool
}

func NewReferralRepository(pool *pgxpool.Pool) *ReferralRepository {
	return &ReferralRepository{pool: pool}
}

func (r *ReferralRepository) FindByCode(ctx context.Context, code string) (*model.ReferralCode, error) {
	rc := &model.ReferralCode{}
	err := r.pool.QueryRow(ctx,
		`SELECT code, owner_id, is_active, created_at FROM referral_codes WHERE code = $1`, code).
		Scan(&rc.Code, &rc.OwnerID, &rc.IsActive, &rc.CreatedAt)
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// IsActive reports whether code exists and is enabled. Unknown codes are not an error.
func (r *ReferralRepository) IsActive(ctx context.Context, code string) (bool, error) {
	rc, err := r.FindByCode(ctx, code)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return rc.IsActive, nil
}
