package service

import (
	"context"
	"errors"

	"github.com/anyulbade/esim-pricing-service/internal/model"
)

var ErrPlanNotFound = errors.New("plan not found")

type PlanStore interface {
	FindByID(ctx context.Context, id string) (*model.Plan, error)
	ListByCountry(ctx context.Context, country string, limit, offset int) ([]model.Plan, int, error)
	ListCountries(ctx context.Context) ([]model.Country, error)
}

type ReferralResolver interface {
	IsActive(ctx context.Context, code string) (bool, error)
}

type SettingsStore interface {
	Get(ctx context.Context) (*model.PricingSettingsRecord, error)
	Save(ctx context.Context, rec *model.PricingSettingsRecord) error
}
