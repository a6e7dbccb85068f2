package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/anyulbade/esim-pricing-service/internal/model"
)

type PlanRepository struct {
	pool *pgxpool.Pool
}

func NewPlanRepository(pool *pgxpool.Pool) *PlanRepository {
	return &PlanRepository{pool: pool}
}

func (r *PlanRepository) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	p := &model.Plan{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, country_code, COALESCE(data_amount, ''), validity_days, price, currency, created_at
		FROM plans WHERE id = $1`, id).
		Scan(&p.ID, &p.Name, &p.CountryCode, &p.DataAmount, &p.ValidityDays, &p.Price, &p.Currency, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// ListByCountry returns plans ordered by list price, cheapest first, and the
// total number of plans matching the filter.
func (r *PlanRepository) ListByCountry(ctx context.Context, country string, limit, offset int) ([]model.Plan, int, error) {
	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM plans WHERE ($1::text = '' OR country_code = $1::text)`, country).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count plans: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, name, country_code, COALESCE(data_amount, ''), validity_days, price, currency, created_at
		FROM plans
		WHERE ($1::text = '' OR country_code = $1::text)
		ORDER BY price ASC, id ASC
		LIMIT $2 OFFSET $3`, country, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("query plans: %w", err)
	}
	defer rows.Close()

	var plans []model.Plan
	for rows.Next() {
		var p model.Plan
		if err := rows.Scan(&p.ID, &p.Name, &p.CountryCode, &p.DataAmount, &p.ValidityDays, &p.Price, &p.Currency, &p.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate plans: %w", err)
	}
	return plans, total, nil
}

// ListCountries returns countries that have plans, with the plan count and
// cheapest list price, ordered by name.
func (r *PlanRepository) ListCountries(ctx context.Context) ([]model.Country, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT c.code, c.name, COUNT(p.id), MIN(p.price), MIN(p.currency)
		FROM countries c
		JOIN plans p ON p.country_code = c.code
		GROUP BY c.code, c.name
		ORDER BY c.name`)
	if err != nil {
		return nil, fmt.Errorf("query countries: %w", err)
	}
	defer rows.Close()

	var countries []model.Country
	for rows.Next() {
		var c model.Country
		if err := rows.Scan(&c.Code, &c.Name, &c.PlanCount, &c.MinPlanPrice, &c.Currency); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		countries = append(countries, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate countries: %w", err)
	}
	return countries, nil
}
