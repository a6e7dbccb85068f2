package database

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"github.com/anyulbade/esim-pricing-service/internal/pricing"
)

var countries = []struct {
	Code string
	Name string
}{
	{"TR", "Turkey"},
	{"FR", "France"},
	{"DE", "Germany"},
	{"US", "United States"},
	{"JP", "Japan"},
	{"TH", "Thailand"},
}

type planSeed struct {
	Country string
	DataGB  int
	Days    int
	Price   float64
}

// List prices in USD. The sub-dollar plans sit under the minimum price once
// discounted, so the floor is visible in a fresh database.
var plans = []planSeed{
	{"TR", 1, 7, 4.50},
	{"TR", 3, 30, 9.00},
	{"TR", 10, 30, 19.00},
	{"FR", 1, 7, 0.40},
	{"FR", 5, 30, 12.00},
	{"FR", 20, 30, 29.00},
	{"DE", 1, 7, 0.55},
	{"DE", 5, 30, 13.50},
	{"US", 3, 15, 11.00},
	{"US", 10, 30, 25.00},
	{"JP", 5, 15, 14.00},
	{"JP", 20, 30, 34.00},
	{"TH", 1, 7, 3.00},
	{"TH", 10, 30, 15.00},
}

var referralCodes = []struct {
	Code     string
	OwnerID  string
	IsActive bool
}{
	{"WELCOME10", "partner-001", true},
	{"TRAVELBUDDY", "partner-002", true},
	{"NOMAD2025", "partner-003", true},
	{"EXPIRED50", "partner-004", false},
}

func planID(p planSeed) string {
	return fmt.Sprintf("%s-%dgb-%dd", strings.ToLower(p.Country), p.DataGB, p.Days)
}

func SeedData(ctx context.Context, pool *pgxpool.Pool) error {
	// Check if data already exists (idempotency)
	var count int
	err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM countries").Scan(&count)
	if err != nil {
		return fmt.Errorf("check existing data: %w", err)
	}
	if count > 0 {
		log.Info().Msg("seed data already exists, skipping")
		return nil
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range countries {
		_, err := tx.Exec(ctx,
			"INSERT INTO countries (code, name) VALUES ($1, $2)",
			c.Code, c.Name)
		if err != nil {
			return fmt.Errorf("insert country %s: %w", c.Code, err)
		}
	}
	log.Info().Int("count", len(countries)).Msg("inserted countries")

	for _, p := range plans {
		_, err := tx.Exec(ctx,
			`INSERT INTO plans (id, name, country_code, data_amount, validity_days, price, currency)
			VALUES ($1, $2, $3, $4, $5, $6, 'USD')`,
			planID(p), fmt.Sprintf("%s %dGB", p.Country, p.DataGB), p.Country,
			fmt.Sprintf("%dGB", p.DataGB), p.Days, p.Price)
		if err != nil {
			return fmt.Errorf("insert plan %s: %w", planID(p), err)
		}
	}
	log.Info().Int("count", len(plans)).Msg("inserted plans")

	for _, rc := range referralCodes {
		_, err := tx.Exec(ctx,
			"INSERT INTO referral_codes (code, owner_id, is_active) VALUES ($1, $2, $3)",
			rc.Code, rc.OwnerID, rc.IsActive)
		if err != nil {
			return fmt.Errorf("insert referral code %s: %w", rc.Code, err)
		}
	}
	log.Info().Int("count", len(referralCodes)).Msg("inserted referral codes")

	s := pricing.DefaultSettings()
	_, err = tx.Exec(ctx,
		`INSERT INTO pricing_settings (id, regular_discount_percentage, referral_discount_percentage,
			minimum_price, transaction_commission_percentage, updated_by)
		VALUES ('general', $1, $2, $3, $4, 'seed')
		ON CONFLICT (id) DO NOTHING`,
		s.RegularDiscountPercentage, s.ReferralDiscountPercentage,
		s.MinimumPrice, s.TransactionCommissionPercentage)
	if err != nil {
		return fmt.Errorf("insert pricing settings: %w", err)
	}
	log.Info().Msg("inserted default pricing settings")

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit seed data: %w", err)
	}

	return nil
}
