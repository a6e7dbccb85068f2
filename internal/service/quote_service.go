package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/anyulbade/esim-pricing-service/internal/model"
	"github.com/anyulbade/esim-pricing-service/internal/money"
	"github.com/anyulbade/esim-pricing-service/internal/pricing"
)

type QuoteService struct {
	plans     PlanStore
	referrals ReferralResolver
	settings  SettingsStore
}

func NewQuoteService(plans PlanStore, referrals ReferralResolver, settings SettingsStore) *QuoteService {
	return &QuoteService{plans: plans, referrals: referrals, settings: settings}
}

// DisplayPrice carries checkout values rounded to cents.
type DisplayPrice struct {
	OriginalPrice   float64  `json:"original_price"`
	DiscountedPrice float64  `json:"discounted_price"`
	Savings         float64  `json:"savings"`
	Commission      *float64 `json:"commission,omitempty"`
	Formatted       string   `json:"formatted"`
}

type Quote struct {
	QuoteID         string         `json:"quote_id"`
	Plan            model.Plan     `json:"plan"`
	ReferralCode    string         `json:"referral_code,omitempty"`
	ReferralApplied bool           `json:"referral_applied"`
	HasDiscount     bool           `json:"has_discount"`
	Pricing         pricing.Result `json:"pricing"`
	Display         DisplayPrice   `json:"display"`
	GeneratedAt     time.Time      `json:"generated_at"`
}

// CountryPrice is a country card: the cheapest plan's price on the
// visitor's discount path.
type CountryPrice struct {
	Country     model.Country  `json:"country"`
	HasDiscount bool           `json:"has_discount"`
	FromPrice   pricing.Result `json:"from_price"`
	Display     DisplayPrice   `json:"display"`
}

type PlanPrice struct {
	Plan        model.Plan     `json:"plan"`
	HasDiscount bool           `json:"has_discount"`
	Pricing     pricing.Result `json:"pricing"`
	Display     DisplayPrice   `json:"display"`
}

// Quote prices a plan for checkout. An unknown or inactive referral code
// falls back to the regular discount rather than failing the quote.
func (s *QuoteService) Quote(ctx context.Context, planID, referralCode string) (*Quote, error) {
	referralCode = strings.TrimSpace(referralCode)

	g, gctx := errgroup.WithContext(ctx)

	var plan *model.Plan
	var rec *model.PricingSettingsRecord
	var referral bool

	g.Go(func() error {
		var err error
		plan, err = s.plans.FindByID(gctx, planID)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrPlanNotFound
		}
		if err != nil {
			return fmt.Errorf("load plan: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		rec, err = s.settings.Get(gctx)
		if err != nil {
			return fmt.Errorf("load pricing settings: %w", err)
		}
		return nil
	})

	if referralCode != "" {
		g.Go(func() error {
			var err error
			referral, err = s.referrals.IsActive(gctx, referralCode)
			if err != nil {
				return fmt.Errorf("resolve referral code: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	res, err := pricing.ComputePrice(plan.Price, rec.Settings, referral)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("plan_id", plan.ID).
		Bool("referral_applied", referral).
		Float64("discounted_price", res.DiscountedPrice).
		Msg("quote computed")

	return &Quote{
		QuoteID:         uuid.NewString(),
		Plan:            *plan,
		ReferralCode:    referralCode,
		ReferralApplied: referral,
		HasDiscount:     res.HasDiscount(),
		Pricing:         res,
		Display:         checkoutDisplay(res, plan.Currency),
		GeneratedAt:     time.Now().UTC(),
	}, nil
}

// ListPlans prices every plan in a country for the visitor's discount path.
func (s *QuoteService) ListPlans(ctx context.Context, country, referralCode string, limit, offset int) ([]PlanPrice, int, bool, error) {
	referralCode = strings.TrimSpace(referralCode)

	g, gctx := errgroup.WithContext(ctx)

	var plans []model.Plan
	var total int
	var rec *model.PricingSettingsRecord
	var referral bool

	g.Go(func() error {
		var err error
		plans, total, err = s.plans.ListByCountry(gctx, country, limit, offset)
		if err != nil {
			return fmt.Errorf("list plans: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rec, err = s.settings.Get(gctx)
		if err != nil {
			return fmt.Errorf("load pricing settings: %w", err)
		}
		return nil
	})
	if referralCode != "" {
		g.Go(func() error {
			var err error
			referral, err = s.referrals.IsActive(gctx, referralCode)
			if err != nil {
				return fmt.Errorf("resolve referral code: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, 0, false, err
	}

	results := make([]PlanPrice, 0, len(plans))
	for _, p := range plans {
		res, err := pricing.ComputePrice(p.Price, rec.Settings, referral)
		if err != nil {
			return nil, 0, false, fmt.Errorf("price plan %s: %w", p.ID, err)
		}
		results = append(results, PlanPrice{
			Plan:        p,
			HasDiscount: res.HasDiscount(),
			Pricing:     res,
			Display:     checkoutDisplay(res, p.Currency),
		})
	}
	return results, total, referral, nil
}

// ListCountries prices the cheapest plan of every country. The engine is
// monotonic in the list price, so this is also the lowest price the visitor
// can pay there.
func (s *QuoteService) ListCountries(ctx context.Context, referralCode string) ([]CountryPrice, bool, error) {
	referralCode = strings.TrimSpace(referralCode)

	g, gctx := errgroup.WithContext(ctx)

	var countries []model.Country
	var rec *model.PricingSettingsRecord
	var referral bool

	g.Go(func() error {
		var err error
		countries, err = s.plans.ListCountries(gctx)
		if err != nil {
			return fmt.Errorf("list countries: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rec, err = s.settings.Get(gctx)
		if err != nil {
			return fmt.Errorf("load pricing settings: %w", err)
		}
		return nil
	})
	if referralCode != "" {
		g.Go(func() error {
			var err error
			referral, err = s.referrals.IsActive(gctx, referralCode)
			if err != nil {
				return fmt.Errorf("resolve referral code: %w", err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, false, err
	}

	results := make([]CountryPrice, 0, len(countries))
	for _, c := range countries {
		res, err := pricing.ComputePrice(c.MinPlanPrice, rec.Settings, referral)
		if err != nil {
			return nil, false, fmt.Errorf("price country %s: %w", c.Code, err)
		}
		results = append(results, CountryPrice{
			Country:     c,
			HasDiscount: res.HasDiscount(),
			FromPrice:   res,
			Display:     checkoutDisplay(res, c.Currency),
		})
	}
	return results, referral, nil
}

func checkoutDisplay(res pricing.Result, currency string) DisplayPrice {
	d := DisplayPrice{
		OriginalPrice:   money.Cents(res.OriginalPrice),
		DiscountedPrice: money.Cents(res.DiscountedPrice),
		Savings:         money.Cents(res.Savings),
		Formatted:       money.Format(res.DiscountedPrice, currency),
	}
	if res.Commission != nil {
		c := money.Cents(*res.Commission)
		d.Commission = &c
	}
	return d
}
