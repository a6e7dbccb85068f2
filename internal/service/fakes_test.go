package service

import (
	"context"
	"errors"
	"sync"

	"github.com/jackc/pgx/v5"

	"github.com/anyulbade/esim-pricing-service/internal/model"
)

type fakePlans struct {
	plans []model.Plan
	err   error
}

func (f *fakePlans) FindByID(ctx context.Context, id string) (*model.Plan, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.plans {
		if p.ID == id {
			p := p
			return &p, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (f *fakePlans) ListByCountry(ctx context.Context, country string, limit, offset int) ([]model.Plan, int, error) {
	if f.err != nil {
		return nil, 0, f.err
	}
	var matched []model.Plan
	for _, p := range f.plans {
		if country == "" || p.CountryCode == country {
			matched = append(matched, p)
		}
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakePlans) ListCountries(ctx context.Context) ([]model.Country, error) {
	if f.err != nil {
		return nil, f.err
	}
	var countries []model.Country
	index := map[string]int{}
	for _, p := range f.plans {
		i, ok := index[p.CountryCode]
		if !ok {
			i = len(countries)
			index[p.CountryCode] = i
			countries = append(countries, model.Country{
				Code: p.CountryCode, Name: p.CountryCode, MinPlanPrice: p.Price, Currency: p.Currency,
			})
		}
		countries[i].PlanCount++
		if p.Price < countries[i].MinPlanPrice {
			countries[i].MinPlanPrice = p.Price
		}
	}
	return countries, nil
}

type fakeReferrals struct {
	active map[string]bool
	err    error
	calls  int
	mu     sync.Mutex
}

func (f *fakeReferrals) IsActive(ctx context.Context, code string) (bool, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return false, f.err
	}
	return f.active[code], nil
}

type fakeSettings struct {
	rec     model.PricingSettingsRecord
	getErr  error
	saveErr error
	saves   int
}

func (f *fakeSettings) Get(ctx context.Context) (*model.PricingSettingsRecord, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	rec := f.rec
	return &rec, nil
}

func (f *fakeSettings) Save(ctx context.Context, rec *model.PricingSettingsRecord) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	f.rec = *rec
	return nil
}

var errStore = errors.New("store unavailable")

func testPlans() []model.Plan {
	return []model.Plan{
		{ID: "tr-1gb-7d", Name: "Turkey 1GB", CountryCode: "TR", ValidityDays: 7, Price: 10, Currency: "USD"},
		{ID: "tr-3gb-30d", Name: "Turkey 3GB", CountryCode: "TR", ValidityDays: 30, Price: 0.4, Currency: "USD"},
		{ID: "fr-5gb-30d", Name: "France 5GB", CountryCode: "FR", ValidityDays: 30, Price: 1, Currency: "USD"},
	}
}
