package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anyulbade/esim-pricing-service/internal/model"
	"github.com/anyulbade/esim-pricing-service/internal/pricing"
)

func newQuoteFixture() (*QuoteService, *fakeReferrals, *fakeSettings) {
	referrals := &fakeReferrals{active: map[string]bool{"FRIEND50": true, "OLDCODE": false}}
	settings := &fakeSettings{rec: model.PricingSettingsRecord{Settings: pricing.Settings{
		RegularDiscountPercentage:       pricing.Float(10),
		ReferralDiscountPercentage:      pricing.Float(50),
		MinimumPrice:                    pricing.Float(0.5),
		TransactionCommissionPercentage: pricing.Float(5),
	}}}
	return NewQuoteService(&fakePlans{plans: testPlans()}, referrals, settings), referrals, settings
}

func TestQuoteService_Quote(t *testing.T) {
	ctx := context.Background()

	t.Run("regular path without code", func(t *testing.T) {
		svc, referrals, _ := newQuoteFixture()
		q, err := svc.Quote(ctx, "tr-1gb-7d", "")
		require.NoError(t, err)
		assert.NotEmpty(t, q.QuoteID)
		assert.False(t, q.ReferralApplied)
		assert.InDelta(t, 9.0, q.Pricing.DiscountedPrice, 1e-9)
		assert.Nil(t, q.Pricing.Commission)
		assert.Equal(t, "USD 9.00", q.Display.Formatted)
		assert.Equal(t, 0, referrals.calls, "no lookup without a code")
	})

	t.Run("valid referral code", func(t *testing.T) {
		svc, _, _ := newQuoteFixture()
		q, err := svc.Quote(ctx, "tr-1gb-7d", " FRIEND50 ")
		require.NoError(t, err)
		assert.True(t, q.ReferralApplied)
		assert.Equal(t, "FRIEND50", q.ReferralCode)
		assert.Equal(t, 50.0, q.Pricing.DiscountPercentageApplied)
		require.NotNil(t, q.Display.Commission)
		assert.Equal(t, 0.25, *q.Display.Commission)
	})

	t.Run("inactive code falls back to regular", func(t *testing.T) {
		svc, _, _ := newQuoteFixture()
		q, err := svc.Quote(ctx, "tr-1gb-7d", "OLDCODE")
		require.NoError(t, err)
		assert.False(t, q.ReferralApplied)
		assert.Equal(t, 10.0, q.Pricing.DiscountPercentageApplied)
	})

	t.Run("floor applies and savings stay negative", func(t *testing.T) {
		svc, _, _ := newQuoteFixture()
		q, err := svc.Quote(ctx, "tr-3gb-30d", "")
		require.NoError(t, err)
		assert.Equal(t, 0.5, q.Pricing.DiscountedPrice)
		assert.False(t, q.HasDiscount)
		assert.Equal(t, -0.1, q.Display.Savings)
	})

	t.Run("unknown plan", func(t *testing.T) {
		svc, _, _ := newQuoteFixture()
		_, err := svc.Quote(ctx, "nope", "")
		assert.ErrorIs(t, err, ErrPlanNotFound)
	})

	t.Run("settings load failure", func(t *testing.T) {
		svc, _, settings := newQuoteFixture()
		settings.getErr = errStore
		_, err := svc.Quote(ctx, "tr-1gb-7d", "")
		assert.ErrorIs(t, err, errStore)
	})

	t.Run("referral lookup failure", func(t *testing.T) {
		svc, referrals, _ := newQuoteFixture()
		referrals.err = errStore
		_, err := svc.Quote(ctx, "tr-1gb-7d", "FRIEND50")
		assert.ErrorIs(t, err, errStore)
	})

	t.Run("invalid stored settings surface as invalid input", func(t *testing.T) {
		svc, _, settings := newQuoteFixture()
		settings.rec.Settings.RegularDiscountPercentage = pricing.Float(120)
		_, err := svc.Quote(ctx, "tr-1gb-7d", "")
		assert.ErrorIs(t, err, pricing.ErrInvalidInput)
	})
}

func TestQuoteService_ListPlans(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newQuoteFixture()

	plans, total, referral, err := svc.ListPlans(ctx, "TR", "FRIEND50", 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.True(t, referral)
	require.Len(t, plans, 2)
	assert.InDelta(t, 5.0, plans[0].Pricing.DiscountedPrice, 1e-9)
	assert.True(t, plans[0].HasDiscount)
	assert.Equal(t, 0.5, plans[1].Pricing.DiscountedPrice)

	page, total, _, err := svc.ListPlans(ctx, "", "", 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, page, 1)
	assert.Equal(t, "fr-5gb-30d", page[0].Plan.ID)
	assert.InDelta(t, 0.9, page[0].Pricing.DiscountedPrice, 1e-9)
}

func TestQuoteService_ListPlansWrapsStoreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("plan store", func(t *testing.T) {
		svc := NewQuoteService(&fakePlans{err: errStore}, &fakeReferrals{}, &fakeSettings{})
		_, _, _, err := svc.ListPlans(ctx, "TR", "", 20, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errStore))
		assert.ErrorContains(t, err, "list plans")
	})

	t.Run("referral store", func(t *testing.T) {
		svc, referrals, _ := newQuoteFixture()
		referrals.err = errStore
		_, _, _, err := svc.ListPlans(ctx, "TR", "FRIEND50", 20, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errStore))
		assert.ErrorContains(t, err, "resolve referral code")
	})
}

func TestQuoteService_ListCountries(t *testing.T) {
	ctx := context.Background()

	t.Run("cheapest plan per country on regular path", func(t *testing.T) {
		svc, _, _ := newQuoteFixture()
		countries, referral, err := svc.ListCountries(ctx, "")
		require.NoError(t, err)
		assert.False(t, referral)
		require.Len(t, countries, 2)

		assert.Equal(t, "TR", countries[0].Country.Code)
		assert.Equal(t, 2, countries[0].Country.PlanCount)
		assert.Equal(t, 0.4, countries[0].FromPrice.OriginalPrice)
		assert.Equal(t, 0.5, countries[0].FromPrice.DiscountedPrice)
		assert.False(t, countries[0].HasDiscount)

		assert.Equal(t, "FR", countries[1].Country.Code)
		assert.InDelta(t, 0.9, countries[1].FromPrice.DiscountedPrice, 1e-9)
		assert.Nil(t, countries[1].FromPrice.Commission)
	})

	t.Run("active referral code", func(t *testing.T) {
		svc, _, _ := newQuoteFixture()
		countries, referral, err := svc.ListCountries(ctx, " FRIEND50 ")
		require.NoError(t, err)
		assert.True(t, referral)
		require.Len(t, countries, 2)
		assert.Equal(t, 0.5, countries[1].FromPrice.DiscountedPrice)
		require.NotNil(t, countries[1].Display.Commission)
	})

	t.Run("store errors are wrapped", func(t *testing.T) {
		svc := NewQuoteService(&fakePlans{err: errStore}, &fakeReferrals{}, &fakeSettings{})
		_, _, err := svc.ListCountries(ctx, "")
		assert.ErrorIs(t, err, errStore)
		assert.ErrorContains(t, err, "list countries")
	})
}
