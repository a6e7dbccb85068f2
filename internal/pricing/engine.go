// Package pricing derives the customer-facing price of a plan from its list
// price and the configured discount, floor and commission percentages.
//
// Every function in this package is pure: no I/O, no shared state. Callers
// load the settings record and resolve referral validity before calling in.
package pricing

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is the only error kind the engine produces.
var ErrInvalidInput = errors.New("invalid pricing input")

// InputError names the offending field. It matches ErrInvalidInput under errors.Is.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// Result is computed fresh for every preview or checkout and never persisted.
type Result struct {
	OriginalPrice             float64  `json:"original_price"`
	DiscountPercentageApplied float64  `json:"discount_percentage_applied"`
	DiscountedPrice           float64  `json:"discounted_price"`
	Savings                   float64  `json:"savings"`
	Commission                *float64 `json:"commission"`
}

// HasDiscount reports whether the customer pays less than the list price.
func (r Result) HasDiscount() bool {
	return r.DiscountedPrice < r.OriginalPrice
}

// ComputePrice applies exactly one discount path, selected by hasReferralCode,
// then the minimum-price floor. Commission is set only on the referral path.
// Values are not rounded.
func ComputePrice(originalPrice float64, settings Settings, hasReferralCode bool) (Result, error) {
	if err := checkPrice("original_price", originalPrice); err != nil {
		return Result{}, err
	}
	cfg := settings.Resolve()
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}

	applied := cfg.RegularDiscountPercentage
	if hasReferralCode {
		applied = cfg.ReferralDiscountPercentage
	}

	raw := originalPrice * (100 - applied) / 100
	discounted := math.Max(cfg.MinimumPrice, raw)

	res := Result{
		OriginalPrice:             originalPrice,
		DiscountPercentageApplied: applied,
		DiscountedPrice:           discounted,
		Savings:                   originalPrice - discounted,
	}
	if hasReferralCode {
		commission := discounted * cfg.TransactionCommissionPercentage / 100
		res.Commission = &commission
	}
	return res, nil
}

// ValidateSettings checks a stored or submitted record after default substitution.
func ValidateSettings(s Settings) error {
	return s.Resolve().Validate()
}

func (c Configuration) Validate() error {
	percentages := []struct {
		field string
		value float64
	}{
		{"regular_discount_percentage", c.RegularDiscountPercentage},
		{"referral_discount_percentage", c.ReferralDiscountPercentage},
		{"transaction_commission_percentage", c.TransactionCommissionPercentage},
	}
	for _, p := range percentages {
		if math.IsNaN(p.value) || p.value < 0 || p.value > 100 {
			return &InputError{Field: p.field, Message: fmt.Sprintf("must be between 0 and 100, got %v", p.value)}
		}
	}
	return checkPrice("minimum_price", c.MinimumPrice)
}

func checkPrice(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &InputError{Field: field, Message: "must be a finite number"}
	}
	if v < 0 {
		return &InputError{Field: field, Message: fmt.Sprintf("must not be negative, got %v", v)}
	}
	return nil
}
