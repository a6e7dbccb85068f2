package pricing

import "encoding/json"

const (
	DefaultRegularDiscountPercentage       = 10.0
	DefaultReferralDiscountPercentage      = 10.0
	DefaultMinimumPrice                    = 0.5
	DefaultTransactionCommissionPercentage = 5.0
)

// Settings is the pricing record as it is stored. A nil field means the
// value was never configured and the documented default applies.
type Settings struct {
	RegularDiscountPercentage       *float64 `json:"regular_discount_percentage,omitempty"`
	ReferralDiscountPercentage      *float64 `json:"referral_discount_percentage,omitempty"`
	MinimumPrice                    *float64 `json:"minimum_price,omitempty"`
	TransactionCommissionPercentage *float64 `json:"transaction_commission_percentage,omitempty"`
}

// Configuration is a fully resolved set of pricing values.
type Configuration struct {
	RegularDiscountPercentage       float64 `json:"regular_discount_percentage"`
	ReferralDiscountPercentage      float64 `json:"referral_discount_percentage"`
	MinimumPrice                    float64 `json:"minimum_price"`
	TransactionCommissionPercentage float64 `json:"transaction_commission_percentage"`
}

func Float(v float64) *float64 {
	return &v
}

func DefaultSettings() Settings {
	return Settings{
		RegularDiscountPercentage:       Float(DefaultRegularDiscountPercentage),
		ReferralDiscountPercentage:      Float(DefaultReferralDiscountPercentage),
		MinimumPrice:                    Float(DefaultMinimumPrice),
		TransactionCommissionPercentage: Float(DefaultTransactionCommissionPercentage),
	}
}

// Resolve substitutes the documented defaults for every unset field.
func (s Settings) Resolve() Configuration {
	return Configuration{
		RegularDiscountPercentage:       valueOr(s.RegularDiscountPercentage, DefaultRegularDiscountPercentage),
		ReferralDiscountPercentage:      valueOr(s.ReferralDiscountPercentage, DefaultReferralDiscountPercentage),
		MinimumPrice:                    valueOr(s.MinimumPrice, DefaultMinimumPrice),
		TransactionCommissionPercentage: valueOr(s.TransactionCommissionPercentage, DefaultTransactionCommissionPercentage),
	}
}

// Merge returns s with every non-nil field of patch applied on top.
func (s Settings) Merge(patch Settings) Settings {
	out := s
	if patch.RegularDiscountPercentage != nil {
		out.RegularDiscountPercentage = Float(*patch.RegularDiscountPercentage)
	}
	if patch.ReferralDiscountPercentage != nil {
		out.ReferralDiscountPercentage = Float(*patch.ReferralDiscountPercentage)
	}
	if patch.MinimumPrice != nil {
		out.MinimumPrice = Float(*patch.MinimumPrice)
	}
	if patch.TransactionCommissionPercentage != nil {
		out.TransactionCommissionPercentage = Float(*patch.TransactionCommissionPercentage)
	}
	return out
}

// UnmarshalJSON accepts the legacy markup_percentage key, which older admin
// screens wrote in place of the referral discount.
func (s *Settings) UnmarshalJSON(data []byte) error {
	type plain Settings
	var aux struct {
		plain
		MarkupPercentage *float64 `json:"markup_percentage,omitempty"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*s = Settings(aux.plain)
	if s.ReferralDiscountPercentage == nil && aux.MarkupPercentage != nil {
		s.ReferralDiscountPercentage = aux.MarkupPercentage
	}
	return nil
}

func valueOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
