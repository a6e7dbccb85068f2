package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/anyulbade/esim-pricing-service/internal/model"
	"github.com/anyulbade/esim-pricing-service/internal/pricing"
)

// FirestoreSettingsRepository keeps pricing in the two documents the
// storefront and admin dashboard share. settings/general (nested referral and
// regular maps) is what the storefront prices from, so it takes precedence on
// read; config/pricing fills any field it lacks. Both are written on save.
type FirestoreSettingsRepository struct {
	client *firestore.Client
}

func NewFirestoreSettingsRepository(client *firestore.Client) *FirestoreSettingsRepository {
	return &FirestoreSettingsRepository{client: client}
}

func (r *FirestoreSettingsRepository) general() *firestore.DocumentRef {
	return r.client.Collection("settings").Doc("general")
}

func (r *FirestoreSettingsRepository) pricingDoc() *firestore.DocumentRef {
	return r.client.Collection("config").Doc("pricing")
}

func (r *FirestoreSettingsRepository) Get(ctx context.Context) (*model.PricingSettingsRecord, error) {
	rec := &model.PricingSettingsRecord{}

	var general pricing.Settings
	snap, err := r.general().Get(ctx)
	switch {
	case status.Code(err) == codes.NotFound:
	case err != nil:
		return nil, fmt.Errorf("get settings/general: %w", err)
	default:
		general = decodeGeneralSettings(snap.Data())
		rec.UpdatedAt = snap.UpdateTime
	}

	if complete(general) {
		rec.Settings = general
		return rec, nil
	}

	snap, err = r.pricingDoc().Get(ctx)
	switch {
	case status.Code(err) == codes.NotFound:
		rec.Settings = general
		return rec, nil
	case err != nil:
		return nil, fmt.Errorf("get config/pricing: %w", err)
	}

	admin, err := decodeFirestoreSettings(snap.Data())
	if err != nil {
		return nil, err
	}
	rec.Settings = mergeFirestoreSettings(general, admin)
	if snap.UpdateTime.After(rec.UpdatedAt) {
		rec.UpdatedAt = snap.UpdateTime
	}
	if by, ok := snap.Data()["updated_by"].(string); ok {
		rec.UpdatedBy = by
	}
	return rec, nil
}

// Save merges the record into both documents in one transaction. Unset
// fields are left as stored.
func (r *FirestoreSettingsRepository) Save(ctx context.Context, rec *model.PricingSettingsRecord) error {
	pricingData, generalData := encodeFirestoreSettings(rec.Settings, rec.UpdatedBy)
	pricingData["updated_at"] = firestore.ServerTimestamp
	generalData["updated_at"] = firestore.ServerTimestamp

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		if err := tx.Set(r.pricingDoc(), pricingData, firestore.MergeAll); err != nil {
			return err
		}
		return tx.Set(r.general(), generalData, firestore.MergeAll)
	})
	if err != nil {
		return fmt.Errorf("save pricing settings: %w", err)
	}
	rec.UpdatedAt = time.Now().UTC()
	return nil
}

// encodeFirestoreSettings builds the config/pricing and settings/general
// payloads. The referral discount is also written as markup_percentage, the
// key the admin dashboard reads, and the single minimum price goes to both
// the referral and regular maps.
func encodeFirestoreSettings(s pricing.Settings, updatedBy string) (map[string]interface{}, map[string]interface{}) {
	pricingData := map[string]interface{}{}
	if updatedBy != "" {
		pricingData["updated_by"] = updatedBy
	}
	setIf(pricingData, "regular_discount_percentage", s.RegularDiscountPercentage)
	setIf(pricingData, "referral_discount_percentage", s.ReferralDiscountPercentage)
	setIf(pricingData, "markup_percentage", s.ReferralDiscountPercentage)
	setIf(pricingData, "minimum_price", s.MinimumPrice)
	setIf(pricingData, "transaction_commission_percentage", s.TransactionCommissionPercentage)

	referral := map[string]interface{}{}
	setIf(referral, "discountPercentage", s.ReferralDiscountPercentage)
	setIf(referral, "minimumPrice", s.MinimumPrice)
	setIf(referral, "transactionCommissionPercentage", s.TransactionCommissionPercentage)

	regular := map[string]interface{}{}
	setIf(regular, "discountPercentage", s.RegularDiscountPercentage)
	setIf(regular, "minimumPrice", s.MinimumPrice)

	generalData := map[string]interface{}{}
	if len(referral) > 0 {
		generalData["referral"] = referral
	}
	if len(regular) > 0 {
		generalData["regular"] = regular
	}
	return pricingData, generalData
}

func decodeFirestoreSettings(data map[string]interface{}) (pricing.Settings, error) {
	var s pricing.Settings
	raw, err := json.Marshal(data)
	if err != nil {
		return s, fmt.Errorf("encode pricing document: %w", err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return s, fmt.Errorf("decode pricing document: %w", err)
	}
	return s, nil
}

func decodeGeneralSettings(general map[string]interface{}) pricing.Settings {
	referral, _ := general["referral"].(map[string]interface{})
	regular, _ := general["regular"].(map[string]interface{})

	s := pricing.Settings{
		RegularDiscountPercentage:       number(regular, "discountPercentage"),
		ReferralDiscountPercentage:      number(referral, "discountPercentage"),
		MinimumPrice:                    number(regular, "minimumPrice"),
		TransactionCommissionPercentage: number(referral, "transactionCommissionPercentage"),
	}
	if s.MinimumPrice == nil {
		s.MinimumPrice = number(referral, "minimumPrice")
	}
	return s
}

// mergeFirestoreSettings keeps every field set in general and takes the rest
// from the admin pricing document.
func mergeFirestoreSettings(general, admin pricing.Settings) pricing.Settings {
	return admin.Merge(general)
}

func complete(s pricing.Settings) bool {
	return s.RegularDiscountPercentage != nil && s.ReferralDiscountPercentage != nil &&
		s.MinimumPrice != nil && s.TransactionCommissionPercentage != nil
}

// number reads a Firestore numeric value, which arrives as int64 or float64.
func number(m map[string]interface{}, key string) *float64 {
	switch v := m[key].(type) {
	case float64:
		return pricing.Float(v)
	case int64:
		return pricing.Float(float64(v))
	case int:
		return pricing.Float(float64(v))
	}
	return nil
}

func setIf(data map[string]interface{}, key string, v *float64) {
	if v != nil {
		data[key] = *v
	}
}
