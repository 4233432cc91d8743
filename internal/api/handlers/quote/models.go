package quote

import "github.com/m04kA/booking-core/internal/usecase/pricing"

type QuoteRequest struct {
	ServiceIDs    []int64 `json:"service_ids"`
	StaffID       *int64  `json:"staff_id,omitempty"`
	PaymentMethod string  `json:"payment_method"`
}

type QuoteResponse struct {
	OriginalMinor     int64  `json:"original_minor"`
	DiscountMinor     int64  `json:"discount_minor"`
	DiscountPercent   int    `json:"discount_percent"`
	FinalMinor        int64  `json:"final_minor"`
	Currency          string `json:"currency"`
	EffectiveDuration int    `json:"effective_duration_minutes"`
}

func fromSnapshot(s *pricing.Snapshot) QuoteResponse {
	return QuoteResponse{
		OriginalMinor:     s.OriginalMinor,
		DiscountMinor:     s.DiscountMinor,
		DiscountPercent:   s.DiscountPercent,
		FinalMinor:        s.FinalMinor,
		Currency:          s.Currency,
		EffectiveDuration: s.EffectiveDuration,
	}
}
