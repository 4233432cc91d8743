package list_services

import "github.com/m04kA/booking-core/internal/domain"

type ServiceResponse struct {
	ID              int64    `json:"id"`
	Name            string   `json:"name"`
	BaseDurationMin int      `json:"base_duration_min"`
	BasePriceMinor  int64    `json:"base_price_minor"`
	Currency        string   `json:"currency"`
	RequiredSkills  []string `json:"required_skills"`
}

func fromDomain(s *domain.Service) ServiceResponse {
	return ServiceResponse{
		ID:              s.ID,
		Name:            s.Name,
		BaseDurationMin: s.BaseDurationMin,
		BasePriceMinor:  s.BasePriceMinor,
		Currency:        s.Currency,
		RequiredSkills:  s.RequiredSkills,
	}
}
