package list_staff

import "github.com/m04kA/booking-core/internal/domain"

type StaffResponse struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"display_name"`
}

func fromDomain(s *domain.Staff) StaffResponse {
	return StaffResponse{ID: s.ID, DisplayName: s.DisplayName}
}
