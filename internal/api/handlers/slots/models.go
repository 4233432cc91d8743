package slots

import "time"

type SlotResponse struct {
	Start   time.Time `json:"start"`
	StaffID *int64    `json:"staff_id,omitempty"`
}

type SlotsResponse struct {
	Slots    []SlotResponse `json:"slots"`
	Timezone string         `json:"timezone"`
}
