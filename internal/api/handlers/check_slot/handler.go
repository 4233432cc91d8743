package check_slot

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/booking-core/internal/api/handlers"
	"github.com/m04kA/booking-core/internal/usecase/availability"
)

const (
	msgInvalidQuery   = "invalid start, date or service_ids"
	msgNoSkillMatch   = "no staff covers the requested services"
	conflictSlotTaken = "slot_unavailable"
)

type Handler struct {
	engine AvailabilityEngine
	policy PolicyProvider
	logger Logger
}

func NewHandler(engine AvailabilityEngine, policy PolicyProvider, logger Logger) *Handler {
	return &Handler{engine: engine, policy: policy, logger: logger}
}

// Handle GET /api/v1/availability/check?staff_id=&start=2025-06-10T11:00:00Z&service_ids=1,2
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	start, err := time.Parse(time.RFC3339, q.Get("start"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	bundle, err := parseBundle(q.Get("service_ids"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}

	p, err := h.policy.GetPolicy(r.Context())
	if err != nil {
		h.logger.Error("GET /check-slot - failed to load policy: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	startOfDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())

	var available bool
	if staffIDStr := q.Get("staff_id"); staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		slots, err := h.engine.Slots(r.Context(), staffID, startOfDay, bundle, p)
		if err != nil {
			h.respondEngineErr(w, err)
			return
		}
		available = containsInstant(slots, start)
	} else {
		staffSlots, err := h.engine.SlotsAny(r.Context(), startOfDay, bundle, p)
		if err != nil {
			h.respondEngineErr(w, err)
			return
		}
		for _, ss := range staffSlots {
			if ss.Start.Equal(start) {
				available = true
				break
			}
		}
	}

	resp := CheckSlotResponse{Available: available}
	if !available {
		resp.Conflict = conflictSlotTaken
	}
	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondEngineErr(w http.ResponseWriter, err error) {
	if errors.Is(err, availability.ErrNoSkillMatch) {
		handlers.RespondUnprocessable(w, msgNoSkillMatch)
		return
	}
	h.logger.Error("GET /check-slot - engine error: %v", err)
	handlers.RespondInternalError(w)
}

func containsInstant(slots []time.Time, target time.Time) bool {
	for _, s := range slots {
		if s.Equal(target) {
			return true
		}
	}
	return false
}

func parseBundle(raw string) (availability.Bundle, error) {
	if raw == "" {
		return nil, errors.New("empty service_ids")
	}
	parts := strings.Split(raw, ",")
	bundle := make(availability.Bundle, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		bundle = append(bundle, id)
	}
	return bundle, nil
}
