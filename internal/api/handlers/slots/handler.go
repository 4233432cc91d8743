package slots

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
	msgInvalidQuery = "invalid date or service_ids"
	msgNoSkillMatch = "no staff covers the requested services"
)

type Handler struct {
	engine AvailabilityEngine
	policy PolicyProvider
	logger Logger
}

func NewHandler(engine AvailabilityEngine, policy PolicyProvider, logger Logger) *Handler {
	return &Handler{engine: engine, policy: policy, logger: logger}
}

// Handle GET /api/v1/availability/slots?staff_id=&date=2025-06-10&service_ids=1,2
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	date, err := time.Parse("2006-01-02", q.Get("date"))
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
		h.logger.Error("GET /slots - failed to load policy: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	resp := SlotsResponse{Timezone: p.BusinessTimezone}

	if staffIDStr := q.Get("staff_id"); staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		starts, err := h.engine.Slots(r.Context(), staffID, date, bundle, p)
		if err != nil {
			h.respondEngineErr(w, err)
			return
		}
		for _, s := range starts {
			resp.Slots = append(resp.Slots, SlotResponse{Start: s, StaffID: &staffID})
		}
	} else {
		staffSlots, err := h.engine.SlotsAny(r.Context(), date, bundle, p)
		if err != nil {
			h.respondEngineErr(w, err)
			return
		}
		for _, ss := range staffSlots {
			staffID := ss.StaffID
			resp.Slots = append(resp.Slots, SlotResponse{Start: ss.Start, StaffID: &staffID})
		}
	}

	handlers.RespondJSON(w, http.StatusOK, resp)
}

func (h *Handler) respondEngineErr(w http.ResponseWriter, err error) {
	if errors.Is(err, availability.ErrNoSkillMatch) {
		handlers.RespondUnprocessable(w, msgNoSkillMatch)
		return
	}
	h.logger.Error("GET /slots - engine error: %v", err)
	handlers.RespondInternalError(w)
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
