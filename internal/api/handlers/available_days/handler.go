package available_days

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
	msgInvalidQuery = "invalid year, month or service_ids"
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

// Handle GET /api/v1/availability/days?staff_id=&year=&month=&service_ids=1,2
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	year, err := strconv.Atoi(q.Get("year"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidQuery)
		return
	}
	monthInt, err := strconv.Atoi(q.Get("month"))
	if err != nil || monthInt < 1 || monthInt > 12 {
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
		h.logger.Error("GET /available-days - failed to load policy: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	var days []int
	if staffIDStr := q.Get("staff_id"); staffIDStr != "" {
		staffID, err := strconv.ParseInt(staffIDStr, 10, 64)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidQuery)
			return
		}
		days, err = h.engine.AvailableDays(r.Context(), staffID, year, time.Month(monthInt), bundle, p)
		if err != nil {
			h.respondEngineErr(w, err)
			return
		}
	} else {
		days, err = h.engine.AvailableDaysAny(r.Context(), year, time.Month(monthInt), bundle, p)
		if err != nil {
			h.respondEngineErr(w, err)
			return
		}
	}

	handlers.RespondJSON(w, http.StatusOK, DaysResponse{Days: days, Timezone: p.BusinessTimezone})
}

func (h *Handler) respondEngineErr(w http.ResponseWriter, err error) {
	if errors.Is(err, availability.ErrNoSkillMatch) {
		handlers.RespondUnprocessable(w, msgNoSkillMatch)
		return
	}
	h.logger.Error("GET /available-days - engine error: %v", err)
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
