package list_staff

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/m04kA/booking-core/internal/api/handlers"
	"github.com/m04kA/booking-core/internal/domain"
)

const msgInvalidServiceIDs = "invalid service_ids filter"

type Handler struct {
	catalog CatalogService
	logger  Logger
}

func NewHandler(catalog CatalogService, logger Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

// Handle GET /api/v1/staff?service_ids=1,2
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	ids, err := parseServiceIDs(r.URL.Query().Get("service_ids"))
	if err != nil {
		handlers.RespondBadRequest(w, msgInvalidServiceIDs)
		return
	}

	staff, err := h.catalog.ListStaff(r.Context())
	if err != nil {
		h.logger.Error("GET /staff - failed to list staff: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	if len(ids) > 0 {
		staff, err = h.filterByServices(r, ids, staff)
		if err != nil {
			h.logger.Error("GET /staff - failed to load services: %v", err)
			handlers.RespondInternalError(w)
			return
		}
	}

	out := make([]StaffResponse, 0, len(staff))
	for _, s := range staff {
		out = append(out, fromDomain(s))
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}

func (h *Handler) filterByServices(r *http.Request, ids []int64, staff []*domain.Staff) ([]*domain.Staff, error) {
	services, err := h.catalog.GetServices(r.Context(), ids)
	if err != nil {
		return nil, err
	}

	required := map[string]struct{}{}
	for _, svc := range services {
		for _, skill := range svc.RequiredSkills {
			required[skill] = struct{}{}
		}
	}
	requiredList := make([]string, 0, len(required))
	for skill := range required {
		requiredList = append(requiredList, skill)
	}

	filtered := make([]*domain.Staff, 0, len(staff))
	for _, s := range staff {
		if s.HasSkills(requiredList) {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func parseServiceIDs(raw string) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
