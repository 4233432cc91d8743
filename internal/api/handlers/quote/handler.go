package quote

import (
	"errors"
	"net/http"

	"github.com/m04kA/booking-core/internal/api/handlers"
	"github.com/m04kA/booking-core/internal/domain"
	"github.com/m04kA/booking-core/internal/usecase/pricing"
)

const (
	msgInvalidBody     = "invalid request body"
	msgMixedCurrency   = "services in the bundle use different currencies"
	msgStaffNotFound   = "staff not found"
	msgNoEligibleStaff = "no staff covers the requested services"
)

type Handler struct {
	pricing PricingEngine
	catalog CatalogService
	policy  PolicyProvider
	logger  Logger
}

func NewHandler(pricingEngine PricingEngine, catalog CatalogService, policy PolicyProvider, logger Logger) *Handler {
	return &Handler{pricing: pricingEngine, catalog: catalog, policy: policy, logger: logger}
}

// Handle POST /api/v1/quote
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req QuoteRequest
	if err := handlers.DecodeJSON(r, &req); err != nil || len(req.ServiceIDs) == 0 {
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	staffID := req.StaffID
	if staffID == nil {
		picked, err := h.pickEligibleStaff(r, req.ServiceIDs)
		if err != nil {
			if errors.Is(err, errNoEligibleStaff) {
				handlers.RespondUnprocessable(w, msgNoEligibleStaff)
				return
			}
			h.logger.Error("POST /quote - failed to pick staff: %v", err)
			handlers.RespondInternalError(w)
			return
		}
		staffID = &picked
	}

	p, err := h.policy.GetPolicy(r.Context())
	if err != nil {
		h.logger.Error("POST /quote - failed to load policy: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	snapshot, err := h.pricing.Price(r.Context(), pricing.Request{
		ServiceIDs:    req.ServiceIDs,
		StaffID:       *staffID,
		PaymentMethod: pricing.PaymentMethod(req.PaymentMethod),
	}, p)
	if err != nil {
		switch {
		case errors.Is(err, pricing.ErrMixedCurrency):
			handlers.RespondUnprocessable(w, msgMixedCurrency)
		case errors.Is(err, pricing.ErrStaffNotFound):
			handlers.RespondNotFound(w, msgStaffNotFound)
		case errors.Is(err, pricing.ErrEmptyBundle):
			handlers.RespondBadRequest(w, msgInvalidBody)
		default:
			h.logger.Error("POST /quote - pricing error: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, fromSnapshot(snapshot))
}

var errNoEligibleStaff = errors.New("quote: no staff covers the requested services")

// pickEligibleStaff picks the lowest-id staff member covering every
// required skill of the bundle, used only when the caller leaves staff_id
// unset. The actual slot/staff choice still happens at Hold time.
func (h *Handler) pickEligibleStaff(r *http.Request, serviceIDs []int64) (int64, error) {
	services, err := h.catalog.GetServices(r.Context(), serviceIDs)
	if err != nil {
		return 0, err
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

	staff, err := h.catalog.ListStaff(r.Context())
	if err != nil {
		return 0, err
	}

	var best *domain.Staff
	for _, s := range staff {
		if !s.HasSkills(requiredList) {
			continue
		}
		if best == nil || s.ID < best.ID {
			best = s
		}
	}
	if best == nil {
		return 0, errNoEligibleStaff
	}
	return best.ID, nil
}
