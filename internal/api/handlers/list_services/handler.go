package list_services

import (
	"net/http"

	"github.com/m04kA/booking-core/internal/api/handlers"
)

type Handler struct {
	catalog CatalogService
	logger  Logger
}

func NewHandler(catalog CatalogService, logger Logger) *Handler {
	return &Handler{catalog: catalog, logger: logger}
}

// Handle GET /api/v1/services
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	services, err := h.catalog.ListServices(r.Context())
	if err != nil {
		h.logger.Error("GET /services - failed to list services: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	out := make([]ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, fromDomain(s))
	}
	handlers.RespondJSON(w, http.StatusOK, out)
}
