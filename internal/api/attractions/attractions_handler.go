package attractions

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripwiseai/go-trip-planner/internal/api"
)

type AttractionsHandler struct {
	attractionService AttractionService
	logger            *slog.Logger
}

func NewAttractionsHandler(attractionService AttractionService, logger *slog.Logger) *AttractionsHandler {
	return &AttractionsHandler{
		attractionService: attractionService,
		logger:            logger,
	}
}

// GetAttractions handles GET /attractions?city=.
func (h *AttractionsHandler) GetAttractions(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("AttractionsHandler").Start(r.Context(), "GetAttractions", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/attractions"),
	))
	defer span.End()

	city := r.URL.Query().Get("city")
	if city == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "city query parameter is required")
		return
	}

	h.logger.DebugContext(ctx, "Fetching attractions", slog.String("city", city))

	resp := h.attractionService.GetAttractions(ctx, city)
	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusBadGateway
	}
	api.WriteJSONResponse(w, r, status, resp)
}
