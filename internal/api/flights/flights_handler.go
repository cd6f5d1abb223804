package flights

import (
	"errors"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripwiseai/go-trip-planner/internal/api"
	"github.com/tripwiseai/go-trip-planner/internal/types"
)

type FlightsHandler struct {
	flightService FlightService
	logger        *slog.Logger
}

func NewFlightsHandler(flightService FlightService, logger *slog.Logger) *FlightsHandler {
	return &FlightsHandler{
		flightService: flightService,
		logger:        logger,
	}
}

// SearchFlights handles POST /flights/search. Provider failures surface as a
// JSON body with an "error" key; the status code is this layer's decision.
func (h *FlightsHandler) SearchFlights(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("FlightsHandler").Start(r.Context(), "SearchFlights", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/flights/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchFlights"))
	l.DebugContext(ctx, "Search flights handler invoked")

	var req types.SearchFlightsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.flightService.SearchFlights(ctx, req)
	if err != nil {
		var verr ValidationError
		if errors.As(err, &verr) {
			api.ErrorResponse(w, r, http.StatusBadRequest, verr.Error())
			return
		}
		var perr *ProviderError
		if errors.As(err, &perr) {
			api.WriteJSONResponse(w, r, http.StatusBadGateway, map[string]string{"error": perr.Message})
			return
		}
		l.ErrorContext(ctx, "Flight search failed", slog.Any("error", err))
		api.WriteJSONResponse(w, r, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, result)
}
