package restaurants

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripwiseai/go-trip-planner/internal/api"
	"github.com/tripwiseai/go-trip-planner/internal/types"
)

type RestaurantsHandler struct {
	restaurantService RestaurantService
	logger            *slog.Logger
}

func NewRestaurantsHandler(restaurantService RestaurantService, logger *slog.Logger) *RestaurantsHandler {
	return &RestaurantsHandler{
		restaurantService: restaurantService,
		logger:            logger,
	}
}

// GetRestaurants handles GET /restaurants?city=.
func (h *RestaurantsHandler) GetRestaurants(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("RestaurantsHandler").Start(r.Context(), "GetRestaurants", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/restaurants"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "GetRestaurants"))

	city := r.URL.Query().Get("city")
	if city == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "city query parameter is required")
		return
	}

	restaurants, err := h.restaurantService.GetRestaurantsByCity(ctx, city)
	if err != nil {
		l.ErrorContext(ctx, "Failed to fetch restaurants", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, "Failed to fetch restaurants")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, types.RestaurantsResponse{
		Restaurants: restaurants,
		Count:       len(restaurants),
	})
}
