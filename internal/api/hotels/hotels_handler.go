package hotels

import (
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripwiseai/go-trip-planner/internal/api"
	"github.com/tripwiseai/go-trip-planner/internal/types"
)

type HotelsHandler struct {
	hotelService HotelService
	logger       *slog.Logger
}

func NewHotelsHandler(hotelService HotelService, logger *slog.Logger) *HotelsHandler {
	return &HotelsHandler{
		hotelService: hotelService,
		logger:       logger,
	}
}

// SearchHotels handles POST /hotels/search. The service reports failures as
// data; this layer only picks the status code.
func (h *HotelsHandler) SearchHotels(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer("HotelsHandler").Start(r.Context(), "SearchHotels", trace.WithAttributes(
		semconv.HTTPRequestMethodKey.String(r.Method),
		semconv.HTTPRouteKey.String("/hotels/search"),
	))
	defer span.End()

	l := h.logger.With(slog.String("handler", "SearchHotels"))
	l.DebugContext(ctx, "Search hotels handler invoked")

	var req types.SearchHotelsRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		l.ErrorContext(ctx, "Failed to decode request body", slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if req.City == "" {
		api.ErrorResponse(w, r, http.StatusBadRequest, "city is required")
		return
	}

	resp := h.hotelService.SearchHotels(ctx, req)
	status := http.StatusOK
	if resp.Error != "" {
		status = http.StatusBadGateway
	}
	api.WriteJSONResponse(w, r, status, resp)
}
