package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/tripwiseai/go-trip-planner/internal/api/attractions"
	"github.com/tripwiseai/go-trip-planner/internal/api/flights"
	"github.com/tripwiseai/go-trip-planner/internal/api/hotels"
	"github.com/tripwiseai/go-trip-planner/internal/api/restaurants"
)

// Config contains dependencies needed for the router setup.
type Config struct {
	FlightsHandler     *flights.FlightsHandler
	HotelsHandler      *hotels.HotelsHandler
	RestaurantsHandler *restaurants.RestaurantsHandler
	AttractionsHandler *attractions.AttractionsHandler
}

// SetupRouter initializes and configures the main application router.
// Server-wide middleware (logger, requestID, recoverer) are applied before
// this router is mounted in main.go.
func SetupRouter(cfg *Config) chi.Router {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000", "http://localhost:8501"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("pong"))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/flights/search", cfg.FlightsHandler.SearchFlights)
		r.Post("/hotels/search", cfg.HotelsHandler.SearchHotels)
		r.Get("/restaurants", cfg.RestaurantsHandler.GetRestaurants)
		r.Get("/attractions", cfg.AttractionsHandler.GetAttractions)
	})

	return r
}
