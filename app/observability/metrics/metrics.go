package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	FlightSearchesTotal         metric.Int64Counter
	FlightSearchDurationSeconds metric.Float64Histogram
	HotelSearchesTotal          metric.Int64Counter
	ProviderErrorsTotal         metric.Int64Counter
	RestaurantCacheHitsTotal    metric.Int64Counter
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metric instruments ONLY ONCE. The
// global MeterProvider must be configured first.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("TripWiseAI")
		var err error
		m := &AppMetrics{}

		m.FlightSearchesTotal, err = meter.Int64Counter(
			"flight_searches_total",
			metric.WithDescription("Total number of flight searches completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create flight_searches_total: %v", err)
		}

		m.FlightSearchDurationSeconds, err = meter.Float64Histogram(
			"flight_search_duration_seconds",
			metric.WithDescription("Duration of flight searches in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create flight_search_duration_seconds: %v", err)
		}

		m.HotelSearchesTotal, err = meter.Int64Counter(
			"hotel_searches_total",
			metric.WithDescription("Total number of hotel searches completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create hotel_searches_total: %v", err)
		}

		m.ProviderErrorsTotal, err = meter.Int64Counter(
			"provider_errors_total",
			metric.WithDescription("Total number of upstream provider failures"),
			metric.WithUnit("{error}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create provider_errors_total: %v", err)
		}

		m.RestaurantCacheHitsTotal, err = meter.Int64Counter(
			"restaurant_cache_hits_total",
			metric.WithDescription("Restaurant lookups served from the city cache"),
			metric.WithUnit("{hit}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create restaurant_cache_hits_total: %v", err)
		}

		appMetrics = m
	})
}

// Get returns the process-wide instruments, or nil when InitAppMetrics has
// not run (tests). Callers must tolerate nil.
func Get() *AppMetrics {
	return appMetrics
}
