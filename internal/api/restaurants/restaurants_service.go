package restaurants

import (
	"context"
	"log/slog"
	"strings"

	"github.com/patrickmn/go-cache"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/tripwiseai/go-trip-planner/app/observability/metrics"
	"github.com/tripwiseai/go-trip-planner/internal/types"
)

// RestaurantService defines the business logic contract for restaurant lookup.
type RestaurantService interface {
	GetRestaurantsByCity(ctx context.Context, city string) ([]types.RestaurantInfo, error)
}

var _ RestaurantService = (*ServiceImpl)(nil)

// ServiceImpl reads through an injected city-keyed cache. The cache and its
// TTL/eviction policy are owned by the caller wiring the service, not hidden
// process state; concurrent first-time requests for the same city may each
// populate the entry, last writer wins, and the value is idempotent per city.
type ServiceImpl struct {
	repo   Repository
	cache  *cache.Cache
	logger *slog.Logger
}

func NewRestaurantService(repo Repository, c *cache.Cache, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		repo:   repo,
		cache:  c,
		logger: logger,
	}
}

func (s *ServiceImpl) GetRestaurantsByCity(ctx context.Context, city string) ([]types.RestaurantInfo, error) {
	ctx, span := otel.Tracer("RestaurantService").Start(ctx, "GetRestaurantsByCity")
	defer span.End()

	l := s.logger.With(slog.String("method", "GetRestaurantsByCity"), slog.String("city", city))

	cacheKey := strings.ToLower(strings.TrimSpace(city))
	span.SetAttributes(attribute.String("cache.key", cacheKey))

	if cached, found := s.cache.Get(cacheKey); found {
		if restaurants, ok := cached.([]types.RestaurantInfo); ok {
			if m := metrics.Get(); m != nil {
				m.RestaurantCacheHitsTotal.Add(ctx, 1)
			}
			span.SetStatus(codes.Ok, "Served from cache")
			return restaurants, nil
		}
	}

	restaurants, err := s.repo.GetRestaurantsByCity(ctx, cacheKey)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Repository lookup failed")
		return nil, err
	}

	s.cache.Set(cacheKey, restaurants, cache.DefaultExpiration)
	l.DebugContext(ctx, "Restaurants cached", slog.Int("count", len(restaurants)))
	span.SetStatus(codes.Ok, "Served from repository")
	return restaurants, nil
}
