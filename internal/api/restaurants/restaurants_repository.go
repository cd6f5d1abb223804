package restaurants

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripwiseai/go-trip-planner/internal/types"
)

type Repository interface {
	GetRestaurantsByCity(ctx context.Context, city string) ([]types.RestaurantInfo, error)
}

type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

var _ Repository = (*RepositoryImpl)(nil)

type RepositoryImpl struct {
	db     Querier
	logger *slog.Logger
}

func NewRepository(db Querier, logger *slog.Logger) *RepositoryImpl {
	return &RepositoryImpl{db: db, logger: logger}
}

func (r *RepositoryImpl) GetRestaurantsByCity(ctx context.Context, city string) ([]types.RestaurantInfo, error) {
	ctx, span := otel.Tracer("RestaurantRepository").Start(ctx, "GetRestaurantsByCity", trace.WithAttributes(
		attribute.String("city.name", city),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "GetRestaurantsByCity"), slog.String("city", city))

	query := `
        SELECT id, name, city, address, url, rating
        FROM restaurants
        WHERE lower(city) = lower($1)
        ORDER BY rating DESC, name
    `

	rows, err := r.db.Query(ctx, query, city)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query restaurants", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to query restaurants: %w", err)
	}
	defer rows.Close()

	var restaurants []types.RestaurantInfo
	for rows.Next() {
		var rest types.RestaurantInfo
		if err := rows.Scan(&rest.ID, &rest.Name, &rest.City, &rest.Address, &rest.URL, &rest.Rating); err != nil {
			l.ErrorContext(ctx, "Failed to scan restaurant row", slog.Any("error", err))
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan restaurant row: %w", err)
		}
		restaurants = append(restaurants, rest)
	}

	if err = rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating restaurant rows: %w", err)
	}

	span.SetAttributes(attribute.Int("results.count", len(restaurants)))
	span.SetStatus(codes.Ok, "Restaurants found")
	return restaurants, nil
}
