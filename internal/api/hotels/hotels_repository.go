package hotels

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripwiseai/go-trip-planner/internal/types"
)

// Repository is the vector index lookup: nearest neighbors by cosine
// distance, metadata returned unfiltered. Exact filtering happens downstream
// because the index cannot enforce numeric or categorical constraints.
type Repository interface {
	FindSimilarHotels(ctx context.Context, queryEmbedding []float32, limit int) ([]types.HotelCandidate, error)
}

// Querier is the subset of pgxpool.Pool the repository needs.
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

// FindSimilarHotels returns the limit nearest candidates to the query
// embedding, most similar first.
func (r *RepositoryImpl) FindSimilarHotels(ctx context.Context, queryEmbedding []float32, limit int) ([]types.HotelCandidate, error) {
	ctx, span := otel.Tracer("HotelRepository").Start(ctx, "FindSimilarHotels", trace.WithAttributes(
		attribute.Int("embedding.dimension", len(queryEmbedding)),
		attribute.Int("limit", limit),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "FindSimilarHotels"))

	query := `
        SELECT
            id,
            name,
            city,
            rating,
            nightly_price,
            total_price,
            key_amenities,
            booking_link,
            1 - (embedding <=> $1::vector) AS similarity_score
        FROM hotels
        WHERE embedding IS NOT NULL
        ORDER BY embedding <=> $1::vector
        LIMIT $2
    `

	rows, err := r.db.Query(ctx, query, vectorLiteral(queryEmbedding), limit)
	if err != nil {
		l.ErrorContext(ctx, "Failed to query similar hotels", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Database query failed")
		return nil, fmt.Errorf("failed to search similar hotels: %w", err)
	}
	defer rows.Close()

	var candidates []types.HotelCandidate
	for rows.Next() {
		var c types.HotelCandidate
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.City,
			&c.Rating,
			&c.Price.Nightly,
			&c.Price.Total,
			&c.KeyAmenities,
			&c.BookingLink,
			&c.Similarity,
		)
		if err != nil {
			l.ErrorContext(ctx, "Failed to scan hotel row", slog.Any("error", err))
			span.RecordError(err)
			return nil, fmt.Errorf("failed to scan hotel row: %w", err)
		}
		candidates = append(candidates, c)
	}

	if err = rows.Err(); err != nil {
		l.ErrorContext(ctx, "Error iterating hotel rows", slog.Any("error", err))
		span.RecordError(err)
		return nil, fmt.Errorf("error iterating hotel rows: %w", err)
	}

	l.DebugContext(ctx, "Similar hotels found", slog.Int("count", len(candidates)))
	span.SetAttributes(attribute.Int("results.count", len(candidates)))
	span.SetStatus(codes.Ok, "Similar hotels found")
	return candidates, nil
}

// vectorLiteral converts []float32 to the pgvector text format.
func vectorLiteral(embedding []float32) string {
	strs := make([]string, len(embedding))
	for i, v := range embedding {
		strs[i] = fmt.Sprintf("%f", v)
	}
	return fmt.Sprintf("[%v]", strings.Join(strs, ","))
}
