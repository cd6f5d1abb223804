package hotels

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripwiseai/go-trip-planner/app/observability/metrics"
	"github.com/tripwiseai/go-trip-planner/internal/types"
)

const (
	defaultTopK             = 100
	defaultAmenityThreshold = 0.7
)

// HotelService defines the business logic contract for hotel search. Errors
// are returned as data inside the response, never raised past this boundary.
type HotelService interface {
	SearchHotels(ctx context.Context, req types.SearchHotelsRequest) *types.SearchHotelsResponse
}

var _ HotelService = (*ServiceImpl)(nil)

type ServiceImpl struct {
	repo      Repository
	embedder  Embedder
	logger    *slog.Logger
	topK      int
	threshold float64
}

func NewHotelService(repo Repository, embedder Embedder, topK int, threshold float64, logger *slog.Logger) *ServiceImpl {
	if topK <= 0 {
		topK = defaultTopK
	}
	if threshold <= 0 {
		threshold = defaultAmenityThreshold
	}
	return &ServiceImpl{
		repo:      repo,
		embedder:  embedder,
		logger:    logger,
		topK:      topK,
		threshold: threshold,
	}
}

// SearchHotels embeds the request as one free-text query, over-fetches topK
// nearest candidates from the vector index, then applies the exact filter.
// Filtered output keeps the similarity ranking of the retrieval step.
func (s *ServiceImpl) SearchHotels(ctx context.Context, req types.SearchHotelsRequest) *types.SearchHotelsResponse {
	ctx, span := otel.Tracer("HotelService").Start(ctx, "SearchHotels", trace.WithAttributes(
		attribute.String("search.city", req.City),
		attribute.Float64("search.rating_floor", req.MinRating),
		attribute.Float64("search.price_ceiling", req.MaxPrice),
		attribute.Int("search.amenities", len(req.Amenities)),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "SearchHotels"), slog.String("city", req.City))

	req.City = strings.TrimSpace(req.City)
	if req.City == "" {
		return s.fail(ctx, span, l, fmt.Errorf("city is required"))
	}

	topK := req.TopK
	if topK <= 0 {
		topK = s.topK
	}

	queryText := buildRetrievalQuery(req)
	span.SetAttributes(attribute.String("retrieval.query", queryText))

	vector, err := s.embedder.GenerateEmbedding(ctx, queryText)
	if err != nil {
		return s.fail(ctx, span, l, fmt.Errorf("failed to embed hotel query: %w", err))
	}

	candidates, err := s.repo.FindSimilarHotels(ctx, vector, topK)
	if err != nil {
		return s.fail(ctx, span, l, err)
	}

	matcher, err := NewAmenityMatcher(ctx, s.embedder, req.Amenities, candidates, s.threshold)
	if err != nil {
		return s.fail(ctx, span, l, err)
	}

	hotels := FilterCandidates(candidates, FilterCriteria{
		City:      req.City,
		MinRating: req.MinRating,
		MaxPrice:  req.MaxPrice,
		Amenities: req.Amenities,
	}, matcher)

	if m := metrics.Get(); m != nil {
		m.HotelSearchesTotal.Add(ctx, 1)
	}

	l.InfoContext(ctx, "Hotel search completed",
		slog.Int("retrieved", len(candidates)),
		slog.Int("matched", len(hotels)),
	)
	span.SetAttributes(
		attribute.Int("results.retrieved", len(candidates)),
		attribute.Int("results.matched", len(hotels)),
	)
	span.SetStatus(codes.Ok, "Hotel search completed")

	return &types.SearchHotelsResponse{Hotels: hotels, Count: len(hotels)}
}

func (s *ServiceImpl) fail(ctx context.Context, span trace.Span, l *slog.Logger, err error) *types.SearchHotelsResponse {
	l.ErrorContext(ctx, "Hotel search failed", slog.Any("error", err))
	span.RecordError(err)
	span.SetStatus(codes.Error, "Hotel search failed")
	return &types.SearchHotelsResponse{Hotels: []types.HotelCandidate{}, Error: err.Error()}
}

// buildRetrievalQuery concatenates the structured request into free text.
// The retrieval step is a semantic nearest-neighbor search, not an exact
// filter; the hard constraints are enforced afterwards.
func buildRetrievalQuery(req types.SearchHotelsRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "hotels in %s", req.City)
	if req.MinRating > 0 {
		fmt.Fprintf(&b, " with rating >= %g", req.MinRating)
	}
	if req.MaxPrice > 0 {
		fmt.Fprintf(&b, " with nightly price under %g", req.MaxPrice)
	}
	if len(req.Amenities) > 0 {
		fmt.Fprintf(&b, " with amenities: %s", strings.Join(req.Amenities, ", "))
	}
	return b.String()
}
