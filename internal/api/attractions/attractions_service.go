package attractions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tripwiseai/go-trip-planner/internal/types"
)

const maxResults = 5

// AttractionService returns formatted "title: snippet" entries for the top
// places in a city. Provider failures come back as data, like the hotel path.
type AttractionService interface {
	GetAttractions(ctx context.Context, city string) *types.AttractionsResponse
}

var _ AttractionService = (*ServiceImpl)(nil)

type ServiceImpl struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewAttractionService(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

type searchResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

func (s *ServiceImpl) GetAttractions(ctx context.Context, city string) *types.AttractionsResponse {
	ctx, span := otel.Tracer("AttractionService").Start(ctx, "GetAttractions", trace.WithAttributes(
		attribute.String("city.name", city),
	))
	defer span.End()

	l := s.logger.With(slog.String("method", "GetAttractions"), slog.String("city", city))

	params := url.Values{}
	params.Set("q", fmt.Sprintf("Top places to visit in %s", city))
	params.Set("location", city)
	params.Set("api_key", s.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return s.fail(ctx, span, l, fmt.Errorf("failed to build search request: %w", err))
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return s.fail(ctx, span, l, fmt.Errorf("search request failed: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return s.fail(ctx, span, l, fmt.Errorf("failed to read search response: %w", err))
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return s.fail(ctx, span, l, fmt.Errorf("search provider returned status %d", resp.StatusCode))
	}

	var payload searchResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return s.fail(ctx, span, l, fmt.Errorf("failed to decode search response: %w", err))
	}
	if payload.Error != "" {
		return s.fail(ctx, span, l, fmt.Errorf("search provider error: %s", payload.Error))
	}

	attractions := make([]string, 0, maxResults)
	for _, r := range payload.OrganicResults {
		if len(attractions) == maxResults {
			break
		}
		attractions = append(attractions, fmt.Sprintf("%s: %s", r.Title, r.Snippet))
	}

	span.SetAttributes(attribute.Int("results.count", len(attractions)))
	span.SetStatus(codes.Ok, "Attractions found")
	return &types.AttractionsResponse{Attractions: attractions, Count: len(attractions)}
}

func (s *ServiceImpl) fail(ctx context.Context, span trace.Span, l *slog.Logger, err error) *types.AttractionsResponse {
	l.ErrorContext(ctx, "Attraction search failed", slog.Any("error", err))
	span.RecordError(err)
	span.SetStatus(codes.Error, "Attraction search failed")
	return &types.AttractionsResponse{Attractions: []string{}, Error: err.Error()}
}
