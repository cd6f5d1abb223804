package flights

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/tripwiseai/go-trip-planner/app/observability/metrics"
	"github.com/tripwiseai/go-trip-planner/internal/types"
)

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingOrigin        ValidationError = "origin is required"
	ErrMissingDestination   ValidationError = "destination is required"
	ErrInvalidIATACode      ValidationError = "origin and destination must be 3-letter IATA codes"
	ErrInvalidDepartureDate ValidationError = "departure_date must be a future date in YYYY-MM-DD format"
	ErrInvalidReturnDate    ValidationError = "return_date must be a valid date after departure_date"
)

// FlightService defines the business logic contract for flight search.
type FlightService interface {
	SearchFlights(ctx context.Context, req types.SearchFlightsRequest) (*types.FlightSearchResult, error)
}

var _ FlightService = (*ServiceImpl)(nil)

type ServiceImpl struct {
	fetcher LegFetcher
	logger  *slog.Logger
	now     func() time.Time
}

func NewFlightService(fetcher LegFetcher, logger *slog.Logger) *ServiceImpl {
	return &ServiceImpl{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// SearchFlights fetches the outbound leg, and the return leg when a return
// date is requested, then normalizes the pair. The two legs have no data
// dependency on each other and are fetched concurrently.
func (s *ServiceImpl) SearchFlights(ctx context.Context, req types.SearchFlightsRequest) (*types.FlightSearchResult, error) {
	ctx, span := otel.Tracer("FlightService").Start(ctx, "SearchFlights", trace.WithAttributes(
		attribute.String("search.origin", req.Origin),
		attribute.String("search.destination", req.Destination),
		attribute.String("search.departure_date", req.DepartureDate),
	))
	defer span.End()

	start := time.Now()
	l := s.logger.With(slog.String("method", "SearchFlights"))

	if err := s.validate(&req); err != nil {
		l.WarnContext(ctx, "Rejected flight search request", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Validation failed")
		return nil, err
	}

	var outboundRaw, returnRaw *RawLegPayload

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		outboundRaw, err = s.fetcher.FetchLeg(gctx, LegQuery{
			Origin:      req.Origin,
			Destination: req.Destination,
			Date:        req.DepartureDate,
			Adults:      req.Adults,
			Children:    req.Children,
			TravelClass: req.TravelClass,
			MaxStops:    req.MaxStops,
			DeepSearch:  req.DeepSearch,
		})
		return err
	})
	if req.ReturnDate != nil {
		g.Go(func() error {
			var err error
			returnRaw, err = s.fetcher.FetchLeg(gctx, LegQuery{
				Origin:      req.Destination,
				Destination: req.Origin,
				Date:        *req.ReturnDate,
				Adults:      req.Adults,
				Children:    req.Children,
				TravelClass: req.TravelClass,
				MaxStops:    req.MaxStops,
				DeepSearch:  req.DeepSearch,
			})
			return err
		})
	}

	if err := g.Wait(); err != nil {
		var perr *ProviderError
		if errors.As(err, &perr) {
			if m := metrics.Get(); m != nil {
				m.ProviderErrorsTotal.Add(ctx, 1)
			}
		}
		l.ErrorContext(ctx, "Flight leg fetch failed", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Leg fetch failed")
		return nil, err
	}

	result := Normalize(outboundRaw, returnRaw)

	if m := metrics.Get(); m != nil {
		m.FlightSearchesTotal.Add(ctx, 1)
		m.FlightSearchDurationSeconds.Record(ctx, time.Since(start).Seconds())
	}

	l.InfoContext(ctx, "Flight search completed",
		slog.Int("outbound_offers", len(result.OutboundFlights)),
		slog.Int("return_offers", len(result.ReturnFlights)),
		slog.Duration("latency", time.Since(start)),
	)
	span.SetAttributes(
		attribute.Int("results.outbound", len(result.OutboundFlights)),
		attribute.Int("results.return", len(result.ReturnFlights)),
	)
	span.SetStatus(codes.Ok, "Flight search completed")
	return result, nil
}

// validate normalizes the request in place and rejects anything the provider
// would refuse anyway.
func (s *ServiceImpl) validate(req *types.SearchFlightsRequest) error {
	req.Origin = strings.ToUpper(strings.TrimSpace(req.Origin))
	req.Destination = strings.ToUpper(strings.TrimSpace(req.Destination))

	if req.Origin == "" {
		return ErrMissingOrigin
	}
	if req.Destination == "" {
		return ErrMissingDestination
	}
	if !isIATACode(req.Origin) || !isIATACode(req.Destination) {
		return ErrInvalidIATACode
	}

	dep, err := time.Parse("2006-01-02", req.DepartureDate)
	if err != nil {
		return ErrInvalidDepartureDate
	}
	today := s.now().UTC().Truncate(24 * time.Hour)
	if !dep.After(today) {
		return ErrInvalidDepartureDate
	}

	if req.ReturnDate != nil {
		ret, err := time.Parse("2006-01-02", *req.ReturnDate)
		if err != nil || ret.Before(dep) {
			return ErrInvalidReturnDate
		}
	}

	if req.Adults <= 0 {
		req.Adults = 1
	}
	if req.TravelClass <= 0 {
		req.TravelClass = 1 // economy
	}
	return nil
}

func isIATACode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
