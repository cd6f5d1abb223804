package flights

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

// RawLegPayload is the provider response for a single one-way search, decoded
// at the ingestion boundary into an optional-field schema. Downstream
// normalization never touches untyped maps.
type RawLegPayload struct {
	SearchParameters *RawSearchParameters `json:"search_parameters"`
	Airports         []RawAirportGroup    `json:"airports"`
	PriceInsights    *RawPriceInsights    `json:"price_insights"`
	BestFlights      []RawOffer           `json:"best_flights"`
	OtherFlights     []RawOffer           `json:"other_flights"`
	Error            string               `json:"error"`
}

type RawSearchParameters struct {
	DepartureID  string `json:"departure_id"`
	ArrivalID    string `json:"arrival_id"`
	OutboundDate string `json:"outbound_date"`
	ReturnDate   string `json:"return_date"`
}

type RawAirportGroup struct {
	Departure []RawAirportEntry `json:"departure"`
	Arrival   []RawAirportEntry `json:"arrival"`
}

type RawAirportEntry struct {
	Airport RawAirport `json:"airport"`
	City    string     `json:"city"`
	Country string     `json:"country"`
}

type RawAirport struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type RawPriceInsights struct {
	LowestPrice       *float64  `json:"lowest_price"`
	PriceLevel        string    `json:"price_level"`
	TypicalPriceRange []float64 `json:"typical_price_range"`
}

// RawOffer is one priced itinerary option for a leg. Price is a pointer so a
// missing price survives decoding and can sort last during normalization.
type RawOffer struct {
	Price         *float64     `json:"price"`
	TotalDuration *int         `json:"total_duration"`
	Layovers      []RawLayover `json:"layovers"`
	Flights       []RawSegment `json:"flights"`
}

type RawLayover struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Duration  *int   `json:"duration"`
	Overnight bool   `json:"overnight"`
}

type RawSegment struct {
	Airline          string      `json:"airline"`
	FlightNumber     string      `json:"flight_number"`
	DepartureAirport RawEndpoint `json:"departure_airport"`
	ArrivalAirport   RawEndpoint `json:"arrival_airport"`
	Duration         *int        `json:"duration"`
	Airplane         string      `json:"airplane"`
}

type RawEndpoint struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Time string `json:"time"`
}

// ProviderError is raised for upstream non-2xx responses and for error fields
// embedded in an otherwise valid payload. Callers must not retry
// automatically; retry policy belongs to the caller of the search operation.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

// LegQuery describes one directional search. Origin and Destination are
// 3-letter IATA codes, already uppercased by the caller; Date is an ISO 8601
// calendar date.
type LegQuery struct {
	Origin      string
	Destination string
	Date        string
	Adults      int
	Children    int
	TravelClass int
	MaxStops    int
	DeepSearch  bool
}

// LegFetcher issues one external search per direction.
type LegFetcher interface {
	FetchLeg(ctx context.Context, q LegQuery) (*RawLegPayload, error)
}

const providerName = "google_flights"

// SerpClient fetches raw one-way payloads from the SerpAPI Google Flights
// engine. A shared rate limiter throttles all legs issued by this process.
type SerpClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ LegFetcher = (*SerpClient)(nil)

func NewSerpClient(baseURL, apiKey string, timeout time.Duration, rps float64, burst int, logger *slog.Logger) *SerpClient {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 1
	}
	return &SerpClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), burst),
		logger:     logger,
	}
}

// FetchLeg performs exactly one network call. Round-trip searches call it
// twice with origin and destination swapped; the calls are independent.
func (c *SerpClient) FetchLeg(ctx context.Context, q LegQuery) (*RawLegPayload, error) {
	ctx, span := otel.Tracer("FlightProvider").Start(ctx, "FetchLeg", trace.WithAttributes(
		attribute.String("leg.origin", q.Origin),
		attribute.String("leg.destination", q.Destination),
		attribute.String("leg.date", q.Date),
	))
	defer span.End()

	l := c.logger.With(
		slog.String("provider", providerName),
		slog.String("origin", q.Origin),
		slog.String("destination", q.Destination),
		slog.String("date", q.Date),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Rate limiter wait cancelled")
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("engine", providerName)
	params.Set("departure_id", q.Origin)
	params.Set("arrival_id", q.Destination)
	params.Set("outbound_date", q.Date)
	params.Set("type", "2") // one-way; round trips are stitched from two legs
	params.Set("deep_search", strconv.FormatBool(q.DeepSearch))
	params.Set("travel_class", strconv.Itoa(q.TravelClass))
	params.Set("adults", strconv.Itoa(q.Adults))
	params.Set("children", strconv.Itoa(q.Children))
	params.Set("stops", strconv.Itoa(q.MaxStops))
	params.Set("sort_by", "1")
	params.Set("hl", "en")
	params.Set("gl", "us")
	params.Set("api_key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to build provider request: %w", err)
	}

	l.DebugContext(ctx, "Fetching flight leg")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Provider request failed")
		return nil, &ProviderError{Provider: providerName, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to read provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		perr := &ProviderError{Provider: providerName, StatusCode: resp.StatusCode, Message: providerMessage(body)}
		l.ErrorContext(ctx, "Provider returned non-success status",
			slog.Int("status", resp.StatusCode), slog.String("message", perr.Message))
		span.RecordError(perr)
		span.SetStatus(codes.Error, "Provider returned non-success status")
		return nil, perr
	}

	var payload RawLegPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to decode provider payload")
		return nil, fmt.Errorf("failed to decode provider payload: %w", err)
	}

	if payload.Error != "" {
		perr := &ProviderError{Provider: providerName, Message: payload.Error}
		l.ErrorContext(ctx, "Provider embedded an error in the payload", slog.String("message", payload.Error))
		span.RecordError(perr)
		span.SetStatus(codes.Error, "Provider embedded error")
		return nil, perr
	}

	span.SetAttributes(
		attribute.Int("offers.best", len(payload.BestFlights)),
		attribute.Int("offers.other", len(payload.OtherFlights)),
	)
	span.SetStatus(codes.Ok, "Leg fetched")
	return &payload, nil
}

// providerMessage pulls the error string out of an error body, falling back
// to the raw body text.
func providerMessage(body []byte) string {
	var wrapper struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &wrapper); err == nil && wrapper.Error != "" {
		return wrapper.Error
	}
	if len(body) > 256 {
		body = body[:256]
	}
	return string(body)
}
