package flights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripwiseai/go-trip-planner/internal/types"
)

func fptr(v float64) *float64 { return &v }
func iptr(v int) *int         { return &v }
func sptr(v string) *string   { return &v }

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		name    string
		minutes *int
		want    string
	}{
		{"hours and minutes", iptr(90), "1h 30m"},
		{"whole hours", iptr(120), "2h"},
		{"under an hour", iptr(45), "45m"},
		{"single minute", iptr(1), "1m"},
		{"zero", iptr(0), "N/A"},
		{"negative", iptr(-15), "N/A"},
		{"missing", nil, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatDuration(tt.minutes))
		})
	}
}

func TestJoinAirlines(t *testing.T) {
	tests := []struct {
		name     string
		segments []RawSegment
		want     string
	}{
		{
			name: "distinct airlines sorted",
			segments: []RawSegment{
				{Airline: "United"},
				{Airline: "Delta"},
			},
			want: "Delta, United",
		},
		{
			name: "duplicates collapsed",
			segments: []RawSegment{
				{Airline: "Delta"},
				{Airline: "Delta"},
				{Airline: "Alaska"},
			},
			want: "Alaska, Delta",
		},
		{
			name: "empty names skipped",
			segments: []RawSegment{
				{Airline: ""},
				{Airline: "JetBlue"},
			},
			want: "JetBlue",
		},
		{
			name:     "no segments",
			segments: nil,
			want:     "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, joinAirlines(tt.segments))
		})
	}
}

func TestCollectOffersSortsByPriceWithMissingLast(t *testing.T) {
	payload := &RawLegPayload{
		BestFlights: []RawOffer{
			{Price: fptr(450)},
			{Price: nil}, // no price at all
		},
		OtherFlights: []RawOffer{
			{Price: fptr(199.99)},
			{Price: fptr(320)},
		},
	}

	offers := collectOffers(payload)
	require.Len(t, offers, 4)

	assert.Equal(t, 199.99, offers[0].Price.Value)
	assert.Equal(t, 320.0, offers[1].Price.Value)
	assert.Equal(t, 450.0, offers[2].Price.Value)
	assert.False(t, offers[3].Price.Valid, "unpriced offer must sort last")
}

func TestOfferFromRawStopCountTracksLayovers(t *testing.T) {
	tests := []struct {
		name     string
		layovers []RawLayover
		want     int
	}{
		{"nonstop", nil, 0},
		{"one stop", []RawLayover{{ID: "ORD", Duration: iptr(75)}}, 1},
		{"two stops", []RawLayover{{ID: "ORD"}, {ID: "DEN"}}, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offer := offerFromRaw(RawOffer{Layovers: tt.layovers})
			assert.Equal(t, tt.want, offer.Stops)
			assert.Len(t, offer.Layovers, tt.want)
		})
	}
}

func TestOfferFromRawSentinels(t *testing.T) {
	offer := offerFromRaw(RawOffer{
		Price:         nil,
		TotalDuration: nil,
		Layovers:      []RawLayover{{ID: "", Duration: nil}},
		Flights: []RawSegment{
			{Airline: "", Airplane: ""},
		},
	})

	assert.False(t, offer.Price.Valid)
	assert.Equal(t, "N/A", offer.Duration)
	assert.Equal(t, "N/A", offer.Layovers[0].Airport)
	assert.Equal(t, "N/A", offer.Layovers[0].Duration)
	assert.Equal(t, "N/A", offer.Segments[0].Airline)
	assert.Equal(t, "N/A", offer.Segments[0].Aircraft)
}

func TestNormalizeRoundTrip(t *testing.T) {
	outbound := &RawLegPayload{
		SearchParameters: &RawSearchParameters{
			DepartureID:  "BOS",
			ArrivalID:    "LAX",
			OutboundDate: "2026-10-01",
			ReturnDate:   "2026-10-08",
		},
		Airports: []RawAirportGroup{{
			Departure: []RawAirportEntry{{
				Airport: RawAirport{ID: "BOS", Name: "Logan International Airport"},
				City:    "Boston",
				Country: "United States",
			}},
			Arrival: []RawAirportEntry{{
				Airport: RawAirport{ID: "LAX", Name: "Los Angeles International Airport"},
				City:    "Los Angeles",
				Country: "United States",
			}},
		}},
		PriceInsights: &RawPriceInsights{
			LowestPrice:       fptr(178),
			PriceLevel:        "low",
			TypicalPriceRange: []float64{200, 350},
		},
		BestFlights: []RawOffer{{
			Price:         fptr(178),
			TotalDuration: iptr(395),
			Flights: []RawSegment{{
				Airline:      "JetBlue",
				FlightNumber: "B6 487",
				DepartureAirport: RawEndpoint{
					ID: "BOS", Name: "Logan International Airport", Time: "2026-10-01 07:30",
				},
				ArrivalAirport: RawEndpoint{
					ID: "LAX", Name: "Los Angeles International Airport", Time: "2026-10-01 11:05",
				},
				Duration: iptr(395),
				Airplane: "Airbus A321",
			}},
		}},
	}
	ret := &RawLegPayload{
		SearchParameters: &RawSearchParameters{
			DepartureID:  "LAX",
			ArrivalID:    "BOS",
			OutboundDate: "2026-10-08",
		},
		BestFlights: []RawOffer{{
			Price:         fptr(210),
			TotalDuration: iptr(330),
			Flights:       []RawSegment{{Airline: "Delta"}},
		}},
	}

	result := Normalize(outbound, ret)

	assert.Equal(t, "BOS", result.SearchInfo.Origin.Code)
	assert.Equal(t, "Boston", result.SearchInfo.Origin.City)
	assert.Equal(t, "LAX", result.SearchInfo.Destination.Code)
	assert.Equal(t, "Los Angeles", result.SearchInfo.Destination.City)
	assert.Equal(t, "2026-10-01", result.SearchInfo.DepartureDate)
	require.NotNil(t, result.SearchInfo.ReturnDate)
	assert.Equal(t, "2026-10-08", *result.SearchInfo.ReturnDate)

	assert.Equal(t, 178.0, result.PriceInsights.LowestPrice.Value)
	assert.Equal(t, "low", result.PriceInsights.PriceLevel)
	assert.True(t, result.PriceInsights.TypicalRange.Valid)

	require.Len(t, result.OutboundFlights, 1)
	out := result.OutboundFlights[0]
	assert.Equal(t, "6h 35m", out.Duration)
	assert.Equal(t, 0, out.Stops)
	assert.Equal(t, "JetBlue", out.Airlines)

	require.Len(t, result.ReturnFlights, 1)
	assert.Equal(t, "Delta", result.ReturnFlights[0].Airlines)
}

func TestNormalizeOneWay(t *testing.T) {
	outbound := &RawLegPayload{
		SearchParameters: &RawSearchParameters{OutboundDate: "2026-11-15"},
		BestFlights:      []RawOffer{{Price: fptr(99)}},
	}

	result := Normalize(outbound, nil)

	assert.Nil(t, result.SearchInfo.ReturnDate)
	assert.NotNil(t, result.ReturnFlights)
	assert.Empty(t, result.ReturnFlights)
	assert.Len(t, result.OutboundFlights, 1)
}

func TestNormalizeReturnDateFallsBackToReturnLeg(t *testing.T) {
	// Provider did not echo return_date on the outbound payload; the return
	// leg's own outbound date is the next best source.
	outbound := &RawLegPayload{
		SearchParameters: &RawSearchParameters{OutboundDate: "2026-10-01"},
	}
	ret := &RawLegPayload{
		SearchParameters: &RawSearchParameters{OutboundDate: "2026-10-08"},
	}

	result := Normalize(outbound, ret)

	require.NotNil(t, result.SearchInfo.ReturnDate)
	assert.Equal(t, "2026-10-08", *result.SearchInfo.ReturnDate)
}

func TestNormalizeMissingMetadata(t *testing.T) {
	result := Normalize(&RawLegPayload{}, nil)

	assert.Equal(t, "N/A", result.SearchInfo.Origin.Code)
	assert.Equal(t, "N/A", result.SearchInfo.Destination.Name)
	assert.Equal(t, "N/A", result.SearchInfo.DepartureDate)
	assert.Nil(t, result.SearchInfo.ReturnDate)
	assert.False(t, result.PriceInsights.LowestPrice.Valid)
	assert.Equal(t, "N/A", result.PriceInsights.PriceLevel)
	assert.False(t, result.PriceInsights.TypicalRange.Valid)
	assert.Empty(t, result.OutboundFlights)
}

func TestNAFloatJSON(t *testing.T) {
	valid := types.Float(123.45)
	b, err := valid.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "123.45", string(b))

	var missing types.NAFloat
	b, err = missing.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"N/A"`, string(b))
}
