package types

import "encoding/json"

// NAValue is a sentinel used for fields the provider omitted or that could
// not be parsed.
const NAValue = "N/A"

// NAFloat is a numeric field that marshals as its value, or as the "N/A"
// sentinel when the provider did not supply a usable number.
type NAFloat struct {
	Value float64
	Valid bool
}

func Float(v float64) NAFloat {
	return NAFloat{Value: v, Valid: true}
}

func (f NAFloat) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return json.Marshal(NAValue)
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON treats anything that is not a number as the sentinel.
func (f *NAFloat) UnmarshalJSON(data []byte) error {
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		f.Valid = false
		return nil
	}
	f.Value = v
	f.Valid = true
	return nil
}

// NARange is a low/high price band that marshals as [low, high], or as
// "N/A" when the provider omitted it.
type NARange struct {
	Low   float64
	High  float64
	Valid bool
}

func (r NARange) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return json.Marshal(NAValue)
	}
	return json.Marshal([2]float64{r.Low, r.High})
}

func (r *NARange) UnmarshalJSON(data []byte) error {
	var v [2]float64
	if err := json.Unmarshal(data, &v); err != nil {
		r.Valid = false
		return nil
	}
	r.Low, r.High, r.Valid = v[0], v[1], true
	return nil
}

// AirportInfo describes one endpoint of the searched route. Every field
// falls back to "N/A" rather than being omitted.
type AirportInfo struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Country string `json:"country"`
}

type SearchInfo struct {
	Origin        AirportInfo `json:"origin"`
	Destination   AirportInfo `json:"destination"`
	DepartureDate string      `json:"departure_date"`
	ReturnDate    *string     `json:"return_date"`
}

type PriceInsights struct {
	LowestPrice  NAFloat `json:"lowest_price"`
	PriceLevel   string  `json:"price_level"`
	TypicalRange NARange `json:"typical_range"`
}

// FlightLayover is one intermediate stop inside an offer, in itinerary order.
type FlightLayover struct {
	Airport   string `json:"airport"`
	Duration  string `json:"duration"`
	Overnight bool   `json:"overnight"`
}

// FlightSegment is one flown leg inside an offer, in flight order.
type FlightSegment struct {
	Airline       string `json:"airline"`
	FlightNumber  string `json:"flight_number"`
	Departure     string `json:"departure"`
	Arrival       string `json:"arrival"`
	DepartureTime string `json:"time_dep"`
	ArrivalTime   string `json:"time_arr"`
	Duration      string `json:"duration"`
	Aircraft      string `json:"aircraft"`
}

// FlightOffer is a provider-agnostic priced itinerary option for one leg.
// Stops is always len(Layovers); it is derived, never taken from the provider.
type FlightOffer struct {
	Price           NAFloat         `json:"price"`
	DurationMinutes int             `json:"duration_minutes"`
	Duration        string          `json:"duration"`
	Stops           int             `json:"stops"`
	Airlines        string          `json:"airlines"`
	Layovers        []FlightLayover `json:"layovers"`
	Segments        []FlightSegment `json:"segments"`
}

// FlightSearchResult is built fresh per request from the raw leg payloads
// and is immutable after construction. ReturnFlights is empty for one-way
// searches.
type FlightSearchResult struct {
	SearchInfo      SearchInfo    `json:"search_info"`
	PriceInsights   PriceInsights `json:"price_insights"`
	OutboundFlights []FlightOffer `json:"outbound_flights"`
	ReturnFlights   []FlightOffer `json:"return_flights"`
}

// SearchFlightsRequest is the JSON body accepted by the flight search endpoint.
type SearchFlightsRequest struct {
	Origin        string  `json:"origin"`
	Destination   string  `json:"destination"`
	DepartureDate string  `json:"departure_date"`
	ReturnDate    *string `json:"return_date,omitempty"`
	Adults        int     `json:"adults,omitempty"`
	Children      int     `json:"children,omitempty"`
	TravelClass   int     `json:"travel_class,omitempty"`
	MaxStops      int     `json:"max_stops,omitempty"`
	DeepSearch    bool    `json:"deep_search,omitempty"`
}
