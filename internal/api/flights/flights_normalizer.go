package flights

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tripwiseai/go-trip-planner/internal/types"
)

// Normalize stitches one or two raw one-way payloads into a provider-agnostic
// search result. The outbound payload must be present; ret is nil for one-way
// searches. Malformed or missing nested fields degrade to "N/A" sentinels
// field by field, never into a failed normalization.
func Normalize(outbound *RawLegPayload, ret *RawLegPayload) *types.FlightSearchResult {
	result := &types.FlightSearchResult{
		SearchInfo: types.SearchInfo{
			Origin:        routeEndpoint(outbound.Airports, false),
			Destination:   routeEndpoint(outbound.Airports, true),
			DepartureDate: departureDate(outbound),
			ReturnDate:    resolveReturnDate(outbound, ret),
		},
		PriceInsights:   priceInsights(outbound.PriceInsights),
		OutboundFlights: collectOffers(outbound),
		ReturnFlights:   []types.FlightOffer{},
	}
	if ret != nil {
		result.ReturnFlights = collectOffers(ret)
	}
	return result
}

// collectOffers concatenates the provider's "best" and "other" lists into one
// working set, sorts ascending by price with missing prices last, and maps
// each raw offer. Exact duplicates across the two lists are preserved; the
// provider is the source of truth for availability, not identity.
func collectOffers(p *RawLegPayload) []types.FlightOffer {
	raw := make([]RawOffer, 0, len(p.BestFlights)+len(p.OtherFlights))
	raw = append(raw, p.BestFlights...)
	raw = append(raw, p.OtherFlights...)

	sort.SliceStable(raw, func(i, j int) bool {
		return sortPrice(raw[i]) < sortPrice(raw[j])
	})

	offers := make([]types.FlightOffer, len(raw))
	for i, o := range raw {
		offers[i] = offerFromRaw(o)
	}
	return offers
}

func sortPrice(o RawOffer) float64 {
	if o.Price == nil {
		return math.Inf(1)
	}
	return *o.Price
}

func offerFromRaw(o RawOffer) types.FlightOffer {
	offer := types.FlightOffer{
		Duration: FormatDuration(o.TotalDuration),
		Stops:    len(o.Layovers),
		Airlines: joinAirlines(o.Flights),
		Layovers: make([]types.FlightLayover, 0, len(o.Layovers)),
		Segments: make([]types.FlightSegment, 0, len(o.Flights)),
	}
	if o.Price != nil {
		offer.Price = types.Float(*o.Price)
	}
	if o.TotalDuration != nil && *o.TotalDuration > 0 {
		offer.DurationMinutes = *o.TotalDuration
	}

	for _, lv := range o.Layovers {
		airport := lv.ID
		if airport == "" {
			airport = types.NAValue
		}
		offer.Layovers = append(offer.Layovers, types.FlightLayover{
			Airport:   airport,
			Duration:  FormatDuration(lv.Duration),
			Overnight: lv.Overnight,
		})
	}

	for _, seg := range o.Flights {
		offer.Segments = append(offer.Segments, types.FlightSegment{
			Airline:       orNA(seg.Airline),
			FlightNumber:  seg.FlightNumber,
			Departure:     seg.DepartureAirport.ID,
			Arrival:       seg.ArrivalAirport.ID,
			DepartureTime: seg.DepartureAirport.Time,
			ArrivalTime:   seg.ArrivalAirport.Time,
			Duration:      FormatDuration(seg.Duration),
			Aircraft:      orNA(seg.Airplane),
		})
	}

	return offer
}

// joinAirlines joins the distinct per-segment airline names. The set is
// sorted lexicographically before joining so the display string is stable
// across runs.
func joinAirlines(segments []RawSegment) string {
	seen := make(map[string]struct{}, len(segments))
	names := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Airline == "" {
			continue
		}
		if _, ok := seen[seg.Airline]; ok {
			continue
		}
		seen[seg.Airline] = struct{}{}
		names = append(names, seg.Airline)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// FormatDuration renders minutes as a compact display string: "1h 30m",
// "1h", "45m". Missing, zero, or negative input yields "N/A".
func FormatDuration(minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return types.NAValue
	}
	hrs := *minutes / 60
	mins := *minutes % 60
	switch {
	case hrs > 0 && mins > 0:
		return fmt.Sprintf("%dh %dm", hrs, mins)
	case hrs > 0:
		return fmt.Sprintf("%dh", hrs)
	default:
		return fmt.Sprintf("%dm", mins)
	}
}

// routeEndpoint pulls origin or destination display metadata from the
// payload's airport list. Anything missing yields "N/A" for every subfield.
func routeEndpoint(groups []RawAirportGroup, arrival bool) types.AirportInfo {
	na := types.AirportInfo{Code: types.NAValue, Name: types.NAValue, City: types.NAValue, Country: types.NAValue}
	if len(groups) == 0 {
		return na
	}
	entries := groups[0].Departure
	if arrival {
		entries = groups[0].Arrival
	}
	if len(entries) == 0 {
		return na
	}
	ap := entries[0]
	return types.AirportInfo{
		Code:    orNA(ap.Airport.ID),
		Name:    orNA(ap.Airport.Name),
		City:    ap.City,
		Country: ap.Country,
	}
}

func priceInsights(pi *RawPriceInsights) types.PriceInsights {
	out := types.PriceInsights{PriceLevel: types.NAValue}
	if pi == nil {
		return out
	}
	if pi.LowestPrice != nil {
		out.LowestPrice = types.Float(*pi.LowestPrice)
	}
	if pi.PriceLevel != "" {
		out.PriceLevel = pi.PriceLevel
	}
	if len(pi.TypicalPriceRange) == 2 {
		out.TypicalRange = types.NARange{Low: pi.TypicalPriceRange[0], High: pi.TypicalPriceRange[1], Valid: true}
	}
	return out
}

func departureDate(outbound *RawLegPayload) string {
	if outbound.SearchParameters != nil && outbound.SearchParameters.OutboundDate != "" {
		return outbound.SearchParameters.OutboundDate
	}
	return types.NAValue
}

// resolveReturnDate prefers the outbound leg's echoed return date, then the
// return leg's own outbound date. Providers that do not echo the paired date
// are tolerated this way.
func resolveReturnDate(outbound *RawLegPayload, ret *RawLegPayload) *string {
	if outbound.SearchParameters != nil && outbound.SearchParameters.ReturnDate != "" {
		d := outbound.SearchParameters.ReturnDate
		return &d
	}
	if ret != nil && ret.SearchParameters != nil && ret.SearchParameters.OutboundDate != "" {
		d := ret.SearchParameters.OutboundDate
		return &d
	}
	return nil
}

func orNA(s string) string {
	if s == "" {
		return types.NAValue
	}
	return s
}
