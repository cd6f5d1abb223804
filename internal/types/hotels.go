package types

import "github.com/google/uuid"

// HotelPrice keeps the provider's display strings as stored; parsing into
// numbers happens only at filter time so that unparseable values can exclude
// a single candidate instead of failing the whole search.
type HotelPrice struct {
	Nightly string `json:"nightly"`
	Total   string `json:"total,omitempty"`
}

// HotelCandidate is a hotel record returned by the vector retrieval step,
// prior to exact filtering. Rating is stored in the "X/5" display form.
type HotelCandidate struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	City         string     `json:"city"`
	Rating       string     `json:"rating"`
	Price        HotelPrice `json:"price"`
	KeyAmenities []string   `json:"key_amenities"`
	BookingLink  string     `json:"booking_link,omitempty"`
	Similarity   float64    `json:"similarity_score,omitempty"`
}

type SearchHotelsRequest struct {
	City      string   `json:"city"`
	MinRating float64  `json:"rating,omitempty"`
	MaxPrice  float64  `json:"max_price,omitempty"`
	Amenities []string `json:"amenities,omitempty"`
	TopK      int      `json:"top_k,omitempty"`
}

// SearchHotelsResponse carries failures as data: Error is set and Hotels is
// empty rather than an error crossing the service boundary.
type SearchHotelsResponse struct {
	Hotels []HotelCandidate `json:"hotels"`
	Count  int              `json:"count"`
	Error  string           `json:"error,omitempty"`
}
