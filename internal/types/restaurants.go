package types

import "github.com/google/uuid"

type RestaurantInfo struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	City    string    `json:"city"`
	Address string    `json:"address"`
	URL     string    `json:"url"`
	Rating  float64   `json:"rating"`
}

type RestaurantsResponse struct {
	Restaurants []RestaurantInfo `json:"restaurants"`
	Count       int              `json:"count"`
}

// AttractionsResponse lists formatted "title: snippet" entries for a city.
// Error carries provider failures as data, mirroring the hotel path.
type AttractionsResponse struct {
	Attractions []string `json:"attractions"`
	Count       int      `json:"count"`
	Error       string   `json:"error,omitempty"`
}
