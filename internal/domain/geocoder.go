package domain

import "context"

// Place is the reverse-geocoding result for a coordinate pair.
type Place struct {
	Address   string
	Name      string
	Relevance float64 // 0.0–1.0 provider confidence score
}

// Geocoder resolves site coordinates to place details.
type Geocoder interface {
	ReverseGeocode(ctx context.Context, lat, lon float64) (Place, error)
}
