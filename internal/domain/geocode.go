package domain

import (
	"context"
	"log/slog"
)

// EnrichSites fills in the address of every site that has coordinates and no
// address yet. Geocoding failures are logged and leave the site unchanged; a
// nil geocoder returns the sites as-is. The input slice is not modified.
func EnrichSites(ctx context.Context, sites []Site, geocoder Geocoder, logger *slog.Logger) []Site {
	out := append([]Site(nil), sites...)
	if geocoder == nil {
		return out
	}

	for i := range out {
		s := &out[i]
		if s.Address != "" || (s.Latitude == 0 && s.Longitude == 0) {
			continue
		}
		place, err := geocoder.ReverseGeocode(ctx, s.Latitude, s.Longitude)
		if err != nil {
			logger.Warn("reverse geocoding failed",
				"site", s.Name,
				"lat", s.Latitude,
				"lon", s.Longitude,
				"error", err,
			)
			continue
		}
		s.Address = place.Address
	}
	return out
}
