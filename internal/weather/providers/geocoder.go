package providers

import (
	"context"
	"fmt"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/weather-dashboard/internal/weather"
)

// GoogleReverseGeocoder implements weather.PlaceNamer with the Google
// Geocoding API. It names coordinate-only lookups that went through the
// fallback provider, which has no reverse geocoding of its own.
type GoogleReverseGeocoder struct {
	reverse func(geocoder.Location) ([]geocoder.Address, error)
}

// NewGoogleReverseGeocoder sets the package-level key of the geocoder
// library; only one key per process is supported.
func NewGoogleReverseGeocoder(apiKey string) *GoogleReverseGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleReverseGeocoder{reverse: geocoder.GeocodingReverse}
}

func (g *GoogleReverseGeocoder) NameFor(ctx context.Context, c weather.Coordinates) (string, string, error) {
	if err := ctx.Err(); err != nil {
		return "", "", err
	}
	addresses, err := g.reverse(geocoder.Location{Latitude: c.Lat, Longitude: c.Lon})
	if err != nil {
		return "", "", fmt.Errorf("reverse geocoding: %w", err)
	}
	for _, a := range addresses {
		if a.City != "" {
			return a.City, a.Country, nil
		}
	}
	if len(addresses) > 0 {
		return addresses[0].FormattedAddress, addresses[0].Country, nil
	}
	return "", "", nil
}
