package domain

import "context"

// ResolvedLocation is a successful geocoding result.
type ResolvedLocation struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	FullAddress string  `json:"full_address"`
}

// LocationResolver converts a free-text location into coordinates.
// Implementations decode their provider's error envelope into an
// *UpstreamError; a returned ResolvedLocation is always usable as-is.
type LocationResolver interface {
	Resolve(ctx context.Context, query string) (ResolvedLocation, error)
}

// ForecastRequest identifies the location and timezone to fetch a forecast
// for. Bounds are validated at the adapter boundary before any network call.
type ForecastRequest struct {
	Latitude  float64 `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" validate:"gte=-180,lte=180"`
	Timezone  string  `json:"timezone" validate:"required"`
}

// ForecastFetcher retrieves the daily forecast record for a location.
type ForecastFetcher interface {
	Fetch(ctx context.Context, req ForecastRequest) (ForecastRecord, error)
}
