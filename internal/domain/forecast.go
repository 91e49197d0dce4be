package domain

import "slices"

// ForecastRecord holds the daily aggregate sequences returned by the forecast
// provider for one location and time window. Field names mirror the
// provider's daily parameter set, so the record decodes directly from the
// response's "daily" block.
//
// All sequences are aligned by day index: index i across fields refers to the
// same calendar day. A nil or empty sequence means the provider did not
// report that field; hazard evaluation substitutes a sentinel in that case
// (see hazard.go) rather than assuming any value.
type ForecastRecord struct {
	WeatherCodes            []int     `json:"weather_code,omitempty"`
	TemperatureMaxC         []float64 `json:"temperature_2m_max,omitempty"`
	TemperatureMinC         []float64 `json:"temperature_2m_min,omitempty"`
	ApparentTempMaxC        []float64 `json:"apparent_temperature_max,omitempty"`
	ApparentTempMinC        []float64 `json:"apparent_temperature_min,omitempty"`
	UVIndexMax              []float64 `json:"uv_index_max,omitempty"`
	PrecipitationSumMm      []float64 `json:"precipitation_sum,omitempty"`
	PrecipProbabilityMaxPct []float64 `json:"precipitation_probability_max,omitempty"`
	WindSpeedMaxKmh         []float64 `json:"wind_speed_10m_max,omitempty"`
	WindGustMaxKmh          []float64 `json:"wind_gusts_10m_max,omitempty"`
}

// Clone returns a copy whose sequences share no backing arrays with f.
func (f ForecastRecord) Clone() ForecastRecord {
	return ForecastRecord{
		WeatherCodes:            slices.Clone(f.WeatherCodes),
		TemperatureMaxC:         slices.Clone(f.TemperatureMaxC),
		TemperatureMinC:         slices.Clone(f.TemperatureMinC),
		ApparentTempMaxC:        slices.Clone(f.ApparentTempMaxC),
		ApparentTempMinC:        slices.Clone(f.ApparentTempMinC),
		UVIndexMax:              slices.Clone(f.UVIndexMax),
		PrecipitationSumMm:      slices.Clone(f.PrecipitationSumMm),
		PrecipProbabilityMaxPct: slices.Clone(f.PrecipProbabilityMaxPct),
		WindSpeedMaxKmh:         slices.Clone(f.WindSpeedMaxKmh),
		WindGustMaxKmh:          slices.Clone(f.WindGustMaxKmh),
	}
}

// Empty reports whether the record carries no data at all.
func (f ForecastRecord) Empty() bool {
	return len(f.WeatherCodes) == 0 &&
		len(f.TemperatureMaxC) == 0 &&
		len(f.TemperatureMinC) == 0 &&
		len(f.ApparentTempMaxC) == 0 &&
		len(f.ApparentTempMinC) == 0 &&
		len(f.UVIndexMax) == 0 &&
		len(f.PrecipitationSumMm) == 0 &&
		len(f.PrecipProbabilityMaxPct) == 0 &&
		len(f.WindSpeedMaxKmh) == 0 &&
		len(f.WindGustMaxKmh) == 0
}
