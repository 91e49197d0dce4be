// Package openmeteo implements domain.ForecastFetcher against the Open-Meteo
// forecast API.
package openmeteo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sony/gobreaker/v2"

	"github.com/couchcryptid/weather-guardian/internal/domain"
	"github.com/couchcryptid/weather-guardian/internal/observability"
)

// dailyParams is the daily aggregate set requested from the API. It matches
// the field set of domain.ForecastRecord one for one.
const dailyParams = "weather_code,temperature_2m_max,temperature_2m_min," +
	"apparent_temperature_max,apparent_temperature_min,uv_index_max," +
	"precipitation_sum,precipitation_probability_max," +
	"wind_speed_10m_max,wind_gusts_10m_max"

// Client fetches daily forecasts. Requests are validated before dialing and
// routed through a circuit breaker so a struggling upstream fails fast.
type Client struct {
	httpClient *http.Client
	baseURL    string
	validate   *validator.Validate
	breaker    *gobreaker.CircuitBreaker[domain.ForecastRecord]
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an Open-Meteo client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	breaker := gobreaker.NewCircuitBreaker[domain.ForecastRecord](gobreaker.Settings{
		Name:    "open-meteo",
		Timeout: 30 * time.Second,
		// Upstream error envelopes are answers, not outages; only transport
		// and decode failures count against the breaker.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			_, ok := domain.AsUpstream(err)
			return ok
		},
	})
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		validate:   validator.New(),
		breaker:    breaker,
		metrics:    metrics,
		logger:     logger,
	}
}

// Fetch retrieves the daily forecast for a validated request. Out-of-range
// coordinates are rejected locally with the same error-envelope shape the
// upstream would produce, without a network round trip.
func (c *Client) Fetch(ctx context.Context, req domain.ForecastRequest) (domain.ForecastRecord, error) {
	if err := c.validateRequest(req); err != nil {
		c.metrics.ForecastRequests.WithLabelValues("upstream_error").Inc()
		return domain.ForecastRecord{}, err
	}

	start := time.Now()
	record, err := c.breaker.Execute(func() (domain.ForecastRecord, error) {
		return c.fetch(ctx, req)
	})
	c.metrics.UpstreamDuration.WithLabelValues("forecast").Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.metrics.ForecastRequests.WithLabelValues("success").Inc()
	case isUpstream(err):
		c.metrics.ForecastRequests.WithLabelValues("upstream_error").Inc()
	default:
		c.metrics.ForecastRequests.WithLabelValues("error").Inc()
		if errors.Is(err, gobreaker.ErrOpenState) {
			c.logger.Warn("forecast circuit breaker open")
		}
	}
	return record, err
}

func (c *Client) fetch(ctx context.Context, req domain.ForecastRequest) (domain.ForecastRecord, error) {
	params := url.Values{
		"latitude":  {strconv.FormatFloat(req.Latitude, 'f', -1, 64)},
		"longitude": {strconv.FormatFloat(req.Longitude, 'f', -1, 64)},
		"timezone":  {req.Timezone},
		"daily":     {dailyParams},
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/forecast?"+params.Encode(), nil)
	if err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("forecast request: %w", err)
	}
	defer resp.Body.Close()

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.ForecastRecord{}, fmt.Errorf("decode response: %w", err)
	}

	// The API reports its own validation failures as {"error":true,"reason":...}
	// with a 4xx status. That reason is data to relay, not a fault.
	if body.Error {
		reason := body.Reason
		if reason == "" {
			reason = fmt.Sprintf("the weather service returned status %d", resp.StatusCode)
		}
		return domain.ForecastRecord{}, &domain.UpstreamError{Service: "forecast", Message: reason}
	}
	if resp.StatusCode != http.StatusOK {
		return domain.ForecastRecord{}, fmt.Errorf("open-meteo API error: status %d", resp.StatusCode)
	}

	return body.Daily, nil
}

// validateRequest checks coordinate bounds and the timezone before any
// network call, phrasing violations the way the upstream phrases its own.
func (c *Client) validateRequest(req domain.ForecastRequest) error {
	err := c.validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate request: %w", err)
	}

	var msg string
	switch verrs[0].Field() {
	case "Latitude":
		msg = "Latitude must be in range [-90; 90]"
	case "Longitude":
		msg = "Longitude must be in range [-180; 180]"
	default:
		msg = "Timezone is required"
	}
	return &domain.UpstreamError{Service: "forecast", Message: msg}
}

func isUpstream(err error) bool {
	_, ok := domain.AsUpstream(err)
	return ok
}

// Open-Meteo response envelope: either a daily block or an error+reason pair.
type response struct {
	Error  bool                  `json:"error"`
	Reason string                `json:"reason"`
	Daily  domain.ForecastRecord `json:"daily"`
}
