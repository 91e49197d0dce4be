// Package nominatim implements domain.LocationResolver against the OSM
// Nominatim search API.
package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/weather-guardian/internal/domain"
	"github.com/couchcryptid/weather-guardian/internal/observability"
)

const userAgent = "weather-guardian/1.0"

// Client resolves free-text locations via Nominatim.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Nominatim client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		metrics:    metrics,
		logger:     logger,
	}
}

// Resolve geocodes a free-text location string. A location the provider
// cannot find, or a provider timeout, comes back as a *domain.UpstreamError
// whose message is safe to relay to the user; any other failure is an
// internal fault.
func (c *Client) Resolve(ctx context.Context, query string) (domain.ResolvedLocation, error) {
	start := time.Now()
	result, err := c.resolve(ctx, query)
	c.metrics.UpstreamDuration.WithLabelValues("geocoding").Observe(time.Since(start).Seconds())

	switch {
	case err == nil:
		c.metrics.GeocodeRequests.WithLabelValues("success").Inc()
	case isNotFound(err):
		c.metrics.GeocodeRequests.WithLabelValues("not_found").Inc()
	default:
		c.metrics.GeocodeRequests.WithLabelValues("error").Inc()
	}
	return result, err
}

func (c *Client) resolve(ctx context.Context, query string) (domain.ResolvedLocation, error) {
	params := url.Values{
		"q":      {biasQuery(query)},
		"format": {"json"},
		"limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return domain.ResolvedLocation{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			c.logger.Warn("geocoding request timed out", "query", query)
			return domain.ResolvedLocation{}, &domain.UpstreamError{
				Service: "geocoding",
				Message: "The location service timed out. Please try again in a moment.",
			}
		}
		return domain.ResolvedLocation{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.ResolvedLocation{}, fmt.Errorf("nominatim API error: status %d", resp.StatusCode)
	}

	var places []place
	if err := json.NewDecoder(resp.Body).Decode(&places); err != nil {
		return domain.ResolvedLocation{}, fmt.Errorf("decode response: %w", err)
	}

	if len(places) == 0 {
		return domain.ResolvedLocation{}, &domain.UpstreamError{
			Service: "geocoding",
			Message: fmt.Sprintf("I could not find the location %q. Please be more specific.", query),
		}
	}

	p := places[0]
	lat, latErr := strconv.ParseFloat(p.Lat, 64)
	lon, lonErr := strconv.ParseFloat(p.Lon, 64)
	if latErr != nil || lonErr != nil {
		return domain.ResolvedLocation{}, fmt.Errorf("parse coordinates %q,%q", p.Lat, p.Lon)
	}

	return domain.ResolvedLocation{
		Latitude:    lat,
		Longitude:   lon,
		FullAddress: p.DisplayName,
	}, nil
}

// biasQuery appends ", USA" to queries that do not already name the country.
// Bare US zip codes geocode poorly without it.
func biasQuery(query string) string {
	lower := strings.ToLower(query)
	if strings.Contains(lower, "usa") || strings.Contains(lower, "united states") {
		return query
	}
	return query + ", USA"
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ue *url.Error
	return errors.As(err, &ue) && ue.Timeout()
}

func isNotFound(err error) bool {
	ue, ok := domain.AsUpstream(err)
	return ok && strings.Contains(ue.Message, "could not find")
}

// Nominatim search API response item.
type place struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}
