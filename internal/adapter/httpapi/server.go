// Package httpapi exposes the turn workflow over HTTP along with health,
// readiness, and metrics endpoints.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/weather-guardian/internal/domain"
)

// TurnService is the assistant surface the server needs: one method per
// conversation stage plus a readiness probe.
type TurnService interface {
	ResolveLocation(ctx context.Context, sessionID, query string) (domain.ResolvedLocation, error)
	FetchForecast(ctx context.Context, sessionID string, req domain.ForecastRequest) (domain.ForecastRecord, error)
	Respond(ctx context.Context, sessionID, candidate string) (string, error)
	CheckReadiness(ctx context.Context) error
}

// Server exposes the session API and operational endpoints.
type Server struct {
	httpServer *http.Server
	service    TurnService
	logger     *slog.Logger
}

// NewServer creates an HTTP server with the session routes and /healthz,
// /readyz, /metrics.
func NewServer(addr string, service TurnService, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service: service,
		logger:  logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("POST /v1/sessions/{id}/location", s.handleLocation)
	mux.HandleFunc("POST /v1/sessions/{id}/forecast", s.handleForecast)
	mux.HandleFunc("POST /v1/sessions/{id}/respond", s.handleRespond)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := s.service.CheckReadiness(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

type locationRequest struct {
	Query string `json:"query"`
}

type locationResponse struct {
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	FullAddress string  `json:"full_address"`
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}

	loc, err := s.service.ResolveLocation(r.Context(), r.PathValue("id"), req.Query)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, locationResponse{
		Latitude:    loc.Latitude,
		Longitude:   loc.Longitude,
		FullAddress: loc.FullAddress,
	})
}

type forecastRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	var req forecastRequest
	if !decodeBody(w, r, &req) {
		return
	}

	record, err := s.service.FetchForecast(r.Context(), r.PathValue("id"), domain.ForecastRequest{
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timezone:  req.Timezone,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type respondRequest struct {
	Candidate string `json:"candidate"`
}

type respondResponse struct {
	Response string `json:"response"`
}

func (s *Server) handleRespond(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if !decodeBody(w, r, &req) {
		return
	}

	final, err := s.service.Respond(r.Context(), r.PathValue("id"), req.Candidate)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, respondResponse{Response: final})
}

// writeServiceError maps upstream envelopes to 502 with the relayed message;
// everything else is an internal fault whose details stay in the logs.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if ue, ok := domain.AsUpstream(err); ok {
		writeError(w, http.StatusBadGateway, ue.Message)
		return
	}
	s.logger.Error("turn failed", "error", err, "path", r.URL.Path)
	writeError(w, http.StatusInternalServerError, "failed to interpret service response")
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
