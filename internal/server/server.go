// Package server exposes the nearby lookup over HTTP with chi.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/mbtanearby/backend-go/internal/api"
	"github.com/mbtanearby/backend-go/internal/config"
	"github.com/mbtanearby/backend-go/internal/handler"
	"github.com/mbtanearby/backend-go/internal/nearby"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const (
	ServiceName = "mbta-nearby"

	// requestTimeout bounds a whole lookup: geocoding followed by the stop,
	// arrival and weather calls, each limited by the HTTP client timeout.
	requestTimeout = 60 * time.Second
)

type Server struct {
	router chi.Router
	finder nearby.Finder
}

func New(cfg *config.Config, finder nearby.Finder) *Server {
	s := &Server{
		router: chi.NewRouter(),
		finder: finder,
	}

	s.router.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger,
		middleware.Recoverer,
		middleware.Timeout(requestTimeout),
	)

	s.router.Get("/", s.handleInfo)
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Group(func(r chi.Router) {
		if cfg.RequestsPerSecond > 0 {
			r.Use(newRateLimiter(cfg.RequestsPerSecond, cfg.RequestBurst).handler)
		}
		r.Get("/nearest_mbta", s.handleNearest)
		r.Post("/nearest_mbta", s.handleNearest)
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) handleInfo(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, api.NewInfoResponse(ServiceName, []string{
		"GET /nearest_mbta?" + handler.PlaceNameParam + "=...",
		"POST /nearest_mbta",
		"GET /health",
		"GET /metrics",
	}))
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleNearest(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, api.NewErrorResponse("Invalid request body"))
		return
	}

	placeName, err := api.ValidatePlaceName(r.Form.Get(handler.PlaceNameParam))
	if err != nil {
		status, message := api.ErrorStatus(err)
		writeJSON(w, status, api.NewErrorResponse(message))
		return
	}

	result, err := s.finder.FindStopsNear(r.Context(), placeName)
	if err != nil {
		status, message := api.ErrorStatus(err)
		log.Error().
			Err(err).
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("place_name", placeName).
			Int("status", status).
			Msg("Lookup failed")
		writeJSON(w, status, api.NewErrorResponse(message))
		return
	}

	writeJSON(w, http.StatusOK, api.NewNearbyResponse(result))
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Debug().Err(err).Msg("Error writing response")
	}
}
