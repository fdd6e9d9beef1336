package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/azure/reddit-analyzer/internal/analyzer"
	"github.com/azure/reddit-analyzer/internal/catalog"
	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/azure/reddit-analyzer/internal/scheduler"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	maxBodyBytes  = 64 << 10
	digestTimeout = 2 * time.Minute
)

// Server exposes the analyzer over HTTP
type Server struct {
	router       *mux.Router
	analyzer     *analyzer.Service
	digest       scheduler.Job
	defaultLimit int
}

// analyzeBody mirrors models.AnalyzeRequest with an optional limit so an
// omitted limit can take the configured default instead of being clamped to 1
type analyzeBody struct {
	Scope            models.Scope       `json:"scope"`
	Language         models.Language    `json:"language"`
	Listing          models.ListingMode `json:"listing"`
	TimeFrame        models.TimeWindow  `json:"timeFrame"`
	Limit            *int               `json:"limit"`
	Categories       []string           `json:"categories"`
	CustomSubreddits []string           `json:"customSubreddits"`
	SearchQuery      string             `json:"searchQuery"`
	After            string             `json:"after"`
}

// New wires the routes. digest may be nil when no digest is configured.
func New(service *analyzer.Service, digest scheduler.Job, defaultLimit int, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		router:       mux.NewRouter(),
		analyzer:     service,
		digest:       digest,
		defaultLimit: defaultLimit,
	}

	s.router.Use(loggingMiddleware)

	s.router.HandleFunc("/health", healthCheckHandler).Methods("GET")
	s.router.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods("GET")

	s.router.HandleFunc("/api/analyze", s.analyzeHandler).Methods("POST")
	s.router.HandleFunc("/api/catalog", catalogHandler).Methods("GET")
	s.router.HandleFunc("/api/stats", s.statsHandler).Methods("GET")
	s.router.HandleFunc("/api/digest/trigger", s.triggerDigestHandler).Methods("POST")

	return s
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	var body analyzeBody
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := decoder.Decode(&body); err != nil {
		logrus.WithError(err).Debug("Malformed analyze request body")
		writeJSON(w, http.StatusBadRequest, &analyzer.Result{Error: "Invalid request body.", RequestID: uuid.NewString()})
		return
	}

	limit := s.defaultLimit
	if body.Limit != nil {
		limit = *body.Limit
	}

	result := s.analyzer.Analyze(r.Context(), models.AnalyzeRequest{
		Scope:            body.Scope,
		Language:         body.Language,
		Listing:          body.Listing,
		TimeFrame:        body.TimeFrame,
		Limit:            limit,
		Categories:       body.Categories,
		CustomSubreddits: body.CustomSubreddits,
		SearchQuery:      body.SearchQuery,
		After:            body.After,
	})

	writeJSON(w, statusFor(result), result)
}

func statusFor(result *analyzer.Result) int {
	if result.Success {
		return http.StatusOK
	}

	var validationErr *analyzer.ValidationError
	switch {
	case errors.As(result.Err, &validationErr):
		return http.StatusBadRequest
	case errors.Is(result.Err, analyzer.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusBadGateway
	}
}

type catalogResponse struct {
	Categories []catalog.CategoryInfo `json:"categories"`
	Scopes     map[string][]string    `json:"scopes"`
	Listings   []models.ListingMode   `json:"listings"`
	TimeFrames []models.TimeWindow    `json:"timeFrames"`
	Languages  []models.Language      `json:"languages"`
	MaxLimit   int                    `json:"maxLimit"`
}

func catalogHandler(w http.ResponseWriter, r *http.Request) {
	scopes := make(map[string][]string)
	for _, scope := range models.Scopes {
		scopes[string(scope)] = catalog.Scope(scope)
	}

	writeJSON(w, http.StatusOK, catalogResponse{
		Categories: catalog.Categories(),
		Scopes:     scopes,
		Listings:   models.ListingModes,
		TimeFrames: models.TimeWindows,
		Languages:  models.Languages,
		MaxLimit:   analyzer.MaxLimit,
	})
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(s.analyzer.GetStats()))
}

func (s *Server) triggerDigestHandler(w http.ResponseWriter, r *http.Request) {
	if s.digest == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "Digest is not configured"})
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
		defer cancel()
		if err := s.digest.Run(ctx); err != nil {
			logrus.Errorf("Manual digest trigger failed: %v", err)
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]string{"message": "Digest triggered successfully"})
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}
