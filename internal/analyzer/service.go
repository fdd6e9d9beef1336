package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/azure/reddit-analyzer/internal/ratelimit"
	"github.com/azure/reddit-analyzer/internal/sources"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

// Result is the outcome of one analyze request. Exactly one of Data or Error
// is set. RequestID lets clients discard responses that arrive after a newer
// request was issued.
type Result struct {
	Success   bool            `json:"success"`
	Data      *models.Listing `json:"data,omitempty"`
	Summary   *models.Summary `json:"summary,omitempty"`
	Error     string          `json:"error,omitempty"`
	RequestID string          `json:"requestId"`

	Spec *models.FetchSpec `json:"-"`
	Err  error             `json:"-"`
}

// Service validates analyze requests, gates them and fetches from Reddit
type Service struct {
	source  sources.Source
	gate    *ratelimit.Gate
	metrics *Metrics
	stats   *Stats
	mu      sync.RWMutex
}

// Stats holds in-process counters exposed on the stats endpoint
type Stats struct {
	TotalRequests   int            `json:"total_requests"`
	Outcomes        map[string]int `json:"outcomes"`
	LastRun         time.Time      `json:"last_run"`
	LastRunDuration string         `json:"last_run_duration"`
	LastPostCount   int            `json:"last_post_count"`
}

// NewService creates a new analyzer service. A nil metrics value registers
// collectors on a private registry.
func NewService(source sources.Source, gate *ratelimit.Gate, metrics *Metrics) *Service {
	if metrics == nil {
		metrics = NewMetrics(prometheus.NewRegistry())
	}

	return &Service{
		source:  source,
		gate:    gate,
		metrics: metrics,
		stats: &Stats{
			Outcomes: make(map[string]int),
		},
	}
}

// Analyze runs one request through validation, the rate gate and the fetch.
// Failures are reported in the Result, never retried.
func (s *Service) Analyze(ctx context.Context, req models.AnalyzeRequest) *Result {
	start := time.Now()
	result := &Result{RequestID: uuid.NewString()}
	log := logrus.WithField("request_id", result.RequestID)

	spec, err := Compose(req)
	if err != nil {
		log.WithError(err).Debug("Rejected invalid analyze request")
		return s.fail(result, OutcomeInvalid, err, start)
	}
	result.Spec = spec

	if !s.gate.Admit() {
		log.Info("Analyze request rejected by rate gate")
		return s.fail(result, OutcomeRateLimited, ErrRateLimited, start)
	}

	mode := "listing"
	if spec.SearchQuery != "" {
		mode = "search"
	}
	log = log.WithFields(logrus.Fields{
		"mode":       mode,
		"listing":    spec.Listing,
		"time_frame": spec.TimeFrame,
		"subreddits": len(spec.Subreddits),
		"limit":      spec.Limit,
		"paginated":  spec.After != "",
	})

	fetchStart := time.Now()
	listing, err := s.source.Fetch(ctx, spec)
	s.metrics.FetchDurationSeconds.WithLabelValues(mode).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		log.WithError(err).Error("Reddit fetch failed")
		return s.fail(result, OutcomeFetchError, err, start)
	}

	summary := Summarize(listing.Posts)
	result.Success = true
	result.Data = listing
	result.Summary = &summary

	s.metrics.PostsReturned.Observe(float64(len(listing.Posts)))
	s.record(OutcomeSuccess, len(listing.Posts), time.Since(start))
	log.Infof("Fetched %d posts in %v", len(listing.Posts), time.Since(start))

	return result
}

func (s *Service) fail(result *Result, outcome string, err error, start time.Time) *Result {
	result.Success = false
	result.Err = err
	result.Error = err.Error()
	if errors.Is(err, ErrRateLimited) {
		result.Error = RateLimitMessage
	}

	s.record(outcome, 0, time.Since(start))
	return result
}

func (s *Service) record(outcome string, posts int, duration time.Duration) {
	s.metrics.RequestsTotal.WithLabelValues(outcome).Inc()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.stats.TotalRequests++
	s.stats.Outcomes[outcome]++
	s.stats.LastRun = time.Now()
	s.stats.LastRunDuration = duration.String()
	if outcome == OutcomeSuccess {
		s.stats.LastPostCount = posts
	}
}

// GetStats returns current counters as JSON
func (s *Service) GetStats() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, _ := json.MarshalIndent(s.stats, "", "  ")
	return string(data)
}
