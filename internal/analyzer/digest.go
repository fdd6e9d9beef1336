package analyzer

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/azure/reddit-analyzer/internal/config"
	"github.com/azure/reddit-analyzer/internal/models"
	"github.com/azure/reddit-analyzer/internal/notifications"
	"github.com/sirupsen/logrus"
)

const digestTopPosts = 10

// DigestRunner fetches the configured request and sends its top posts
type DigestRunner struct {
	service             *Service
	notificationService notifications.NotificationInterface
	request             models.AnalyzeRequest
	label               string
}

// NewDigestRunner builds a runner for the digest request described by cfg
func NewDigestRunner(cfg *config.Config, service *Service, notificationService notifications.NotificationInterface) *DigestRunner {
	label := strings.Join(cfg.DigestCategories, ", ")
	if cfg.DigestSearch != "" {
		label = fmt.Sprintf("%q", cfg.DigestSearch)
	}
	if label == "" {
		label = cfg.DigestScope
	}

	return &DigestRunner{
		service:             service,
		notificationService: notificationService,
		request: models.AnalyzeRequest{
			Scope:            models.Scope(cfg.DigestScope),
			Language:         models.Language(cfg.DigestLanguage),
			Listing:          models.ListingMode(cfg.DigestListing),
			TimeFrame:        models.TimeWindow(cfg.DigestTimeFrame),
			Limit:            cfg.DigestLimit,
			Categories:       cfg.DigestCategories,
			CustomSubreddits: cfg.DigestCustomSubreddits,
			SearchQuery:      cfg.DigestSearch,
		},
		label: label,
	}
}

// Run performs one digest: analyze, pick the top posts by score, notify
func (r *DigestRunner) Run(ctx context.Context) error {
	start := time.Now()
	logrus.Info("Starting digest run")

	digest, err := r.Build(ctx)
	if err != nil {
		return err
	}

	if err := r.notificationService.SendDigest(digest); err != nil {
		return fmt.Errorf("failed to send digest: %w", err)
	}

	logrus.Infof("Digest run completed in %v with %d posts", time.Since(start), len(digest.Posts))
	return nil
}

// Build runs the digest request and assembles the digest without sending it.
// The request shares the process rate gate with user requests, so a run that
// lands inside the interval fails and is not retried.
func (r *DigestRunner) Build(ctx context.Context) (*models.Digest, error) {
	result := r.service.Analyze(ctx, r.request)
	if !result.Success {
		return nil, fmt.Errorf("digest request failed: %s", result.Error)
	}

	posts := SortPosts(result.Data.Posts, SortByScore)
	if len(posts) > digestTopPosts {
		posts = posts[:digestTopPosts]
	}

	return &models.Digest{
		GeneratedAt: time.Now().UTC(),
		Title:       fmt.Sprintf("Reddit Digest - %s", r.label),
		Subreddits:  result.Spec.Subreddits,
		Listing:     string(result.Spec.Listing),
		TimeFrame:   string(result.Spec.TimeFrame),
		Summary:     *result.Summary,
		Posts:       posts,
	}, nil
}
