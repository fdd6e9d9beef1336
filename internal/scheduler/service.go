package scheduler

import (
	"context"
	"time"

	"github.com/azure/reddit-analyzer/internal/config"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const digestTimeout = 2 * time.Minute

// Job is a unit of scheduled work
type Job interface {
	Run(ctx context.Context) error
}

// Service handles scheduling of digest runs
type Service struct {
	config *config.Config
	digest Job
	cron   *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, digest Job) *Service {
	return &Service{
		config: cfg,
		digest: digest,
		cron:   cron.New(),
	}
}

// Start registers the digest schedule and starts the cron loop. It is a no-op
// when no schedule is configured.
func (s *Service) Start() error {
	if !s.config.DigestEnabled() {
		logrus.Info("Digest schedule not configured, scheduler idle")
		return nil
	}

	_, err := s.cron.AddFunc(s.config.DigestSchedule, s.runDigest)
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with digest schedule %q", s.config.DigestSchedule)
	return nil
}

func (s *Service) runDigest() {
	logrus.Info("Starting scheduled digest run")

	ctx, cancel := context.WithTimeout(context.Background(), digestTimeout)
	defer cancel()

	if err := s.digest.Run(ctx); err != nil {
		logrus.Errorf("Scheduled digest run failed: %v", err)
	}
}

// Entries returns the number of registered schedules
func (s *Service) Entries() int {
	return len(s.cron.Entries())
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}
