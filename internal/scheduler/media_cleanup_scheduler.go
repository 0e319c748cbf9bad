package scheduler

import (
	"context"
	"time"

	"github.com/ikkim/foodgram-backend/internal/app/service"
	"github.com/ikkim/foodgram-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

const sweepTimeout = 10 * time.Minute

// MediaCleanupScheduler periodically removes recipe images no recipe references.
type MediaCleanupScheduler struct {
	cron     *cron.Cron
	schedule string
	cleanup  service.MediaCleanupService
}

// NewMediaCleanupScheduler takes a standard five-field cron spec, e.g. "0 4 * * *".
func NewMediaCleanupScheduler(cleanup service.MediaCleanupService, schedule string) *MediaCleanupScheduler {
	return &MediaCleanupScheduler{
		cron:     cron.New(),
		schedule: schedule,
		cleanup:  cleanup,
	}
}

func (s *MediaCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, s.RunOnce)
	if err != nil {
		logger.Error("Failed to add cron job for media cleanup", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Media cleanup scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce performs a single sweep.
func (s *MediaCleanupScheduler) RunOnce() {
	logger.Info("Starting scheduled media cleanup")

	ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
	defer cancel()

	removed, err := s.cleanup.SweepOrphanedImages(ctx)
	if err != nil {
		logger.Error("Scheduled media cleanup failed", err, map[string]interface{}{
			"removed": removed,
		})
		return
	}

	logger.Info("Scheduled media cleanup finished", map[string]interface{}{
		"removed": removed,
	})
}

// Stop waits for a running sweep to finish.
func (s *MediaCleanupScheduler) Stop() {
	logger.Info("Stopping media cleanup scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Media cleanup scheduler stopped")
}
