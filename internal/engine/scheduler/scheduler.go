package scheduler

import (
	"context"
	"time"

	"stock-insight-engine/internal/engine/service"
	"stock-insight-engine/pkg/logger"

	"github.com/robfig/cron/v3"
)

// Scheduler refreshes the alert list on a cron cadence so the dashboard
// always has something recent without the UI asking.
type Scheduler struct {
	cron     *cron.Cron
	log      *logger.Logger
	alerts   service.AlertService
	cronSpec string
}

// New creates a scheduler. cronSpec uses the standard five-field syntax;
// empty disables scheduling.
func New(log *logger.Logger, alerts service.AlertService, cronSpec string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		log:      log,
		alerts:   alerts,
		cronSpec: cronSpec,
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.cronSpec == "" {
		s.log.Info("Alert refresh cron disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cronSpec, func() {
		runCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()
		if _, err := s.alerts.Synthesize(runCtx); err != nil {
			s.log.Error("Scheduled alert synthesis failed", logger.ErrorField(err))
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("Alert refresh cron started", logger.StringField("spec", s.cronSpec))
	return nil
}

// Stop halts the cron loop and waits for a running job to finish.
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}
