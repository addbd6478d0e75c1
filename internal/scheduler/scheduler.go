package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/set-predictor/internal/service"
)

// StatsRefresher rebuilds the aggregated stat table
type StatsRefresher interface {
	RefreshStats(ctx context.Context) (*service.RefreshReport, error)
}

// Scheduler manages scheduled stat refresh jobs
type Scheduler struct {
	cron            *cron.Cron
	refresher       StatsRefresher
	logger          logrus.FieldLogger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	refreshTimeout  time.Duration
	gracefulTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(refresher StatsRefresher, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.PanicLevel)
	}
	return &Scheduler{
		cron:            cron.New(cron.WithLocation(time.UTC)),
		refresher:       refresher,
		logger:          logger.WithField("component", "scheduler"),
		jobIDs:          make([]cron.EntryID, 0),
		refreshTimeout:  30 * time.Minute,
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleStatsRefresh schedules a stat refresh on a standard five-field cron expression
func (s *Scheduler) ScheduleStatsRefresh(cronExpression string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(cronExpression, func() { s.RunRefresh(context.Background()) })
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithField("cron", cronExpression).Info("Scheduled stats refresh job")

	return nil
}

// RunRefresh refreshes the stat table once. Failures are logged; the service
// keeps serving the previous table.
func (s *Scheduler) RunRefresh(ctx context.Context) *service.RefreshReport {
	ctx, cancel := context.WithTimeout(ctx, s.refreshTimeout)
	defer cancel()

	s.logger.Info("Starting scheduled stats refresh")

	report, err := s.refresher.RefreshStats(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Scheduled stats refresh failed")
		return report
	}
	s.logger.Infof("Scheduled stats refresh completed: %s", report)
	return report
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.Infof("Scheduler started with %d jobs", len(s.jobIDs))

	return nil
}

// Stop waits for running jobs up to the graceful timeout and stops the scheduler
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	done := s.cron.Stop().Done()
	s.isRunning = false

	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler stop timed out after %v", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			if nextRun.IsZero() || entry.Next.Before(nextRun) {
				nextRun = entry.Next
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}

// RemoveJob removes a scheduled job
func (s *Scheduler) RemoveJob(jobID cron.EntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot remove job while scheduler is running")
	}

	s.cron.Remove(jobID)
	for i, id := range s.jobIDs {
		if id == jobID {
			s.jobIDs = append(s.jobIDs[:i], s.jobIDs[i+1:]...)
			break
		}
	}
	s.logger.WithField("job_id", jobID).Info("Removed job")

	return nil
}
