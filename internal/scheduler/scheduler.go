package scheduler

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/i474232898/weather-lookup/internal/session"
)

// Scheduler drives the periodic work of the lookup service: the light/dark
// recompute of every session and the sweep of idle sessions.
type Scheduler struct {
	scheduler     *gocron.Scheduler
	sessions      *session.Store
	themeInterval time.Duration
	sweepInterval time.Duration
	clock         func() time.Time
	logger        *slog.Logger
}

// New creates a new Scheduler.
func New(sessions *session.Store, themeInterval, sweepInterval time.Duration, logger *slog.Logger) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	s.SingletonModeAll()
	return &Scheduler{
		scheduler:     s,
		sessions:      sessions,
		themeInterval: themeInterval,
		sweepInterval: sweepInterval,
		clock:         time.Now,
		logger:        logger.With(slog.String("component", "scheduler")),
	}
}

// Start schedules the periodic jobs and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.themeInterval <= 0 {
		s.themeInterval = time.Second
	}

	if _, err := s.scheduler.Every(s.themeInterval).Do(s.refreshThemes); err != nil {
		return err
	}

	if s.sweepInterval > 0 {
		if _, err := s.scheduler.Every(s.sweepInterval).Do(s.sweep); err != nil {
			return err
		}
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

func (s *Scheduler) refreshThemes() {
	now := s.clock()
	s.sessions.Each(func(sess *session.Session) {
		if sess.Widget.RefreshTheme(now) {
			s.logger.Debug("Theme switched", slog.String("session", sess.ID), slog.Bool("dark", sess.Widget.Snapshot().Dark))
		}
	})
}

func (s *Scheduler) sweep() {
	if n := s.sessions.Sweep(); n > 0 {
		s.logger.Info("Swept idle sessions", slog.Int("removed", n), slog.Int("live", s.sessions.Len()))
	}
}
