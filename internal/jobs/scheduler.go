package jobs

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler drives the reconciliation job on a fixed interval. Built
// explicitly at startup and started explicitly, so tests can run ticks
// with a fake clock instead of waiting on a timer.
type Scheduler struct {
	rec      *Reconciler
	cron     *cron.Cron
	interval time.Duration
	now      func() time.Time
}

func NewScheduler(rec *Reconciler, intervalMinutes int, now func() time.Time) *Scheduler {
	if intervalMinutes <= 0 {
		intervalMinutes = 5
	}
	if now == nil {
		now = time.Now
	}
	return &Scheduler{
		rec:      rec,
		cron:     cron.New(),
		interval: time.Duration(intervalMinutes) * time.Minute,
		now:      now,
	}
}

func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc(fmt.Sprintf("@every %s", s.interval), s.RunOnce)
	if err != nil {
		return err
	}
	s.cron.Start()
	logrus.WithField("interval", s.interval).Info("scheduler: reconciliation job started")
	return nil
}

// Stop halts the timer and waits for an in-flight tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	logrus.Info("scheduler: reconciliation job stopped")
}

// RunOnce executes one tick. "now" is computed once and shared by both
// passes so an item cannot become due between them. Each pass catches
// its own errors; a failure in one never blocks the other.
func (s *Scheduler) RunOnce() {
	now := s.now()
	if err := s.rec.DispatchDueNotifications(now); err != nil {
		logrus.WithError(err).Error("scheduler: notification dispatch pass failed")
	}
	if err := s.rec.ResolveExpiredPolls(now); err != nil {
		logrus.WithError(err).Error("scheduler: poll expiry pass failed")
	}
}
