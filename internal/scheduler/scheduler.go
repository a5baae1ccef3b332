// Package scheduler owns the daily prompt cadence and the nightly sync
// job. The process entry point constructs and starts it; services only
// see the follow-up interface.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/lachdunc/health-coach/internal/service"
)

const (
	weekdayMorningCron = "20 6 * * 1-5"
	weekendMorningCron = "30 7 * * 0,6"
	eveningDiaryCron   = "30 20 * * *"
	nightlySyncCron    = "0 6 * * *"

	jobTimeout = 2 * time.Minute
)

// Scheduler fires the daily check-in prompts and the nightly wearable
// sync in the configured local timezone.
type Scheduler struct {
	scheduler    *gocron.Scheduler
	conversation service.ConversationService
	ingest       service.IngestService
	rollup       service.RollupService
	loc          *time.Location
}

// New creates a new Scheduler. The conversation service is handed to
// Start instead, because it needs the scheduler's follow-up interface
// at construction time.
func New(
	ingest service.IngestService,
	rollup service.RollupService,
	loc *time.Location,
) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(loc),
		ingest:    ingest,
		rollup:    rollup,
		loc:       loc,
	}
}

// Start registers the cron jobs and starts the underlying scheduler.
func (s *Scheduler) Start(conversation service.ConversationService) error {
	s.conversation = conversation

	morning := "Morning check-in: how do you feel today? (ok / migraine / poor sleep / other)"

	if _, err := s.scheduler.Cron(weekdayMorningCron).Do(func() {
		s.notify(morning)
	}); err != nil {
		return err
	}

	if _, err := s.scheduler.Cron(weekendMorningCron).Do(func() {
		s.notify(morning)
	}); err != nil {
		return err
	}

	if _, err := s.scheduler.Cron(eveningDiaryCron).Do(func() {
		s.notify("Evening diary: headache today? (yes / no)")
	}); err != nil {
		return err
	}

	if _, err := s.scheduler.Cron(nightlySyncCron).Do(s.runNightlySync); err != nil {
		return err
	}

	s.scheduler.StartAsync()
	log.Println("scheduler: started")
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}

// FollowUpIn schedules a one-shot job, satisfying
// service.FollowUpScheduler.
func (s *Scheduler) FollowUpIn(d time.Duration, fn func()) {
	_, err := s.scheduler.Every(1).Day().LimitRunsTo(1).StartAt(time.Now().In(s.loc).Add(d)).Do(fn)
	if err != nil {
		log.Printf("scheduler: follow-up scheduling failed: %v", err)
	}
}

func (s *Scheduler) notify(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	if err := s.conversation.Notify(ctx, text); err != nil {
		log.Printf("scheduler: prompt send failed: %v", err)
	}
}

// runNightlySync ingests every day missing since the last cached one
// and rolls each synced day up into the summary table. Both steps are
// idempotent re-runnable units, so a failed night is repaired by the
// next run.
func (s *Scheduler) runNightlySync() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	log.Println("scheduler: running nightly sync")
	payloads, err := s.ingest.IngestMissing(ctx)
	if err != nil {
		log.Printf("scheduler: nightly ingest failed: %v", err)
		if len(payloads) == 0 {
			return
		}
	}

	for _, payload := range payloads {
		day, err := time.Parse("2006-01-02", payload.Date)
		if err != nil {
			log.Printf("scheduler: bad payload date %q: %v", payload.Date, err)
			continue
		}
		if _, err := s.rollup.RollupDay(ctx, day); err != nil {
			log.Printf("scheduler: rollup failed for %s: %v", payload.Date, err)
		}
	}
	log.Println("scheduler: nightly sync completed")
}
