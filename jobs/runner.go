// Package jobs runs the scheduled maintenance work: booking completion,
// reminder mail, expired-link cleanup and the weekly manager report. Every
// run is recorded on the job's status row.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/cogitex/rfbooking/db"
	"github.com/cogitex/rfbooking/mail"
)

const runTimeout = 5 * time.Minute

var ErrUnknownJob = errors.New("unknown job")

type Job struct {
	Key  string
	Name string
	Spec string
	Run  func(ctx context.Context) error
}

type Runner struct {
	cron   *cron.Cron
	repo   *db.Repo
	mailer *mail.Mailer
	jobs   map[string]Job
}

func NewRunner(repo *db.Repo, mailer *mail.Mailer) *Runner {
	r := &Runner{
		cron:   cron.New(),
		repo:   repo,
		mailer: mailer,
		jobs:   make(map[string]Job),
	}
	r.register(Job{
		Key:  "daily_cleanup",
		Name: "Expired link and old log cleanup",
		Spec: "0 8 * * *",
		Run:  r.dailyCleanup,
	})
	r.register(Job{
		Key:  "booking_maintenance",
		Name: "Booking completion and reminders",
		Spec: "0 7 * * *",
		Run:  r.bookingMaintenance,
	})
	r.register(Job{
		Key:  "weekly_manager_reports",
		Name: "Weekly booking report for managers",
		Spec: "0 9 * * FRI",
		Run:  r.weeklyManagerReports,
	})
	return r
}

func (r *Runner) register(j Job) { r.jobs[j.Key] = j }

// Start writes the job rows and schedules everything. Runs are serialized
// per job by cron itself; across jobs they may overlap.
func (r *Runner) Start(ctx context.Context) error {
	for _, j := range r.jobs {
		if err := r.repo.EnsureCronJob(ctx, j.Key, j.Name, j.Spec); err != nil {
			return fmt.Errorf("ensure job %s: %w", j.Key, err)
		}
		j := j
		if _, err := r.cron.AddFunc(j.Spec, func() { r.run(j) }); err != nil {
			return fmt.Errorf("schedule job %s: %w", j.Key, err)
		}
	}
	r.cron.Start()
	return nil
}

func (r *Runner) Stop() { <-r.cron.Stop().Done() }

// RunNow triggers one job out of schedule, for the admin API.
func (r *Runner) RunNow(key string) error {
	j, ok := r.jobs[key]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnknownJob, key)
	}
	return r.run(j)
}

func (r *Runner) run(j Job) error {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	started := time.Now()
	err := j.Run(ctx)
	if err != nil {
		log.Printf("jobs: %s failed: %v", j.Key, err)
	} else {
		log.Printf("jobs: %s done in %s", j.Key, time.Since(started).Round(time.Millisecond))
	}
	if mErr := r.repo.MarkCronJobRun(ctx, j.Key, started, err); mErr != nil {
		log.Printf("jobs: mark run %s: %v", j.Key, mErr)
	}
	return err
}
