package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cogitex/rfbooking/models"
)

// Cron job bookkeeping. One row per job key, updated after every run.

func (r *Repo) EnsureCronJob(ctx context.Context, key, name, spec string) error {
	var j models.CronJob
	err := r.DB.WithContext(ctx).Where("job_key = ?", key).First(&j).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return r.DB.WithContext(ctx).Create(&models.CronJob{
			JobKey: key, JobName: name, CronSchedule: spec, IsEnabled: true,
		}).Error
	}
	if err != nil {
		return err
	}
	// Schedule in code wins over whatever is stored.
	if j.CronSchedule != spec || j.JobName != name {
		return r.DB.WithContext(ctx).Model(&j).
			Updates(map[string]interface{}{"cron_schedule": spec, "job_name": name}).Error
	}
	return nil
}

func (r *Repo) ListCronJobs(ctx context.Context) ([]models.CronJob, error) {
	var js []models.CronJob
	err := r.DB.WithContext(ctx).Order("job_key").Find(&js).Error
	return js, err
}

func (r *Repo) FindCronJob(ctx context.Context, key string) (*models.CronJob, error) {
	var j models.CronJob
	if err := r.DB.WithContext(ctx).Where("job_key = ?", key).First(&j).Error; err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *Repo) MarkCronJobRun(ctx context.Context, key string, started time.Time, runErr error) error {
	status := "success"
	errDelta := 0
	if runErr != nil {
		status = "error"
		errDelta = 1
	}
	return r.DB.WithContext(ctx).Model(&models.CronJob{}).
		Where("job_key = ?", key).
		Updates(map[string]interface{}{
			"last_run_at":          started,
			"last_run_status":      status,
			"last_run_duration_ms": int(time.Since(started).Milliseconds()),
			"total_runs":           gorm.Expr("total_runs + 1"),
			"total_errors":         gorm.Expr("total_errors + ?", errDelta),
		}).Error
}
