package models

import "time"

const CronJobTable = "rfb_cron_jobs"

// CronJob tracks schedule and last-run status for a background job.
type CronJob struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	JobKey       string `gorm:"uniqueIndex;size:100;not null" json:"jobKey"`
	JobName      string `gorm:"size:255;not null" json:"jobName"`
	CronSchedule string `gorm:"size:50;not null" json:"cronSchedule"`
	IsEnabled    bool   `gorm:"not null;default:true" json:"isEnabled"`

	LastRunAt         *time.Time `json:"lastRunAt,omitempty"`
	LastRunStatus     string     `gorm:"size:50" json:"lastRunStatus,omitempty"` // success / error
	LastRunDurationMS int        `json:"lastRunDurationMs"`
	TotalRuns         int        `gorm:"not null;default:0" json:"totalRuns"`
	TotalErrors       int        `gorm:"not null;default:0" json:"totalErrors"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (CronJob) TableName() string { return CronJobTable }
