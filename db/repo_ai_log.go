package db

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cogitex/rfbooking/models"
)

// Assistant audit trail. Repo satisfies assistant.QueryStore.

func (r *Repo) InsertQueryLog(ctx context.Context, l *models.AIQueryLog) error {
	return r.DB.WithContext(ctx).Create(l).Error
}

// AddDailyUsage upserts the per-day aggregate row.
func (r *Repo) AddDailyUsage(ctx context.Context, day time.Time, queries, inputTokens, outputTokens int) error {
	tbl := models.AIUsageTable
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"queries_count": gorm.Expr(tbl+".queries_count + ?", queries),
			"input_tokens":  gorm.Expr(tbl+".input_tokens + ?", inputTokens),
			"output_tokens": gorm.Expr(tbl+".output_tokens + ?", outputTokens),
			"updated_at":    gorm.Expr("NOW()"),
		}),
	}).Create(&models.AIUsage{
		Date:         day,
		QueriesCount: queries,
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
	}).Error
}

func (r *Repo) UsageRange(ctx context.Context, from, to time.Time) ([]models.AIUsage, error) {
	var us []models.AIUsage
	err := r.DB.WithContext(ctx).
		Where("date >= ? AND date <= ?", from, to).
		Order("date").
		Find(&us).Error
	return us, err
}

func (r *Repo) ListQueryLogs(ctx context.Context, userID string, limit int) ([]models.AIQueryLog, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := r.DB.WithContext(ctx).Model(&models.AIQueryLog{}).Order("created_at DESC").Limit(limit)
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	var ls []models.AIQueryLog
	err := q.Find(&ls).Error
	return ls, err
}

// CountUserQueriesSince backs the assistant rate limit fallback when Redis
// is unavailable.
func (r *Repo) CountUserQueriesSince(ctx context.Context, userID string, since time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.AIQueryLog{}).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Count(&n).Error
	return n, err
}

func (r *Repo) DeleteOldQueryLogs(ctx context.Context, before time.Time) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("created_at < ?", before).
		Delete(&models.AIQueryLog{})
	return res.RowsAffected, res.Error
}
