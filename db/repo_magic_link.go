package db

import (
	"context"
	"errors"
	"time"

	"github.com/cogitex/rfbooking/models"
)

var ErrLinkUsedOrExpired = errors.New("magic link already used or expired")

func (r *Repo) CreateMagicLink(ctx context.Context, id, email string, userID *string, expiresAt time.Time, ip string) (*models.MagicLink, error) {
	ml := &models.MagicLink{ID: id, Email: email, UserID: userID, ExpiresAt: expiresAt, IP: ip}
	return ml, r.DB.WithContext(ctx).Create(ml).Error
}

// ConsumeMagicLink marks the link used exactly once. The conditional update
// makes replayed tokens lose the race: only the first caller flips the row.
func (r *Repo) ConsumeMagicLink(ctx context.Context, id string) (*models.MagicLink, error) {
	now := time.Now()
	res := r.DB.WithContext(ctx).Model(&models.MagicLink{}).
		Where("id = ? AND used_at IS NULL AND expires_at > ?", id, now).
		Update("used_at", &now)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, ErrLinkUsedOrExpired
	}
	var ml models.MagicLink
	if err := r.DB.WithContext(ctx).First(&ml, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &ml, nil
}

func (r *Repo) CountRecentMagicLinks(ctx context.Context, email string, since time.Time) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.MagicLink{}).
		Where("email = ? AND created_at >= ?", email, since).
		Count(&n).Error
	return n, err
}

func (r *Repo) DeleteExpiredMagicLinks(ctx context.Context) (int64, error) {
	res := r.DB.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.MagicLink{})
	return res.RowsAffected, res.Error
}
