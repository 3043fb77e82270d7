package db

import (
	"context"
	"errors"

	"github.com/cogitex/rfbooking/models"
)

var ErrLastAdmin = errors.New("cannot demote the last admin")

func (r *Repo) SetUserRole(ctx context.Context, userID, role string) error {
	if role != models.RoleAdmin {
		n, err := r.CountAdmins(ctx)
		if err != nil {
			return err
		}
		u, err := r.FindUserByID(ctx, userID)
		if err != nil {
			return err
		}
		if u.IsAdmin() && n <= 1 {
			return ErrLastAdmin
		}
	}
	return r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("role", role).Error
}

func (r *Repo) SetUserActive(ctx context.Context, userID string, active bool) error {
	return r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_active", active).Error
}

func (r *Repo) CountAdmins(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Where("role = ?", models.RoleAdmin).
		Count(&n).Error
	return n, err
}
