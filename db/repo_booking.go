package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/cogitex/rfbooking/models"
	"github.com/cogitex/rfbooking/schedule"
)

var (
	ErrBookingConflict  = errors.New("booking conflicts with an existing reservation")
	ErrAlreadyCancelled = errors.New("booking already cancelled")
	ErrBookingFinished  = errors.New("booking already completed")
)

// SpanOf converts a stored booking into its schedule window.
func SpanOf(b *models.Booking) (schedule.Span, error) {
	st, err := schedule.ParseTimeOfDay(b.StartTime)
	if err != nil {
		return schedule.Span{}, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	et, err := schedule.ParseTimeOfDay(b.EndTime)
	if err != nil {
		return schedule.Span{}, fmt.Errorf("booking %s: %w", b.ID, err)
	}
	return schedule.Span{
		StartDate: schedule.Date(b.StartDate),
		EndDate:   schedule.Date(b.EndDate),
		StartTime: st,
		EndTime:   et,
	}, nil
}

// ActiveReservations implements schedule.ReservationSource. The coarse date
// filter narrows the scan; the detector does the per-day window math.
func (r *Repo) ActiveReservations(ctx context.Context, equipmentID string, from, to time.Time) ([]schedule.Reservation, error) {
	bs, err := r.activeOverlapping(r.DB.WithContext(ctx), equipmentID, from, to, "")
	if err != nil {
		return nil, err
	}
	out := make([]schedule.Reservation, 0, len(bs))
	for i := range bs {
		sp, err := SpanOf(&bs[i])
		if err != nil {
			return nil, err
		}
		out = append(out, schedule.Reservation{ID: bs[i].ID, Span: sp})
	}
	return out, nil
}

func (r *Repo) activeOverlapping(tx *gorm.DB, equipmentID string, from, to time.Time, excludeID string) ([]models.Booking, error) {
	q := tx.
		Where("equipment_id = ? AND status = ?", equipmentID, models.BookingActive).
		Where("end_date >= ? AND start_date <= ?", from, to)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	var bs []models.Booking
	if err := q.Find(&bs).Error; err != nil {
		return nil, err
	}
	return bs, nil
}

// conflictsInTx re-runs the fine-grained overlap check against rows read
// inside the transaction.
func conflictsInTx(tx *gorm.DB, r *Repo, equipmentID string, s schedule.Span, excludeID string) ([]models.Booking, error) {
	bs, err := r.activeOverlapping(tx, equipmentID, s.StartDate, s.EndDate, excludeID)
	if err != nil {
		return nil, err
	}
	var out []models.Booking
	for i := range bs {
		sp, err := SpanOf(&bs[i])
		if err != nil {
			return nil, err
		}
		if schedule.Overlaps(sp, s) {
			out = append(out, bs[i])
		}
	}
	return out, nil
}

// CreateBooking inserts atomically: lock the equipment row, re-check for
// conflicts while holding the lock, then insert. Two racing requests for the
// same equipment serialize on the row lock, so the pre-flight check in the
// controller can never let both through. On conflict the colliding bookings
// come back with ErrBookingConflict.
func (r *Repo) CreateBooking(ctx context.Context, b *models.Booking) ([]models.Booking, error) {
	sp, err := SpanOf(b)
	if err != nil {
		return nil, err
	}
	if err := sp.Validate(); err != nil {
		return nil, err
	}

	var conflicts []models.Booking
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Equipment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&e, "id = ? AND is_active = TRUE", b.EquipmentID).Error; err != nil {
			return err
		}
		cs, err := conflictsInTx(tx, r, b.EquipmentID, sp, "")
		if err != nil {
			return err
		}
		if len(cs) > 0 {
			conflicts = cs
			return ErrBookingConflict
		}
		b.Status = models.BookingActive
		return tx.Create(b).Error
	})
	if err != nil {
		return conflicts, err
	}
	return nil, nil
}

// UpdateBooking rewrites the window of an active booking under the same
// lock-and-recheck discipline, excluding the booking itself from the check.
func (r *Repo) UpdateBooking(ctx context.Context, b *models.Booking) ([]models.Booking, error) {
	sp, err := SpanOf(b)
	if err != nil {
		return nil, err
	}
	if err := sp.Validate(); err != nil {
		return nil, err
	}

	var conflicts []models.Booking
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var e models.Equipment
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&e, "id = ?", b.EquipmentID).Error; err != nil {
			return err
		}
		cs, err := conflictsInTx(tx, r, b.EquipmentID, sp, b.ID)
		if err != nil {
			return err
		}
		if len(cs) > 0 {
			conflicts = cs
			return ErrBookingConflict
		}
		return tx.Model(&models.Booking{}).
			Where("id = ?", b.ID).
			Updates(map[string]interface{}{
				"start_date":  b.StartDate,
				"end_date":    b.EndDate,
				"start_time":  b.StartTime,
				"end_time":    b.EndTime,
				"description": b.Description,
			}).Error
	})
	if err != nil {
		return conflicts, err
	}
	return nil, nil
}

func (r *Repo) FindBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	if err := r.DB.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

// CancelBooking transitions active -> cancelled.
func (r *Repo) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&b, "id = ?", id).Error; err != nil {
			return err
		}
		switch b.Status {
		case models.BookingCancelled:
			return ErrAlreadyCancelled
		case models.BookingCompleted:
			return ErrBookingFinished
		}
		b.Status = models.BookingCancelled
		return tx.Model(&b).Update("status", models.BookingCancelled).Error
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *Repo) ListBookings(ctx context.Context, userID, equipmentID, status string, page, size int) ([]models.Booking, int64, error) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 || size > 100 {
		size = 20
	}
	q := r.DB.WithContext(ctx).Model(&models.Booking{})
	if userID != "" {
		q = q.Where("user_id = ?", userID)
	}
	if equipmentID != "" {
		q = q.Where("equipment_id = ?", equipmentID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var bs []models.Booking
	if err := q.
		Order("start_date DESC, start_time DESC").
		Offset((page - 1) * size).
		Limit(size).
		Find(&bs).Error; err != nil {
		return nil, 0, err
	}
	return bs, total, nil
}

// CountUserBookingsCreatedToday backs the per-user daily creation limit.
func (r *Repo) CountUserBookingsCreatedToday(ctx context.Context, userID string) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("user_id = ? AND created_at >= CURRENT_DATE", userID).
		Count(&n).Error
	return n, err
}

// CompleteExpired flips active bookings whose window has fully passed to
// completed. Time strings compare lexicographically because they are
// zero-padded "HH:MM".
func (r *Repo) CompleteExpired(ctx context.Context, now time.Time) (int64, error) {
	today := schedule.Date(now)
	hhmm := now.UTC().Format("15:04")
	res := r.DB.WithContext(ctx).Model(&models.Booking{}).
		Where("status = ?", models.BookingActive).
		Where("end_date < ? OR (end_date = ? AND end_time <= ?)", today, today, hhmm).
		Update("status", models.BookingCompleted)
	return res.RowsAffected, res.Error
}

// BookingsStartingOn lists active bookings whose start date is the given day,
// for reminder mail.
func (r *Repo) BookingsStartingOn(ctx context.Context, day time.Time) ([]models.Booking, error) {
	var bs []models.Booking
	err := r.DB.WithContext(ctx).
		Where("status = ? AND start_date = ?", models.BookingActive, schedule.Date(day)).
		Order("start_time").
		Find(&bs).Error
	return bs, err
}

// AllBookingsInRange lists bookings of every status touching [from, to],
// for the reporting API.
func (r *Repo) AllBookingsInRange(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	var bs []models.Booking
	err := r.DB.WithContext(ctx).
		Where("end_date >= ? AND start_date <= ?", schedule.Date(from), schedule.Date(to)).
		Order("start_date, start_time").
		Find(&bs).Error
	return bs, err
}

// BookingsInRange lists active bookings touching [from, to], for the weekly
// manager report.
func (r *Repo) BookingsInRange(ctx context.Context, from, to time.Time) ([]models.Booking, error) {
	var bs []models.Booking
	err := r.DB.WithContext(ctx).
		Where("status = ? AND end_date >= ? AND start_date <= ?", models.BookingActive, schedule.Date(from), schedule.Date(to)).
		Order("start_date, start_time").
		Find(&bs).Error
	return bs, err
}
