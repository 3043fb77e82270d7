package jobs

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/cogitex/rfbooking/models"
	"github.com/cogitex/rfbooking/schedule"
)

const queryLogRetention = 90 * 24 * time.Hour

func (r *Runner) dailyCleanup(ctx context.Context) error {
	links, err := r.repo.DeleteExpiredMagicLinks(ctx)
	if err != nil {
		return fmt.Errorf("expired links: %w", err)
	}
	logs, err := r.repo.DeleteOldQueryLogs(ctx, time.Now().Add(-queryLogRetention))
	if err != nil {
		return fmt.Errorf("old query logs: %w", err)
	}
	log.Printf("jobs: cleanup removed %d links, %d query logs", links, logs)
	return nil
}

// bookingMaintenance completes bookings whose window has passed, then mails
// reminders for the ones starting today.
func (r *Runner) bookingMaintenance(ctx context.Context) error {
	done, err := r.repo.CompleteExpired(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("complete expired: %w", err)
	}
	if done > 0 {
		log.Printf("jobs: completed %d bookings", done)
	}

	today := schedule.Date(time.Now())
	bs, err := r.repo.BookingsStartingOn(ctx, today)
	if err != nil {
		return fmt.Errorf("reminders: %w", err)
	}
	for i := range bs {
		b := &bs[i]
		u, err := r.repo.FindUserByID(ctx, b.UserID)
		if err != nil || !u.EmailNotificationsEnabled {
			continue
		}
		name := b.EquipmentID
		if e, err := r.repo.FindEquipmentByID(ctx, b.EquipmentID); err == nil {
			name = e.Name
		}
		if err := r.mailer.SendBookingReminder(u.Email, b, name); err != nil {
			log.Printf("jobs: reminder to %s: %v", u.Email, err)
		}
	}
	return nil
}

// weeklyManagerReports mails every manager a summary of the coming week.
func (r *Runner) weeklyManagerReports(ctx context.Context) error {
	from := schedule.Date(time.Now())
	to := from.AddDate(0, 0, 7)
	bs, err := r.repo.BookingsInRange(ctx, from, to)
	if err != nil {
		return fmt.Errorf("bookings in range: %w", err)
	}
	managers, err := r.repo.ListManagers(ctx)
	if err != nil {
		return fmt.Errorf("list managers: %w", err)
	}
	if len(managers) == 0 {
		return nil
	}

	html := buildWeeklyReport(ctx, r, from, to, bs)
	for _, m := range managers {
		if !m.EmailNotificationsEnabled {
			continue
		}
		if err := r.mailer.SendWeeklyReport(m.Email, html); err != nil {
			log.Printf("jobs: weekly report to %s: %v", m.Email, err)
		}
	}
	return nil
}

func buildWeeklyReport(ctx context.Context, r *Runner, from, to time.Time, bs []models.Booking) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<div style="font-family:sans-serif">`)
	fmt.Fprintf(&b, "<h3>Bookings %s &ndash; %s</h3>", from.Format("2006-01-02"), to.Format("2006-01-02"))
	if len(bs) == 0 {
		b.WriteString("<p>No bookings scheduled this week.</p></div>")
		return b.String()
	}
	names := make(map[string]string)
	b.WriteString("<table border=\"1\" cellpadding=\"4\"><tr><th>Equipment</th><th>From</th><th>To</th><th>Window</th></tr>")
	for i := range bs {
		bk := &bs[i]
		name, ok := names[bk.EquipmentID]
		if !ok {
			name = bk.EquipmentID
			if e, err := r.repo.FindEquipmentByID(ctx, bk.EquipmentID); err == nil {
				name = e.Name
			}
			names[bk.EquipmentID] = name
		}
		fmt.Fprintf(&b, "<tr><td>%s</td><td>%s</td><td>%s</td><td>%s&ndash;%s</td></tr>",
			name, bk.StartDate.Format("2006-01-02"), bk.EndDate.Format("2006-01-02"),
			bk.StartTime, bk.EndTime)
	}
	b.WriteString("</table></div>")
	return b.String()
}
