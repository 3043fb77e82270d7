package reports

import (
	"testing"
	"time"

	"github.com/cogitex/rfbooking/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func booking(user, equip, sd, ed, st, et, status string) models.Booking {
	return models.Booking{
		UserID: user, EquipmentID: equip,
		StartDate: day(sd), EndDate: day(ed),
		StartTime: st, EndTime: et,
		Status: status,
	}
}

func TestStats(t *testing.T) {
	bs := []models.Booking{
		booking("u1", "e1", "2025-03-10", "2025-03-10", "09:00", "12:00", models.BookingActive),
		booking("u1", "e1", "2025-03-11", "2025-03-11", "09:00", "10:00", models.BookingCompleted),
		booking("u2", "e2", "2025-03-12", "2025-03-12", "09:00", "17:00", models.BookingCancelled),
	}
	st := Stats(bs)
	if st.Total != 3 || st.Active != 1 || st.Completed != 1 || st.Cancelled != 1 {
		t.Fatalf("counts: %+v", st)
	}
	// 3h + 1h; the cancelled 8h never occupied anything.
	if st.BookedHours != 4 {
		t.Fatalf("booked hours = %v", st.BookedHours)
	}
}

func TestUsageByEquipmentOrdersBusiestFirst(t *testing.T) {
	bs := []models.Booking{
		booking("u1", "e1", "2025-03-10", "2025-03-10", "09:00", "10:00", models.BookingActive),
		booking("u1", "e2", "2025-03-10", "2025-03-10", "09:00", "17:00", models.BookingActive),
		booking("u2", "e2", "2025-03-11", "2025-03-11", "09:00", "11:00", models.BookingCompleted),
		booking("u2", "e1", "2025-03-11", "2025-03-11", "09:00", "17:00", models.BookingCancelled),
	}
	us := UsageByEquipment(bs, map[string]string{"e1": "Analyzer", "e2": "Amplifier"})
	if len(us) != 2 {
		t.Fatalf("groups = %d", len(us))
	}
	if us[0].EquipmentID != "e2" || us[0].Bookings != 2 || us[0].BookedHours != 10 {
		t.Fatalf("top: %+v", us[0])
	}
	if us[1].Name != "Analyzer" || us[1].Bookings != 1 || us[1].BookedHours != 1 {
		t.Fatalf("second: %+v", us[1])
	}
}

func TestUsageCountsMultiDaySpans(t *testing.T) {
	// Boundary days keep their explicit 8h window; the interior day counts
	// in full.
	bs := []models.Booking{
		booking("u1", "e1", "2025-03-10", "2025-03-12", "09:00", "17:00", models.BookingActive),
	}
	us := UsageByEquipment(bs, nil)
	if us[0].BookedHours != 8+24+8 {
		t.Fatalf("multi-day hours = %v", us[0].BookedHours)
	}
}

func TestActivityByUser(t *testing.T) {
	bs := []models.Booking{
		booking("u1", "e1", "2025-03-10", "2025-03-10", "09:00", "10:00", models.BookingCompleted),
		booking("u1", "e2", "2025-03-14", "2025-03-14", "09:00", "10:00", models.BookingActive),
		booking("u2", "e1", "2025-03-11", "2025-03-11", "09:00", "10:00", models.BookingCancelled),
	}
	users := map[string]models.User{
		"u1": {ID: "u1", Email: "a@lab.test", Name: "A"},
		"u2": {ID: "u2", Email: "b@lab.test", Name: "B"},
	}
	as := ActivityByUser(bs, users)
	if len(as) != 2 || as[0].UserID != "u1" {
		t.Fatalf("order: %+v", as)
	}
	if as[0].Bookings != 2 || as[0].BookedHours != 2 || !as[0].LastStart.Equal(day("2025-03-14")) {
		t.Fatalf("u1: %+v", as[0])
	}
	if as[1].Cancelled != 1 || as[1].BookedHours != 0 || as[1].Email != "b@lab.test" {
		t.Fatalf("u2: %+v", as[1])
	}
}
