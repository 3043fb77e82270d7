// Package reports aggregates booking rows into the figures the reporting
// API serves. Everything here is pure; the controller fetches the rows and
// the lookup maps.
package reports

import (
	"sort"
	"time"

	"github.com/cogitex/rfbooking/db"
	"github.com/cogitex/rfbooking/models"
)

type BookingStats struct {
	Total       int     `json:"total"`
	Active      int     `json:"active"`
	Completed   int     `json:"completed"`
	Cancelled   int     `json:"cancelled"`
	BookedHours float64 `json:"bookedHours"`
}

type EquipmentUsage struct {
	EquipmentID string  `json:"equipmentId"`
	Name        string  `json:"name"`
	Bookings    int     `json:"bookings"`
	BookedHours float64 `json:"bookedHours"`
}

type UserActivity struct {
	UserID      string    `json:"userId"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	Bookings    int       `json:"bookings"`
	Cancelled   int       `json:"cancelled"`
	BookedHours float64   `json:"bookedHours"`
	LastStart   time.Time `json:"lastStart"`
}

// hoursOf is the occupied time of one booking. Rows with unparseable time
// strings count as zero rather than poisoning the whole report.
func hoursOf(b *models.Booking) float64 {
	sp, err := db.SpanOf(b)
	if err != nil {
		return 0
	}
	return float64(sp.Minutes()) / 60
}

// Stats totals the rows by status. Cancelled bookings never occupied the
// equipment, so they stay out of the hour count.
func Stats(bs []models.Booking) BookingStats {
	var st BookingStats
	st.Total = len(bs)
	for i := range bs {
		b := &bs[i]
		switch b.Status {
		case models.BookingActive:
			st.Active++
		case models.BookingCompleted:
			st.Completed++
		case models.BookingCancelled:
			st.Cancelled++
			continue
		}
		st.BookedHours += hoursOf(b)
	}
	return st
}

// UsageByEquipment groups non-cancelled rows per equipment, busiest first.
func UsageByEquipment(bs []models.Booking, names map[string]string) []EquipmentUsage {
	byID := make(map[string]*EquipmentUsage)
	for i := range bs {
		b := &bs[i]
		if b.Status == models.BookingCancelled {
			continue
		}
		u, ok := byID[b.EquipmentID]
		if !ok {
			name := names[b.EquipmentID]
			if name == "" {
				name = b.EquipmentID
			}
			u = &EquipmentUsage{EquipmentID: b.EquipmentID, Name: name}
			byID[b.EquipmentID] = u
		}
		u.Bookings++
		u.BookedHours += hoursOf(b)
	}
	out := make([]EquipmentUsage, 0, len(byID))
	for _, u := range byID {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].BookedHours != out[j].BookedHours {
			return out[i].BookedHours > out[j].BookedHours
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// ActivityByUser groups all rows per user, most bookings first.
func ActivityByUser(bs []models.Booking, users map[string]models.User) []UserActivity {
	byID := make(map[string]*UserActivity)
	for i := range bs {
		b := &bs[i]
		a, ok := byID[b.UserID]
		if !ok {
			a = &UserActivity{UserID: b.UserID}
			if u, found := users[b.UserID]; found {
				a.Email, a.Name = u.Email, u.Name
			}
			byID[b.UserID] = a
		}
		a.Bookings++
		if b.Status == models.BookingCancelled {
			a.Cancelled++
		} else {
			a.BookedHours += hoursOf(b)
		}
		if b.StartDate.After(a.LastStart) {
			a.LastStart = b.StartDate
		}
	}
	out := make([]UserActivity, 0, len(byID))
	for _, a := range byID {
		out = append(out, *a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Bookings != out[j].Bookings {
			return out[i].Bookings > out[j].Bookings
		}
		return out[i].Email < out[j].Email
	})
	return out
}
