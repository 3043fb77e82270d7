package schedule

import (
	"testing"
	"time"
)

func d(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func tod(s string) TimeOfDay {
	t, err := ParseTimeOfDay(s)
	if err != nil {
		panic(err)
	}
	return t
}

func span(sd, ed, st, et string) Span {
	return Span{StartDate: d(sd), EndDate: d(ed), StartTime: tod(st), EndTime: tod(et)}
}

func TestParseTimeOfDay(t *testing.T) {
	if got := tod("09:30"); got != 9*60+30 {
		t.Fatalf("09:30 = %d", got)
	}
	if got := tod("00:00"); got != 0 {
		t.Fatalf("00:00 = %d", got)
	}
	if got := tod("24:00"); got != EndOfDay {
		t.Fatalf("24:00 = %d", got)
	}
	if _, err := ParseTimeOfDay("25:00"); err == nil {
		t.Fatal("expected error for 25:00")
	}
	if _, err := ParseTimeOfDay("24:30"); err == nil {
		t.Fatal("expected error for 24:30")
	}
	if _, err := ParseTimeOfDay("junk"); err == nil {
		t.Fatal("expected error for junk")
	}
}

func TestValidate(t *testing.T) {
	if err := span("2025-03-10", "2025-03-09", "09:00", "10:00").Validate(); err == nil {
		t.Fatal("end date before start date must fail")
	}
	if err := span("2025-03-10", "2025-03-10", "10:00", "10:00").Validate(); err == nil {
		t.Fatal("single-day zero-length window must fail")
	}
	if err := span("2025-03-10", "2025-03-10", "09:00", "10:00").Validate(); err != nil {
		t.Fatalf("valid span rejected: %v", err)
	}
}

func TestOverlapsDisjointDates(t *testing.T) {
	a := span("2025-03-01", "2025-03-03", "09:00", "17:00")
	b := span("2025-03-04", "2025-03-06", "09:00", "17:00")
	if Overlaps(a, b) || Overlaps(b, a) {
		t.Fatal("disjoint date ranges must never conflict")
	}
}

func TestOverlapsSameDayHalfOpen(t *testing.T) {
	cases := []struct {
		s1, e1, s2, e2 string
		want           bool
	}{
		{"09:00", "12:00", "11:00", "13:00", true},
		{"09:00", "12:00", "12:00", "13:00", false}, // touching boundaries
		{"12:00", "13:00", "09:00", "12:00", false},
		{"09:00", "17:00", "10:00", "11:00", true}, // containment
		{"09:00", "10:00", "09:00", "10:00", true}, // identical
		{"08:00", "09:00", "10:00", "11:00", false},
	}
	for _, c := range cases {
		a := span("2025-03-10", "2025-03-10", c.s1, c.e1)
		b := span("2025-03-10", "2025-03-10", c.s2, c.e2)
		if got := Overlaps(a, b); got != c.want {
			t.Errorf("[%s,%s) vs [%s,%s): got %v want %v", c.s1, c.e1, c.s2, c.e2, got, c.want)
		}
		if got := Overlaps(b, a); got != c.want {
			t.Errorf("[%s,%s) vs [%s,%s) (swapped): got %v want %v", c.s2, c.e2, c.s1, c.e1, got, c.want)
		}
	}
}

func TestOverlapsMultiDayInteriorBlocks(t *testing.T) {
	long := span("2025-03-10", "2025-03-12", "09:00", "17:00")

	// Interior day is fully blocked regardless of requested window.
	night := span("2025-03-11", "2025-03-11", "22:00", "23:00")
	if !Overlaps(long, night) {
		t.Fatal("interior day must block any time window")
	}

	// Boundary day keeps its explicit window: a request entirely before
	// 09:00 on the end day does not conflict.
	early := span("2025-03-12", "2025-03-12", "08:00", "08:30")
	if Overlaps(long, early) {
		t.Fatal("end-day request before the reservation window must not conflict")
	}

	inside := span("2025-03-12", "2025-03-12", "09:00", "09:30")
	if !Overlaps(long, inside) {
		t.Fatal("end-day request inside the window must conflict")
	}

	// Same rule on the start day.
	lateStart := span("2025-03-10", "2025-03-10", "17:00", "18:00")
	if Overlaps(long, lateStart) {
		t.Fatal("start-day request after the reservation window must not conflict")
	}
}

func TestOverlapsTwoMultiDaySpans(t *testing.T) {
	a := span("2025-03-10", "2025-03-12", "09:00", "17:00")
	b := span("2025-03-12", "2025-03-14", "08:00", "08:45")
	// Only shared day is 03-12: a occupies [09:00,17:00), b [08:00,08:45).
	if Overlaps(a, b) {
		t.Fatal("boundary windows do not intersect")
	}
	c := span("2025-03-12", "2025-03-14", "16:00", "18:00")
	if !Overlaps(a, c) {
		t.Fatal("boundary windows intersect")
	}
	d2 := span("2025-03-11", "2025-03-14", "01:00", "02:00")
	// 03-11 is b's start day ([01:00,02:00)) but a's interior day.
	if !Overlaps(a, d2) {
		t.Fatal("interior day of one span blocks the other's boundary window")
	}
}

func TestOverlapsOvernightSpans(t *testing.T) {
	night := span("2025-03-10", "2025-03-11", "18:00", "09:00")

	// Identical overnight windows collide on both boundary days.
	if !Overlaps(night, night) {
		t.Fatal("identical overnight spans must conflict")
	}

	// First evening is occupied from 18:00 on.
	evening := span("2025-03-10", "2025-03-10", "20:00", "22:00")
	if !Overlaps(night, evening) {
		t.Fatal("overnight span must block its first evening")
	}
	afternoon := span("2025-03-10", "2025-03-10", "12:00", "17:00")
	if Overlaps(night, afternoon) {
		t.Fatal("first day before the overnight window must stay free")
	}

	// Next morning is occupied until 09:00.
	morning := span("2025-03-11", "2025-03-11", "08:00", "08:30")
	if !Overlaps(night, morning) {
		t.Fatal("overnight span must block its final morning")
	}
	later := span("2025-03-11", "2025-03-11", "09:00", "11:00")
	if Overlaps(night, later) {
		t.Fatal("final day after the overnight window must stay free")
	}
}

func TestOverlapsFullDayBound(t *testing.T) {
	// A window reaching the 24:00 bound covers the last minute of the day.
	full := span("2025-03-10", "2025-03-10", "00:00", "24:00")
	lastMinute := span("2025-03-10", "2025-03-10", "23:59", "24:00")
	if !Overlaps(full, lastMinute) {
		t.Fatal("full-day window must cover 23:59-24:00")
	}
}

func TestSpanMinutes(t *testing.T) {
	if m := span("2025-03-10", "2025-03-10", "09:00", "10:30").Minutes(); m != 90 {
		t.Fatalf("single day = %d", m)
	}
	if m := span("2025-03-10", "2025-03-12", "09:00", "17:00").Minutes(); m != 480+1440+480 {
		t.Fatalf("multi-day = %d", m)
	}
	// Overnight: 18:00 to midnight plus midnight to 09:00.
	if m := span("2025-03-10", "2025-03-11", "18:00", "09:00").Minutes(); m != 360+540 {
		t.Fatalf("overnight = %d", m)
	}
}

func TestShiftPreservesShape(t *testing.T) {
	s := span("2025-03-10", "2025-03-12", "09:00", "17:00")
	g := s.Shift(3)
	if !g.StartDate.Equal(d("2025-03-13")) || !g.EndDate.Equal(d("2025-03-15")) {
		t.Fatalf("shift: %v..%v", g.StartDate, g.EndDate)
	}
	if g.StartTime != s.StartTime || g.EndTime != s.EndTime {
		t.Fatal("shift must keep the time window")
	}
}
