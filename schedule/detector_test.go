package schedule

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubSource struct {
	reservations []Reservation
	err          error
	calls        int
}

func (s *stubSource) ActiveReservations(ctx context.Context, equipmentID string, from, to time.Time) ([]Reservation, error) {
	s.calls++
	return s.reservations, s.err
}

func TestDetectorConflicts(t *testing.T) {
	src := &stubSource{reservations: []Reservation{
		{ID: "r1", Span: span("2025-03-10", "2025-03-12", "09:00", "17:00")},
		{ID: "r2", Span: span("2025-03-20", "2025-03-20", "09:00", "12:00")},
	}}
	det := NewDetector(src)
	ctx := context.Background()

	got, err := det.Conflicts(ctx, "eq1", span("2025-03-11", "2025-03-11", "10:00", "11:00"), "")
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != "r1" {
		t.Fatalf("conflicts = %+v", got)
	}

	ok, err := det.HasConflict(ctx, "eq1", span("2025-03-13", "2025-03-14", "09:00", "10:00"), "")
	if err != nil || ok {
		t.Fatalf("free window flagged: ok=%v err=%v", ok, err)
	}
}

func TestDetectorExcludesSelfOnUpdate(t *testing.T) {
	src := &stubSource{reservations: []Reservation{
		{ID: "mine", Span: span("2025-03-10", "2025-03-10", "09:00", "12:00")},
	}}
	det := NewDetector(src)

	ok, err := det.HasConflict(context.Background(), "eq1", span("2025-03-10", "2025-03-10", "10:00", "11:00"), "mine")
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Fatal("a booking must not conflict with itself during update")
	}
}

func TestDetectorRejectsInvalidSpan(t *testing.T) {
	det := NewDetector(&stubSource{})
	_, err := det.Conflicts(context.Background(), "eq1", span("2025-03-12", "2025-03-10", "09:00", "10:00"), "")
	if !errors.Is(err, ErrInvalidSpan) {
		t.Fatalf("err = %v", err)
	}
}

func TestDetectorPropagatesSourceError(t *testing.T) {
	src := &stubSource{err: errors.New("db down")}
	det := NewDetector(src)
	if _, err := det.HasConflict(context.Background(), "eq1", span("2025-03-10", "2025-03-10", "09:00", "10:00"), ""); err == nil {
		t.Fatal("source errors must propagate")
	}
}

func TestFindAlternativePrefersForwardOnTie(t *testing.T) {
	req := span("2025-03-10", "2025-03-11", "09:00", "17:00")
	// Both +2 and -2 are free; +1/-1 busy. Expect the forward window.
	probe := func(ctx context.Context, s Span) (bool, error) {
		switch {
		case s.StartDate.Equal(d("2025-03-12")), s.StartDate.Equal(d("2025-03-08")):
			return true, nil
		default:
			return false, nil
		}
	}
	got, err := FindAlternative(context.Background(), probe, req, 14)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || !got.Start.Equal(d("2025-03-12")) || !got.End.Equal(d("2025-03-13")) {
		t.Fatalf("alternative = %+v", got)
	}
}

func TestFindAlternativeNearestWins(t *testing.T) {
	req := span("2025-03-10", "2025-03-10", "09:00", "17:00")
	// Nearest free window is 2 days later; nothing earlier within horizon.
	probe := func(ctx context.Context, s Span) (bool, error) {
		return !s.StartDate.Before(d("2025-03-12")), nil
	}
	got, err := FindAlternative(context.Background(), probe, req, 14)
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || !got.Start.Equal(d("2025-03-12")) {
		t.Fatalf("alternative = %+v, want 2025-03-12", got)
	}
}

func TestFindAlternativeHorizonExhausted(t *testing.T) {
	probe := func(ctx context.Context, s Span) (bool, error) { return false, nil }
	got, err := FindAlternative(context.Background(), probe, span("2025-03-10", "2025-03-10", "09:00", "17:00"), 5)
	if err != nil {
		t.Fatal(err)
	}
	if got != nil {
		t.Fatalf("expected no alternative, got %+v", got)
	}
}

func TestFreeSlots(t *testing.T) {
	rs := []Reservation{
		{ID: "a", Span: span("2025-03-12", "2025-03-13", "09:00", "17:00")},
		{ID: "b", Span: span("2025-03-16", "2025-03-16", "09:00", "17:00")},
	}
	got := FreeSlots(rs, d("2025-03-10"), d("2025-03-20"), 5)
	want := []DateRange{
		{Start: d("2025-03-10"), End: d("2025-03-11")},
		{Start: d("2025-03-14"), End: d("2025-03-15")},
		{Start: d("2025-03-17"), End: d("2025-03-20")},
	}
	if len(got) != len(want) {
		t.Fatalf("slots = %+v", got)
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Errorf("slot %d = %v..%v, want %v..%v", i, got[i].Start, got[i].End, want[i].Start, want[i].End)
		}
	}
}

func TestFreeSlotsFullyBooked(t *testing.T) {
	rs := []Reservation{{ID: "a", Span: span("2025-03-01", "2025-03-31", "00:00", "23:59")}}
	if got := FreeSlots(rs, d("2025-03-10"), d("2025-03-20"), 5); len(got) != 0 {
		t.Fatalf("expected no slots, got %+v", got)
	}
}

func TestFreeSlotsCap(t *testing.T) {
	var rs []Reservation
	for i := 0; i < 10; i += 2 {
		day := d("2025-03-10").AddDate(0, 0, i)
		rs = append(rs, Reservation{Span: Span{StartDate: day, EndDate: day, StartTime: tod("09:00"), EndTime: tod("17:00")}})
	}
	if got := FreeSlots(rs, d("2025-03-09"), d("2025-03-25"), 2); len(got) != 2 {
		t.Fatalf("cap ignored: %+v", got)
	}
}
