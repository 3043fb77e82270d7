package schedule

import (
	"context"
	"time"
)

// DateRange is a date-only window, used for alternative suggestions and
// free-slot listings.
type DateRange struct {
	Start time.Time `json:"startDate"`
	End   time.Time `json:"endDate"`
}

// AvailabilityProbe reports whether the given span is bookable. Probes may
// veto candidates for reasons beyond conflicts (e.g. spans in the past).
type AvailabilityProbe func(ctx context.Context, s Span) (bool, error)

// FindAlternative shifts the requested span by +1, -1, +2, -2, ... up to
// horizon days and returns the first window the probe accepts, so ties at
// equal distance resolve forward. Returns nil when the horizon is exhausted.
func FindAlternative(ctx context.Context, probe AvailabilityProbe, req Span, horizon int) (*DateRange, error) {
	for k := 1; k <= horizon; k++ {
		for _, off := range [2]int{k, -k} {
			cand := req.Shift(off)
			ok, err := probe(ctx, cand)
			if err != nil {
				return nil, err
			}
			if ok {
				return &DateRange{Start: cand.StartDate, End: cand.EndDate}, nil
			}
		}
	}
	return nil, nil
}

// FreeSlots scans day-granular gaps between the given active reservations
// inside [from, to], returning at most max ranges. Reservations must belong
// to a single equipment; order does not matter.
func FreeSlots(reservations []Reservation, from, to time.Time, max int) []DateRange {
	// Earliest-start first.
	sorted := make([]Reservation, len(reservations))
	copy(sorted, reservations)
	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j].Span.StartDate.Before(sorted[j-1].Span.StartDate); j-- {
			sorted[j], sorted[j-1] = sorted[j-1], sorted[j]
		}
	}

	var out []DateRange
	cur := from
	for _, r := range sorted {
		if r.Span.EndDate.Before(cur) || r.Span.StartDate.After(to) {
			continue
		}
		if cur.Before(r.Span.StartDate) {
			out = append(out, DateRange{Start: cur, End: r.Span.StartDate.AddDate(0, 0, -1)})
			if len(out) >= max {
				return out
			}
		}
		if next := r.Span.EndDate.AddDate(0, 0, 1); next.After(cur) {
			cur = next
		}
	}
	if !cur.After(to) && len(out) < max {
		out = append(out, DateRange{Start: cur, End: to})
	}
	return out
}
