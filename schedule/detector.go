package schedule

import (
	"context"
	"time"
)

// Reservation is the slice of a booking the detector cares about.
type Reservation struct {
	ID   string
	Span Span
}

// ReservationSource returns active reservations for one equipment whose date
// range touches the coarse [from, to] window. The detector does the
// fine-grained interval math itself.
type ReservationSource interface {
	ActiveReservations(ctx context.Context, equipmentID string, from, to time.Time) ([]Reservation, error)
}

// Detector answers "does this proposed span collide with an existing active
// reservation?". It is stateless and read-only: the authoritative decision
// is repeated inside the booking insert transaction, this standalone probe
// serves UI and assistant pre-checks.
type Detector struct {
	Src ReservationSource
}

func NewDetector(src ReservationSource) *Detector { return &Detector{Src: src} }

// Conflicts returns every active reservation overlapping the proposed span,
// skipping excludeID (set when re-checking an update against itself).
func (d *Detector) Conflicts(ctx context.Context, equipmentID string, s Span, excludeID string) ([]Reservation, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}
	existing, err := d.Src.ActiveReservations(ctx, equipmentID, s.StartDate, s.EndDate)
	if err != nil {
		return nil, err
	}
	var out []Reservation
	for _, r := range existing {
		if excludeID != "" && r.ID == excludeID {
			continue
		}
		if Overlaps(r.Span, s) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (d *Detector) HasConflict(ctx context.Context, equipmentID string, s Span, excludeID string) (bool, error) {
	cs, err := d.Conflicts(ctx, equipmentID, s, excludeID)
	if err != nil {
		return false, err
	}
	return len(cs) > 0, nil
}
