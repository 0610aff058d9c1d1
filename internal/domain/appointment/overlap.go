package appointment

import "github.com/BruksfildServices01/barber-booking/internal/wallclock"

// Interval is a half-open range [Start, End) on a single date. ID is the
// owning appointment, zero for a candidate that is not stored yet.
type Interval struct {
	ID    uint
	Start wallclock.TimeOfDay
	End   wallclock.TimeOfDay
}

// Overlaps treats ranges that only touch at a boundary as disjoint.
func Overlaps(start, end, otherStart, otherEnd wallclock.TimeOfDay) bool {
	return start < otherEnd && otherStart < end
}

func (i Interval) Overlaps(other Interval) bool {
	return Overlaps(i.Start, i.End, other.Start, other.End)
}

// FirstConflict returns the first booked interval overlapping candidate,
// skipping the one whose ID equals excludeID (the appointment being moved).
func FirstConflict(candidate Interval, booked []Interval, excludeID uint) (Interval, bool) {
	for _, b := range booked {
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		if candidate.Overlaps(b) {
			return b, true
		}
	}
	return Interval{}, false
}

func OverlapsAny(candidate Interval, booked []Interval, excludeID uint) bool {
	_, hit := FirstConflict(candidate, booked, excludeID)
	return hit
}
