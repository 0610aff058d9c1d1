package appointment

import "github.com/BruksfildServices01/barber-booking/internal/wallclock"

const (
	SlotStepMinutes     = 30
	DefaultSlotDuration = 30
)

// EnumerateSlots walks the open window in fixed steps. A start is emitted
// only while start+duration still fits before close; each emitted start is
// classified against the booked intervals.
func EnumerateSlots(openAt, closeAt wallclock.TimeOfDay, duration int, booked []Interval) DaySlots {
	if duration <= 0 {
		duration = DefaultSlotDuration
	}

	out := EmptySlots()
	for current := openAt; current.Add(duration) <= closeAt; current = current.Add(SlotStepMinutes) {
		out.All = append(out.All, current)

		candidate := Interval{Start: current, End: current.Add(duration)}
		if OverlapsAny(candidate, booked, 0) {
			out.Booked = append(out.Booked, current)
		} else {
			out.Available = append(out.Available, current)
		}
	}
	return out
}
