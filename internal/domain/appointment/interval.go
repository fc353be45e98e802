package appointment

import (
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// Interval is the half-open range [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// Overlaps uses exclusive boundaries: [09:00,10:00) and [10:00,11:00)
// do not overlap.
func (i Interval) Overlaps(o Interval) bool {
	return i.Start.Before(o.End) && o.Start.Before(i.End)
}

func (i Interval) Empty() bool {
	return !i.Start.Before(i.End)
}

func AppointmentInterval(ap models.Appointment) Interval {
	return NewInterval(ap.StartAt, ap.Service.Duration())
}

func BlockInterval(b models.Block) Interval {
	return Interval{Start: b.StartAt, End: b.EndAt}
}

func overlapsAny(candidate Interval, busy []Interval) bool {
	for _, b := range busy {
		if candidate.Overlaps(b) {
			return true
		}
	}
	return false
}
