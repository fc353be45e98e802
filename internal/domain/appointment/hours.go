package appointment

import (
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// DayBounds returns [midnight, next midnight) of the calendar day that
// contains t, in loc.
func DayBounds(t time.Time, loc *time.Location) Interval {
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return Interval{Start: start, End: start.AddDate(0, 0, 1)}
}

// WorkWindow resolves the bookable window of the calendar day starting at
// dayStart. A business without any opening hours uses the policy workday
// on every day; otherwise a weekday without hours is closed.
func WorkWindow(b *models.Business, dayStart time.Time, def config.Policy) (Interval, bool) {
	loc := dayStart.Location()

	if b == nil || len(b.OpeningHours) == 0 {
		return Interval{
			Start: time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), def.WorkdayStartHour, 0, 0, 0, loc),
			End:   time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), def.WorkdayEndHour, 0, 0, 0, loc),
		}, true
	}

	oh, ok := b.HoursFor(dayStart.Weekday())
	if !ok || oh.Closed() {
		return Interval{}, false
	}

	open, err1 := time.Parse("15:04", oh.Open)
	closing, err2 := time.Parse("15:04", oh.Close)
	if err1 != nil || err2 != nil {
		return Interval{}, false
	}

	win := Interval{
		Start: time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), open.Hour(), open.Minute(), 0, 0, loc),
		End:   time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(), closing.Hour(), closing.Minute(), 0, 0, loc),
	}
	if win.Empty() {
		return Interval{}, false
	}
	return win, true
}

// ValidHourMinute reports whether s is a "HH:MM" time of day.
func ValidHourMinute(s string) bool {
	_, err := time.Parse("15:04", s)
	return err == nil
}
