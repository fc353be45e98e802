package timezone

import (
	"sync"
	"time"
	_ "time/tzdata"
)

const DefaultTimezone = "UTC"

var cache sync.Map // name -> *time.Location

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := load(tz)
	return err == nil
}

// Location resolves a business timezone label, falling back to UTC for
// empty or unknown labels.
func Location(tz string) *time.Location {
	if tz == "" {
		return time.UTC
	}
	loc, err := load(tz)
	if err != nil {
		return time.UTC
	}
	return loc
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// ParseDate parses "YYYY-MM-DD" as local midnight in tz.
func ParseDate(tz, date string) (time.Time, error) {
	return time.ParseInLocation("2006-01-02", date, Location(tz))
}

func load(tz string) (*time.Location, error) {
	if v, ok := cache.Load(tz); ok {
		return v.(*time.Location), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	cache.Store(tz, loc)
	return loc, nil
}
