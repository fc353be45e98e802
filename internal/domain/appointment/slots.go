package appointment

import (
	"context"
	"time"
)

// SlotQuery describes one nearest-slots search.
type SlotQuery struct {
	Now           time.Time
	Location      *time.Location
	Duration      time.Duration
	Granularity   time.Duration
	LookaheadDays int
	Limit         int

	// Window returns the work window of the calendar day beginning at
	// dayStart, or false when the day is closed.
	Window func(dayStart time.Time) (Interval, bool)
}

// BusyFetcher loads the occupied intervals overlapping window. FindSlots
// calls it at most once per scanned day.
type BusyFetcher func(ctx context.Context, window Interval) ([]Interval, error)

// FindSlots walks forward from Now, day by day, and returns up to Limit
// free start instants in strictly increasing order. Candidates sit on the
// Granularity grid anchored at each day's work start. Fewer than Limit
// results (or none) is not an error.
func FindSlots(ctx context.Context, q SlotQuery, fetch BusyFetcher) ([]time.Time, error) {
	if q.Duration <= 0 || q.Granularity <= 0 || q.Limit <= 0 || q.LookaheadDays <= 0 {
		return []time.Time{}, nil
	}

	loc := q.Location
	if loc == nil {
		loc = time.UTC
	}

	now := q.Now.In(loc)
	today := DayBounds(now, loc).Start

	slots := make([]time.Time, 0, q.Limit)

	for d := 0; d < q.LookaheadDays && len(slots) < q.Limit; d++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dayStart := today.AddDate(0, 0, d)
		win, open := q.Window(dayStart)
		if !open || win.Empty() {
			continue
		}

		from := win.Start
		if now.After(from) {
			if !now.Before(win.End) {
				continue
			}
			from = alignUp(win.Start, now, q.Granularity)
		}

		if from.Add(q.Duration).After(win.End) {
			continue
		}

		busy, err := fetch(ctx, Interval{Start: from, End: win.End})
		if err != nil {
			return nil, err
		}

		for t := from; !t.Add(q.Duration).After(win.End) && len(slots) < q.Limit; t = t.Add(q.Granularity) {
			if !overlapsAny(NewInterval(t, q.Duration), busy) {
				slots = append(slots, t.UTC())
			}
		}
	}

	return slots, nil
}

// alignUp returns the first anchor + k*step that is not before t.
func alignUp(anchor, t time.Time, step time.Duration) time.Time {
	diff := t.Sub(anchor)
	k := diff / step
	if diff%step != 0 {
		k++
	}
	return anchor.Add(k * step)
}
