package appointment

import (
	"testing"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
}

func TestInterval_Overlaps(t *testing.T) {
	base := Interval{Start: at(9, 0), End: at(10, 0)}

	cases := []struct {
		name string
		o    Interval
		want bool
	}{
		{"abuts after", Interval{Start: at(10, 0), End: at(10, 30)}, false},
		{"abuts before", Interval{Start: at(8, 0), End: at(9, 0)}, false},
		{"one minute into end", Interval{Start: at(9, 59), End: at(10, 30)}, true},
		{"one minute into start", Interval{Start: at(8, 30), End: at(9, 1)}, true},
		{"contained", Interval{Start: at(9, 15), End: at(9, 45)}, true},
		{"contains", Interval{Start: at(8, 0), End: at(11, 0)}, true},
		{"same", base, true},
		{"disjoint", Interval{Start: at(12, 0), End: at(13, 0)}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := base.Overlaps(tc.o); got != tc.want {
				t.Fatalf("Overlaps = %v, want %v", got, tc.want)
			}
			if got := tc.o.Overlaps(base); got != tc.want {
				t.Fatalf("Overlaps is not symmetric for %s", tc.name)
			}
		})
	}
}

func TestAppointmentInterval_UsesSnapshotDuration(t *testing.T) {
	ap := models.Appointment{
		StartAt: at(9, 0),
		Service: models.ServiceSnapshot{Name: "cut", DurationMin: 45},
	}
	iv := AppointmentInterval(ap)
	if !iv.End.Equal(at(9, 45)) {
		t.Fatalf("end = %v, want 09:45", iv.End)
	}
}
