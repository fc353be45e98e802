package appointment

import "github.com/BruksfildServices01/tenant-scheduler/internal/models"

// Conflicts lists the records occupying some part of a candidate interval.
type Conflicts struct {
	Appointments []models.Appointment `json:"appointments"`
	Blocks       []models.Block       `json:"blocks"`
}

func (c Conflicts) Empty() bool {
	return len(c.Appointments) == 0 && len(c.Blocks) == 0
}

// BlockApplies reports whether b removes time from workerID's schedule.
// Business-wide blocks (nil worker) apply to every worker.
func BlockApplies(b models.Block, workerID uint) bool {
	if !b.Active {
		return false
	}
	return b.WorkerID == nil || *b.WorkerID == workerID
}

// FindConflicts filters apps and blocks down to the ones that block
// candidate for workerID. excludeID skips one appointment (0 skips none),
// used when re-confirming an existing record.
func FindConflicts(
	candidate Interval,
	workerID uint,
	apps []models.Appointment,
	blocks []models.Block,
	excludeID uint,
) Conflicts {

	out := Conflicts{
		Appointments: []models.Appointment{},
		Blocks:       []models.Block{},
	}

	for _, ap := range apps {
		if ap.ID == excludeID && excludeID != 0 {
			continue
		}
		if ap.WorkerID != workerID || !Status(ap.Status).Occupies() {
			continue
		}
		if candidate.Overlaps(AppointmentInterval(ap)) {
			out.Appointments = append(out.Appointments, ap)
		}
	}

	for _, b := range blocks {
		if !BlockApplies(b, workerID) {
			continue
		}
		if candidate.Overlaps(BlockInterval(b)) {
			out.Blocks = append(out.Blocks, b)
		}
	}

	return out
}

// BusyIntervals flattens the occupying records into intervals.
func BusyIntervals(workerID uint, apps []models.Appointment, blocks []models.Block) []Interval {
	busy := make([]Interval, 0, len(apps)+len(blocks))
	for _, ap := range apps {
		if ap.WorkerID == workerID && Status(ap.Status).Occupies() {
			busy = append(busy, AppointmentInterval(ap))
		}
	}
	for _, b := range blocks {
		if BlockApplies(b, workerID) {
			busy = append(busy, BlockInterval(b))
		}
	}
	return busy
}
