package appointment

import "github.com/BruksfildServices01/tenant-scheduler/internal/httperr"

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCanceled  Status = "canceled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusConfirmed, StatusCanceled, StatusCompleted, StatusNoShow:
		return Status(s), true
	}
	return "", false
}

// Occupies reports whether an appointment in this status blocks its slot.
func (s Status) Occupies() bool {
	return s == StatusConfirmed
}

// InitialStatus is the status every booking is created with.
func InitialStatus() Status {
	return StatusConfirmed
}

// CanClientCancel guards the client self-cancel path.
func CanClientCancel(current Status) error {
	if current != StatusConfirmed {
		return httperr.ErrBusiness(httperr.CodeOnlyConfirmedCancel)
	}
	return nil
}

// NeedsSlotRecheck is true when moving to target would make the
// appointment occupy time it did not occupy before.
func NeedsSlotRecheck(current, target Status) bool {
	return target == StatusConfirmed && current != StatusConfirmed
}
