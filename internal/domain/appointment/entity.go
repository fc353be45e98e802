package appointment

import (
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// Cancel applies the client self-cancel rules. The appointment must be
// confirmed and now must be strictly before start - cutoff.
func Cancel(ap *models.Appointment, now time.Time, cutoff time.Duration) error {
	if err := CanClientCancel(Status(ap.Status)); err != nil {
		return err
	}

	if !now.Before(ap.StartAt.Add(-cutoff)) {
		return httperr.ErrBusiness(httperr.CodeCannotCancelIn24h)
	}

	ap.Status = string(StatusCanceled)
	ap.CanceledAt = &now
	return nil
}

// ApplyStatus moves ap to target and maintains the lifecycle timestamps.
// Slot re-validation for re-confirmation is the caller's job.
func ApplyStatus(ap *models.Appointment, target Status, now time.Time) {
	ap.Status = string(target)

	switch target {
	case StatusCanceled:
		ap.CanceledAt = &now
	case StatusCompleted:
		ap.CompletedAt = &now
	case StatusConfirmed:
		ap.CanceledAt = nil
		ap.CompletedAt = nil
	}
}
