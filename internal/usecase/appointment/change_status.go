package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	derrors "github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/metrics"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type ChangeStatusInput struct {
	BusinessID    uint
	ActorID       uint
	AppointmentID uint
	Status        string
	Notes         *string
}

// ChangeStatus is the admin transition. Re-confirming re-checks the slot
// under the worker lock; every other transition is unconditional.
type ChangeStatus struct {
	repo   domain.Repository
	notify Notifier
	audit  Auditor
	now    func() time.Time
}

func NewChangeStatus(
	repo domain.Repository,
	notifier Notifier,
	auditor Auditor,
) *ChangeStatus {
	return &ChangeStatus{
		repo:   repo,
		notify: notifier,
		audit:  auditor,
		now:    time.Now,
	}
}

func (uc *ChangeStatus) Execute(
	ctx context.Context,
	in ChangeStatusInput,
) (ap *models.Appointment, err error) {

	target, ok := domain.ParseStatus(in.Status)
	label := string(target)
	if !ok {
		label = "invalid"
	}
	defer func() {
		metrics.StatusChangesTotal.WithLabelValues(label, metrics.Outcome(err)).Inc()
	}()

	if !ok {
		return nil, httperr.ErrValidation(httperr.FieldError{
			Field:   "status",
			Rule:    "oneof",
			Message: "status must be one of confirmed, canceled, completed, no_show",
		})
	}
	if in.Notes != nil && len(*in.Notes) > 1000 {
		return nil, httperr.ErrValidation(httperr.FieldError{Field: "notes", Rule: "max", Message: "notes must be at most 1000 characters"})
	}

	ap, err = uc.repo.GetAppointment(ctx, in.BusinessID, in.AppointmentID)
	if err != nil {
		return nil, notFoundAs(err, httperr.CodeNotFound, "appointment")
	}

	current := domain.Status(ap.Status)
	if current == target && in.Notes == nil {
		return ap, nil
	}

	if in.Notes != nil {
		ap.Notes = *in.Notes
	}
	if current != target {
		domain.ApplyStatus(ap, target, uc.now().UTC())
	}

	if domain.NeedsSlotRecheck(current, target) {
		err = uc.reconfirm(ctx, ap, current)
	} else {
		err = uc.update(ctx, ap, current)
	}
	if err != nil {
		return nil, err
	}

	if current == target {
		return ap, nil
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     uintPtr(in.ActorID),
		Action:     "appointment_status_changed",
		Entity:     "appointment",
		EntityID:   uintPtr(ap.ID),
		Metadata:   map[string]any{"from": current, "to": target},
	})

	if target == domain.StatusCanceled {
		uc.notify.Notify(ctx, canceledMessage(ap, "admin"))
	}

	return ap, nil
}

func (uc *ChangeStatus) update(ctx context.Context, ap *models.Appointment, from domain.Status) error {
	ok, err := uc.repo.UpdateStatusIf(ctx, ap, from)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	if !ok {
		return httperr.ErrBusinessf(httperr.CodeConflict, "appointment changed concurrently")
	}
	return nil
}

// reconfirm refuses to resurrect an appointment into time that has been
// taken (by another booking or a block) since it stopped occupying it.
func (uc *ChangeStatus) reconfirm(ctx context.Context, ap *models.Appointment, from domain.Status) error {
	err := uc.repo.InWorkerTx(ctx, ap.BusinessID, ap.WorkerID, func(ctx context.Context, tx domain.WorkerTx) error {
		candidate := domain.AppointmentInterval(*ap)

		apps, err := tx.ListConfirmedInRange(ctx, ap.BusinessID, ap.WorkerID, candidate.Start, candidate.End)
		if err != nil {
			return err
		}
		blocks, err := tx.ListActiveBlocksInRange(ctx, ap.BusinessID, ap.WorkerID, candidate.Start, candidate.End)
		if err != nil {
			return err
		}
		if !domain.FindConflicts(candidate, ap.WorkerID, apps, blocks, ap.ID).Empty() {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}

		ok, err := tx.UpdateStatusIf(ctx, ap, from)
		if errors.Is(err, derrors.ErrDuplicate) {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}
		if err != nil {
			return err
		}
		if !ok {
			return httperr.ErrBusinessf(httperr.CodeSlotTaken, "appointment changed concurrently")
		}
		return nil
	})

	if err != nil {
		if _, ok := httperr.AsBusiness(err); ok {
			return err
		}
		return fmt.Errorf("reconfirm appointment: %w", err)
	}
	return nil
}
