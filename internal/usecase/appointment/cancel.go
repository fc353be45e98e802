package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/metrics"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/notify"
)

// CancelAppointment is the client self-cancel path.
type CancelAppointment struct {
	repo   domain.Repository
	notify Notifier
	audit  Auditor
	policy config.Policy
	now    func() time.Time
}

func NewCancelAppointment(
	repo domain.Repository,
	notifier Notifier,
	auditor Auditor,
	policy config.Policy,
) *CancelAppointment {
	return &CancelAppointment{
		repo:   repo,
		notify: notifier,
		audit:  auditor,
		policy: policy,
		now:    time.Now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	businessID uint,
	clientID uint,
	appointmentID uint,
) (ap *models.Appointment, err error) {

	defer func() {
		metrics.StatusChangesTotal.WithLabelValues(string(domain.StatusCanceled), metrics.Outcome(err)).Inc()
	}()

	business, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, notFoundAs(err, httperr.CodeNotFound, "business")
	}

	ap, err = uc.repo.GetAppointment(ctx, businessID, appointmentID)
	if err != nil {
		return nil, notFoundAs(err, httperr.CodeNotFound, "appointment")
	}
	// someone else's appointment is indistinguishable from a missing one
	if ap.ClientID != clientID {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	policy := domain.ResolvePolicy(business, uc.policy)
	if err := domain.Cancel(ap, uc.now().UTC(), policy.CancelCutoff); err != nil {
		return nil, err
	}

	ok, err := uc.repo.UpdateStatusIf(ctx, ap, domain.StatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("cancel appointment: %w", err)
	}
	if !ok {
		// status moved away from confirmed since it was read
		return nil, httperr.ErrBusiness(httperr.CodeOnlyConfirmedCancel)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     uintPtr(clientID),
		Action:     "appointment_canceled",
		Entity:     "appointment",
		EntityID:   uintPtr(ap.ID),
		Metadata:   map[string]any{"by": "client"},
	})

	uc.notify.Notify(ctx, canceledMessage(ap, "client"))

	return ap, nil
}

func canceledMessage(ap *models.Appointment, by string) notify.Message {
	return notify.Message{
		BusinessID: ap.BusinessID,
		Type:       notify.EventAppointmentCanceled,
		Title:      "Appointment canceled",
		Body:       fmt.Sprintf("%s on %s was canceled by %s", ap.Service.Name, ap.StartAt.UTC().Format(time.RFC3339), by),
		Data: map[string]any{
			"appointment_id": ap.ID,
			"worker_id":      ap.WorkerID,
			"client_id":      ap.ClientID,
			"start_at":       ap.StartAt,
			"canceled_by":    by,
		},
	}
}
