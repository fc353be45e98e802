package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/auth"
	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	derrors "github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/metrics"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/notify"
	"github.com/BruksfildServices01/tenant-scheduler/internal/telemetry"
)

// ======================================================
// INPUT
// ======================================================

type ServiceInput struct {
	Name        string
	DurationMin int
	Price       float64
}

type CreateAppointmentInput struct {
	Caller auth.Identity

	// ClientID is required for staff callers; clients book for themselves.
	ClientID uint
	WorkerID uint

	// Exactly one of ServiceID (catalog entry) or Service (inline) is used;
	// ServiceID wins when both are set.
	ServiceID *uint
	Service   *ServiceInput

	StartAt time.Time
	Notes   string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo   domain.Repository
	notify Notifier
	audit  Auditor
	policy config.Policy
	now    func() time.Time
}

func NewCreateAppointment(
	repo domain.Repository,
	notifier Notifier,
	auditor Auditor,
	policy config.Policy,
) *CreateAppointment {
	return &CreateAppointment{
		repo:   repo,
		notify: notifier,
		audit:  auditor,
		policy: policy,
		now:    time.Now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute checks, in order: payload shape, tenant membership, the client
// confirmed cap and slot availability. The last two run under the worker
// lock so concurrent bookings for one worker are serialized.
func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (ap *models.Appointment, err error) {

	ctx, span := telemetry.Tracer().Start(ctx, "appointment.create")
	defer func() {
		metrics.BookingsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	now := uc.now().UTC()

	// --------------------------------------------------
	// 1. Shape
	// --------------------------------------------------
	clientID, err := uc.validate(in, now)
	if err != nil {
		return nil, err
	}

	span.SetAttributes(
		attribute.Int64("business.id", int64(in.Caller.BusinessID)),
		attribute.Int64("worker.id", int64(in.WorkerID)),
	)

	// --------------------------------------------------
	// 2. Tenant membership
	// --------------------------------------------------
	business, err := uc.repo.GetBusinessByID(ctx, in.Caller.BusinessID)
	if err != nil {
		return nil, notFoundAs(err, httperr.CodeNotFound, "business")
	}

	client, err := uc.repo.GetMember(ctx, business.ID, clientID)
	if err != nil {
		return nil, notFoundAs(err, httperr.CodeNotInBusiness, "client")
	}
	if !client.IsClient() {
		return nil, httperr.ErrBusinessf(httperr.CodeNotInBusiness, "client_id is not a client")
	}

	worker, err := uc.repo.GetMember(ctx, business.ID, in.WorkerID)
	if err != nil {
		return nil, notFoundAs(err, httperr.CodeNotInBusiness, "worker")
	}
	if !worker.IsStaff() {
		return nil, httperr.ErrBusinessf(httperr.CodeNotInBusiness, "worker_id is not a worker")
	}

	snapshot, err := uc.snapshot(ctx, business.ID, in)
	if err != nil {
		return nil, err
	}

	policy := domain.ResolvePolicy(business, uc.policy)

	ap = &models.Appointment{
		BusinessID: business.ID,
		ClientID:   client.ID,
		WorkerID:   worker.ID,
		Service:    snapshot,
		StartAt:    in.StartAt.UTC(),
		Status:     string(domain.InitialStatus()),
		Notes:      in.Notes,
	}
	ap.SyncEnd()

	// --------------------------------------------------
	// 3. Cap + overlap under the worker lock
	// --------------------------------------------------
	err = uc.repo.InWorkerTx(ctx, business.ID, worker.ID, func(ctx context.Context, tx domain.WorkerTx) error {
		if err := tx.LockClient(ctx, business.ID, client.ID); err != nil {
			return err
		}

		confirmed, err := tx.CountConfirmedForClient(ctx, business.ID, client.ID)
		if err != nil {
			return err
		}
		if confirmed >= int64(policy.MaxConfirmedPerClient) {
			return httperr.ErrBusiness(httperr.CodeMaxConfirmedReached)
		}

		candidate := domain.AppointmentInterval(*ap)

		apps, err := tx.ListConfirmedInRange(ctx, business.ID, worker.ID, candidate.Start, candidate.End)
		if err != nil {
			return err
		}
		blocks, err := tx.ListActiveBlocksInRange(ctx, business.ID, worker.ID, candidate.Start, candidate.End)
		if err != nil {
			return err
		}
		if !domain.FindConflicts(candidate, worker.ID, apps, blocks, 0).Empty() {
			return httperr.ErrBusiness(httperr.CodeSlotTaken)
		}

		if err := tx.CreateAppointment(ctx, ap); err != nil {
			if errors.Is(err, derrors.ErrDuplicate) {
				return httperr.ErrBusiness(httperr.CodeSlotTaken)
			}
			return err
		}
		return nil
	})
	if err != nil {
		if _, ok := httperr.AsBusiness(err); ok {
			return nil, err
		}
		return nil, fmt.Errorf("create appointment: %w", err)
	}

	// --------------------------------------------------
	// 4. Side effects (never fail the booking)
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		BusinessID: business.ID,
		UserID:     uintPtr(in.Caller.UserID),
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   uintPtr(ap.ID),
	})

	uc.notify.Notify(ctx, notify.Message{
		BusinessID: business.ID,
		Type:       notify.EventAppointmentCreated,
		Title:      "New appointment",
		Body:       fmt.Sprintf("%s booked %s with %s", client.Name, snapshot.Name, worker.Name),
		Data: map[string]any{
			"appointment_id": ap.ID,
			"worker_id":      worker.ID,
			"client_id":      client.ID,
			"start_at":       ap.StartAt,
		},
	})

	return ap, nil
}

// validate returns the effective client id.
func (uc *CreateAppointment) validate(in CreateAppointmentInput, now time.Time) (uint, error) {
	var fields []httperr.FieldError

	clientID := in.ClientID
	switch in.Caller.Role {
	case models.RoleUser:
		if in.ClientID != 0 && in.ClientID != in.Caller.UserID {
			return 0, httperr.ErrBusinessf(httperr.CodeForbidden, "clients book for themselves")
		}
		clientID = in.Caller.UserID
	case models.RoleAdmin:
		if clientID == 0 {
			fields = append(fields, httperr.FieldError{Field: "client_id", Rule: "required", Message: "client_id is required"})
		}
	default:
		return 0, httperr.ErrBusiness(httperr.CodeForbidden)
	}

	if in.WorkerID == 0 {
		fields = append(fields, httperr.FieldError{Field: "worker_id", Rule: "required", Message: "worker_id is required"})
	}

	if in.StartAt.IsZero() {
		fields = append(fields, httperr.FieldError{Field: "start_at", Rule: "required", Message: "start_at is required"})
	} else if in.StartAt.Before(now) {
		fields = append(fields, httperr.FieldError{Field: "start_at", Rule: "future", Message: "start_at must not be in the past"})
	}

	if len(in.Notes) > 1000 {
		fields = append(fields, httperr.FieldError{Field: "notes", Rule: "max", Message: "notes must be at most 1000 characters"})
	}

	if in.ServiceID == nil {
		fields = append(fields, validateInlineService(in.Service)...)
	}

	if len(fields) > 0 {
		return 0, httperr.ErrValidation(fields...)
	}
	return clientID, nil
}

func validateInlineService(s *ServiceInput) []httperr.FieldError {
	if s == nil {
		return []httperr.FieldError{{Field: "service", Rule: "required", Message: "service or service_id is required"}}
	}

	var fields []httperr.FieldError
	if s.Name == "" || len(s.Name) > 100 {
		fields = append(fields, httperr.FieldError{Field: "service.name", Rule: "required", Message: "service.name is required (max 100)"})
	}
	if s.DurationMin < 1 || s.DurationMin > models.MaxServiceDurationMin {
		fields = append(fields, httperr.FieldError{Field: "service.duration_min", Rule: "range", Message: "service.duration_min must be between 1 and 480"})
	}
	if s.Price < 0 {
		fields = append(fields, httperr.FieldError{Field: "service.price", Rule: "gte", Message: "service.price must not be negative"})
	}
	return fields
}

// snapshot copies the service by value so later catalog edits never
// rewrite booked appointments.
func (uc *CreateAppointment) snapshot(
	ctx context.Context,
	businessID uint,
	in CreateAppointmentInput,
) (models.ServiceSnapshot, error) {

	if in.ServiceID == nil {
		return models.ServiceSnapshot{
			Name:        in.Service.Name,
			DurationMin: in.Service.DurationMin,
			Price:       in.Service.Price,
		}, nil
	}

	svc, err := uc.repo.GetService(ctx, businessID, *in.ServiceID)
	if err != nil {
		return models.ServiceSnapshot{}, notFoundAs(err, httperr.CodeNotInBusiness, "service")
	}
	if !svc.Active {
		return models.ServiceSnapshot{}, httperr.ErrBusinessf(httperr.CodeNotInBusiness, "service is inactive")
	}

	return models.ServiceSnapshot{
		ServiceID:   uintPtr(svc.ID),
		Name:        svc.Name,
		DurationMin: svc.DurationMin,
		Price:       svc.Price,
	}, nil
}
