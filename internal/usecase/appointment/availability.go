package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
)

// ======================================================
// CHECK SLOT
// ======================================================

type CheckSlotInput struct {
	BusinessID  uint
	WorkerID    uint
	StartAt     time.Time
	DurationMin int
}

// BusyInterval is an occupied range with no client or block details.
// Slot checks are readable by any role.
type BusyInterval struct {
	Kind    string    `json:"kind"` // appointment | block
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

type SlotCheck struct {
	Free      bool           `json:"free"`
	StartAt   time.Time      `json:"start_at"`
	EndAt     time.Time      `json:"end_at"`
	Conflicts []BusyInterval `json:"conflicts"`
}

type CheckSlot struct {
	repo domain.Repository
}

func NewCheckSlot(repo domain.Repository) *CheckSlot {
	return &CheckSlot{repo: repo}
}

// Execute reports whether [start, start+duration) is free for the worker
// and lists whatever occupies it otherwise.
func (uc *CheckSlot) Execute(ctx context.Context, in CheckSlotInput) (*SlotCheck, error) {
	var fields []httperr.FieldError
	if in.WorkerID == 0 {
		fields = append(fields, httperr.FieldError{Field: "worker_id", Rule: "required", Message: "worker_id is required"})
	}
	if in.StartAt.IsZero() {
		fields = append(fields, httperr.FieldError{Field: "start", Rule: "required", Message: "start is required"})
	}
	if in.DurationMin < 1 || in.DurationMin > models.MaxServiceDurationMin {
		fields = append(fields, httperr.FieldError{Field: "duration", Rule: "range", Message: "duration must be between 1 and 480"})
	}
	if len(fields) > 0 {
		return nil, httperr.ErrValidation(fields...)
	}

	if err := requireWorker(ctx, uc.repo, in.BusinessID, in.WorkerID); err != nil {
		return nil, err
	}

	candidate := domain.NewInterval(in.StartAt.UTC(), time.Duration(in.DurationMin)*time.Minute)

	apps, err := uc.repo.ListConfirmedInRange(ctx, in.BusinessID, in.WorkerID, candidate.Start, candidate.End)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	blocks, err := uc.repo.ListActiveBlocksInRange(ctx, in.BusinessID, in.WorkerID, candidate.Start, candidate.End)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}

	conflicts := domain.FindConflicts(candidate, in.WorkerID, apps, blocks, 0)
	return &SlotCheck{
		Free:      conflicts.Empty(),
		StartAt:   candidate.Start,
		EndAt:     candidate.End,
		Conflicts: busyIntervals(conflicts),
	}, nil
}

func busyIntervals(c domain.Conflicts) []BusyInterval {
	out := make([]BusyInterval, 0, len(c.Appointments)+len(c.Blocks))
	for _, ap := range c.Appointments {
		iv := domain.AppointmentInterval(ap)
		out = append(out, BusyInterval{Kind: "appointment", StartAt: iv.Start, EndAt: iv.End})
	}
	for _, b := range c.Blocks {
		iv := domain.BlockInterval(b)
		out = append(out, BusyInterval{Kind: "block", StartAt: iv.Start, EndAt: iv.End})
	}
	return out
}

// ======================================================
// DAY SCHEDULE
// ======================================================

type DayScheduleInput struct {
	BusinessID uint
	WorkerID   uint
	Date       string // YYYY-MM-DD in the business timezone
}

type DaySchedule struct {
	Date         string               `json:"date"`
	Timezone     string               `json:"timezone"`
	Open         bool                 `json:"open"`
	WorkStart    *time.Time           `json:"work_start,omitempty"`
	WorkEnd      *time.Time           `json:"work_end,omitempty"`
	Appointments []models.Appointment `json:"-"`
	Blocks       []models.Block       `json:"blocks"`
}

type GetDaySchedule struct {
	repo   domain.Repository
	policy config.Policy
}

func NewGetDaySchedule(repo domain.Repository, policy config.Policy) *GetDaySchedule {
	return &GetDaySchedule{repo: repo, policy: policy}
}

// Execute lists every appointment (any status) and active block that
// intersects the calendar day. Records that started the day before and
// run past midnight are included.
func (uc *GetDaySchedule) Execute(ctx context.Context, in DayScheduleInput) (*DaySchedule, error) {
	if in.WorkerID == 0 {
		return nil, httperr.ErrValidation(httperr.FieldError{Field: "worker_id", Rule: "required", Message: "worker_id is required"})
	}

	business, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, notFoundAs(err, httperr.CodeNotFound, "business")
	}

	day, err := timezone.ParseDate(business.Timezone, in.Date)
	if err != nil {
		return nil, httperr.ErrValidation(httperr.FieldError{Field: "date", Rule: "date", Message: "date must be YYYY-MM-DD"})
	}

	if err := requireWorker(ctx, uc.repo, in.BusinessID, in.WorkerID); err != nil {
		return nil, err
	}

	bounds := domain.DayBounds(day, day.Location())

	apps, err := uc.repo.ListAppointmentsInRange(ctx, in.BusinessID, in.WorkerID, bounds.Start.UTC(), bounds.End.UTC())
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	blocks, err := uc.repo.ListActiveBlocksInRange(ctx, in.BusinessID, in.WorkerID, bounds.Start.UTC(), bounds.End.UTC())
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}

	out := &DaySchedule{
		Date:         in.Date,
		Timezone:     day.Location().String(),
		Appointments: apps,
		Blocks:       blocks,
	}

	if win, open := domain.WorkWindow(business, bounds.Start, domain.ResolvePolicy(business, uc.policy)); open {
		start, end := win.Start.UTC(), win.End.UTC()
		out.Open = true
		out.WorkStart = &start
		out.WorkEnd = &end
	}

	return out, nil
}

// requireWorker fails with NOT_IN_BUSINESS unless workerID is staff of
// the business.
func requireWorker(ctx context.Context, repo domain.Repository, businessID, workerID uint) error {
	worker, err := repo.GetMember(ctx, businessID, workerID)
	if err != nil {
		return notFoundAs(err, httperr.CodeNotInBusiness, "worker")
	}
	if !worker.IsStaff() {
		return httperr.ErrBusinessf(httperr.CodeNotInBusiness, "worker_id is not a worker")
	}
	return nil
}
