package appointment

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/metrics"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/telemetry"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
)

const maxSlotLimit = 50

type FindSlotsInput struct {
	BusinessID uint
	WorkerID   uint

	// DurationMin, or the duration of the catalog ServiceID when zero.
	DurationMin int
	ServiceID   *uint

	// Limit defaults to the business policy result count.
	Limit int
}

type FindSlotsOutput struct {
	WorkerID    uint        `json:"worker_id"`
	DurationMin int         `json:"duration_min"`
	Slots       []time.Time `json:"slots"`
}

type FindSlots struct {
	repo   domain.Repository
	policy config.Policy
	now    func() time.Time
}

func NewFindSlots(repo domain.Repository, policy config.Policy) *FindSlots {
	return &FindSlots{repo: repo, policy: policy, now: time.Now}
}

// Execute returns the next free start instants for the worker, searching
// forward from now within the business lookahead window.
func (uc *FindSlots) Execute(ctx context.Context, in FindSlotsInput) (*FindSlotsOutput, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "appointment.find_slots")
	defer span.End()

	started := time.Now()
	defer func() { metrics.SlotSearchDuration.Observe(time.Since(started).Seconds()) }()

	if in.WorkerID == 0 {
		return nil, httperr.ErrValidation(httperr.FieldError{Field: "worker_id", Rule: "required", Message: "worker_id is required"})
	}
	if in.Limit < 0 || in.Limit > maxSlotLimit {
		return nil, httperr.ErrValidation(httperr.FieldError{Field: "limit", Rule: "range", Message: fmt.Sprintf("limit must be between 1 and %d", maxSlotLimit)})
	}

	business, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, notFoundAs(err, httperr.CodeNotFound, "business")
	}
	if err := requireWorker(ctx, uc.repo, business.ID, in.WorkerID); err != nil {
		return nil, err
	}

	duration, err := uc.duration(ctx, business.ID, in)
	if err != nil {
		return nil, err
	}

	policy := domain.ResolvePolicy(business, uc.policy)
	limit := in.Limit
	if limit == 0 {
		limit = policy.SlotResultCount
	}

	q := domain.SlotQuery{
		Now:           uc.now(),
		Location:      timezone.Location(business.Timezone),
		Duration:      time.Duration(duration) * time.Minute,
		Granularity:   time.Duration(policy.SlotGranularityMin) * time.Minute,
		LookaheadDays: policy.LookaheadDays,
		Limit:         limit,
		Window: func(dayStart time.Time) (domain.Interval, bool) {
			return domain.WorkWindow(business, dayStart, policy)
		},
	}

	fetch := func(ctx context.Context, window domain.Interval) ([]domain.Interval, error) {
		apps, err := uc.repo.ListConfirmedInRange(ctx, business.ID, in.WorkerID, window.Start.UTC(), window.End.UTC())
		if err != nil {
			return nil, fmt.Errorf("list appointments: %w", err)
		}
		blocks, err := uc.repo.ListActiveBlocksInRange(ctx, business.ID, in.WorkerID, window.Start.UTC(), window.End.UTC())
		if err != nil {
			return nil, fmt.Errorf("list blocks: %w", err)
		}
		return domain.BusyIntervals(in.WorkerID, apps, blocks), nil
	}

	slots, err := domain.FindSlots(ctx, q, fetch)
	if err != nil {
		return nil, err
	}

	metrics.SlotsReturned.Observe(float64(len(slots)))
	span.SetAttributes(attribute.Int("slots.found", len(slots)))

	return &FindSlotsOutput{
		WorkerID:    in.WorkerID,
		DurationMin: duration,
		Slots:       slots,
	}, nil
}

func (uc *FindSlots) duration(ctx context.Context, businessID uint, in FindSlotsInput) (int, error) {
	if in.DurationMin != 0 {
		if in.DurationMin < 1 || in.DurationMin > models.MaxServiceDurationMin {
			return 0, httperr.ErrValidation(httperr.FieldError{Field: "duration", Rule: "range", Message: "duration must be between 1 and 480"})
		}
		return in.DurationMin, nil
	}
	if in.ServiceID == nil {
		return 0, httperr.ErrValidation(httperr.FieldError{Field: "duration", Rule: "required", Message: "duration or service_id is required"})
	}

	svc, err := uc.repo.GetService(ctx, businessID, *in.ServiceID)
	if err != nil {
		return 0, notFoundAs(err, httperr.CodeNotInBusiness, "service")
	}
	return svc.DurationMin, nil
}
