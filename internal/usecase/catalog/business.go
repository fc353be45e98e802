package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	scheduling "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	catalogdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
	"github.com/BruksfildServices01/tenant-scheduler/internal/timezone"
)

// ======================================================
// GET
// ======================================================

type GetBusiness struct {
	repo catalogdomain.Repository
}

func NewGetBusiness(repo catalogdomain.Repository) *GetBusiness {
	return &GetBusiness{repo: repo}
}

func (uc *GetBusiness) Execute(ctx context.Context, businessID uint) (*models.Business, error) {
	b, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, notFound(err, "business")
	}
	return b, nil
}

// ======================================================
// UPDATE PROFILE + POLICY
// ======================================================

// UpdateBusinessInput is a partial update. Policy fields set to zero fall
// back to the process defaults.
type UpdateBusinessInput struct {
	BusinessID uint
	ActorID    uint

	Name     *string
	Phone    *string
	Email    *string
	Address  *string
	Timezone *string

	SlotGranularityMin    *int
	LookaheadDays         *int
	MaxConfirmedPerClient *int
	CancelCutoffHours     *int
}

type UpdateBusiness struct {
	repo  catalogdomain.Repository
	audit Auditor
}

func NewUpdateBusiness(repo catalogdomain.Repository, auditor Auditor) *UpdateBusiness {
	return &UpdateBusiness{repo: repo, audit: auditor}
}

func (uc *UpdateBusiness) Execute(ctx context.Context, in UpdateBusinessInput) (*models.Business, error) {
	if err := validateBusinessPatch(in); err != nil {
		return nil, err
	}

	b, err := uc.repo.GetBusinessByID(ctx, in.BusinessID)
	if err != nil {
		return nil, notFound(err, "business")
	}

	setString(&b.Name, in.Name)
	setString(&b.Phone, in.Phone)
	setString(&b.Email, in.Email)
	setString(&b.Address, in.Address)
	setString(&b.Timezone, in.Timezone)
	setInt(&b.SlotGranularityMin, in.SlotGranularityMin)
	setInt(&b.LookaheadDays, in.LookaheadDays)
	setInt(&b.MaxConfirmedPerClient, in.MaxConfirmedPerClient)
	setInt(&b.CancelCutoffHours, in.CancelCutoffHours)

	if err := uc.repo.SaveBusiness(ctx, b); err != nil {
		return nil, fmt.Errorf("save business: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: b.ID,
		UserID:     uintPtr(in.ActorID),
		Action:     "business_updated",
		Entity:     "business",
		EntityID:   uintPtr(b.ID),
	})
	return b, nil
}

func validateBusinessPatch(in UpdateBusinessInput) error {
	var fields []httperr.FieldError

	if in.Name != nil && (*in.Name == "" || len(*in.Name) > 100) {
		fields = append(fields, httperr.FieldError{Field: "name", Rule: "required", Message: "name is required (max 100)"})
	}
	if in.Timezone != nil && !timezone.IsValid(*in.Timezone) {
		fields = append(fields, httperr.FieldError{Field: "timezone", Rule: "timezone", Message: "timezone must be an IANA name"})
	}

	bounds := []struct {
		field string
		v     *int
		max   int
	}{
		{"slot_granularity_min", in.SlotGranularityMin, 240},
		{"lookahead_days", in.LookaheadDays, 365},
		{"max_confirmed_per_client", in.MaxConfirmedPerClient, 100},
		{"cancel_cutoff_hours", in.CancelCutoffHours, 24 * 30},
	}
	for _, b := range bounds {
		if b.v != nil && (*b.v < 0 || *b.v > b.max) {
			fields = append(fields, httperr.FieldError{
				Field:   b.field,
				Rule:    "range",
				Message: fmt.Sprintf("%s must be between 0 and %d", b.field, b.max),
			})
		}
	}

	if len(fields) > 0 {
		return httperr.ErrValidation(fields...)
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// ======================================================
// OPENING HOURS
// ======================================================

// DayHours is one weekday entry. Empty Open and Close mark the day closed.
type DayHours struct {
	Weekday int
	Open    string
	Close   string
}

type ReplaceOpeningHours struct {
	repo  catalogdomain.Repository
	audit Auditor
}

func NewReplaceOpeningHours(repo catalogdomain.Repository, auditor Auditor) *ReplaceOpeningHours {
	return &ReplaceOpeningHours{repo: repo, audit: auditor}
}

// Execute replaces the whole weekly schedule. Weekdays left out are
// closed; an empty list reverts to the default workday on every day.
func (uc *ReplaceOpeningHours) Execute(
	ctx context.Context,
	businessID uint,
	actorID uint,
	days []DayHours,
) (*models.Business, error) {

	hours, err := validateHours(days)
	if err != nil {
		return nil, err
	}

	if err := uc.repo.ReplaceOpeningHours(ctx, businessID, hours); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, httperr.ErrValidation(httperr.FieldError{Field: "days", Rule: "unique", Message: "each weekday may appear once"})
		}
		return nil, fmt.Errorf("replace opening hours: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: businessID,
		UserID:     uintPtr(actorID),
		Action:     "opening_hours_updated",
		Entity:     "business",
		EntityID:   uintPtr(businessID),
		Metadata:   map[string]any{"days": len(hours)},
	})

	b, err := uc.repo.GetBusinessByID(ctx, businessID)
	if err != nil {
		return nil, notFound(err, "business")
	}
	return b, nil
}

func validateHours(days []DayHours) ([]models.OpeningHours, error) {
	var fields []httperr.FieldError
	seen := map[int]bool{}
	out := make([]models.OpeningHours, 0, len(days))

	for i, d := range days {
		prefix := fmt.Sprintf("days[%d]", i)

		if d.Weekday < int(time.Sunday) || d.Weekday > int(time.Saturday) {
			fields = append(fields, httperr.FieldError{Field: prefix + ".weekday", Rule: "range", Message: "weekday must be between 0 (Sunday) and 6"})
			continue
		}
		if seen[d.Weekday] {
			fields = append(fields, httperr.FieldError{Field: prefix + ".weekday", Rule: "unique", Message: "each weekday may appear once"})
			continue
		}
		seen[d.Weekday] = true

		oh := models.OpeningHours{Weekday: d.Weekday, Open: d.Open, Close: d.Close}
		if !oh.Closed() {
			if !scheduling.ValidHourMinute(d.Open) || !scheduling.ValidHourMinute(d.Close) {
				fields = append(fields, httperr.FieldError{Field: prefix, Rule: "hh:mm", Message: "open and close must be HH:MM"})
				continue
			}
			open, _ := time.Parse("15:04", d.Open)
			closing, _ := time.Parse("15:04", d.Close)
			if !closing.After(open) {
				fields = append(fields, httperr.FieldError{Field: prefix + ".close", Rule: "gtfield", Message: "close must be after open"})
				continue
			}
		}
		out = append(out, oh)
	}

	if len(fields) > 0 {
		return nil, httperr.ErrValidation(fields...)
	}
	return out, nil
}
