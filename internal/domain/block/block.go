package block

import (
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type Reason string

const (
	ReasonVacation    Reason = "vacation"
	ReasonMaintenance Reason = "maintenance"
	ReasonTraining    Reason = "training"
	ReasonOther       Reason = "other"
)

func ParseReason(s string) (Reason, bool) {
	switch Reason(s) {
	case ReasonVacation, ReasonMaintenance, ReasonTraining, ReasonOther:
		return Reason(s), true
	}
	return "", false
}

// Validate checks the invariants every persisted block must hold.
func Validate(b *models.Block) error {
	var fields []httperr.FieldError

	if !b.EndAt.After(b.StartAt) {
		fields = append(fields, httperr.FieldError{Field: "end_at", Rule: "gtfield", Message: "end_at must be after start_at"})
	}
	if _, ok := ParseReason(b.Reason); !ok {
		fields = append(fields, httperr.FieldError{Field: "reason", Rule: "oneof", Message: "reason must be vacation, maintenance, training or other"})
	}
	if len(b.Notes) > 1000 {
		fields = append(fields, httperr.FieldError{Field: "notes", Rule: "max", Message: "notes must be at most 1000 characters"})
	}

	if len(fields) > 0 {
		return httperr.ErrValidation(fields...)
	}
	return nil
}

// Normalize stores instants in UTC.
func Normalize(b *models.Block) {
	b.StartAt = b.StartAt.UTC()
	b.EndAt = b.EndAt.UTC()
}

// Filter narrows ListBlocks. Zero values mean "no constraint".
type Filter struct {
	BusinessID      uint
	WorkerID        *uint
	From            *time.Time
	To              *time.Time
	IncludeInactive bool
}
