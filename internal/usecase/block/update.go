package block

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	blockdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/block"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// UpdateBlockInput carries a partial update; nil fields are unchanged.
type UpdateBlockInput struct {
	BusinessID uint
	ActorID    uint
	BlockID    uint

	StartAt *time.Time
	EndAt   *time.Time
	Reason  *string
	Notes   *string
}

type UpdateBlock struct {
	repo  blockdomain.Repository
	audit Auditor
}

func NewUpdateBlock(repo blockdomain.Repository, auditor Auditor) *UpdateBlock {
	return &UpdateBlock{repo: repo, audit: auditor}
}

func (uc *UpdateBlock) Execute(ctx context.Context, in UpdateBlockInput) (*models.Block, error) {
	b, err := uc.repo.GetBlock(ctx, in.BusinessID, in.BlockID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load block: %w", err)
	}

	if in.StartAt != nil {
		b.StartAt = *in.StartAt
	}
	if in.EndAt != nil {
		b.EndAt = *in.EndAt
	}
	if in.Reason != nil {
		b.Reason = *in.Reason
	}
	if in.Notes != nil {
		b.Notes = *in.Notes
	}

	// the merged record must still be valid
	if err := blockdomain.Validate(b); err != nil {
		return nil, err
	}
	blockdomain.Normalize(b)

	if err := uc.repo.SaveBlock(ctx, b); err != nil {
		return nil, fmt.Errorf("save block: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     uintPtr(in.ActorID),
		Action:     "block_updated",
		Entity:     "block",
		EntityID:   uintPtr(b.ID),
	})

	return b, nil
}
