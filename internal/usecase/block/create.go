package block

import (
	"context"
	"fmt"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	blockdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/block"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type CreateBlockInput struct {
	BusinessID uint
	ActorID    uint
	WorkerID   *uint
	StartAt    time.Time
	EndAt      time.Time
	Reason     string
	Notes      string
}

type CreateBlock struct {
	repo  blockdomain.Repository
	audit Auditor
}

func NewCreateBlock(repo blockdomain.Repository, auditor Auditor) *CreateBlock {
	return &CreateBlock{repo: repo, audit: auditor}
}

// Execute stores an active block. Existing appointments inside the range
// are left untouched; only future bookings are refused.
func (uc *CreateBlock) Execute(ctx context.Context, in CreateBlockInput) (*models.Block, error) {
	b := &models.Block{
		BusinessID: in.BusinessID,
		WorkerID:   in.WorkerID,
		StartAt:    in.StartAt,
		EndAt:      in.EndAt,
		Reason:     in.Reason,
		Notes:      in.Notes,
		Active:     true,
		CreatedBy:  in.ActorID,
	}

	if err := blockdomain.Validate(b); err != nil {
		return nil, err
	}
	if err := requireStaff(ctx, uc.repo, in.BusinessID, in.WorkerID); err != nil {
		return nil, err
	}

	blockdomain.Normalize(b)

	if err := uc.repo.CreateBlock(ctx, b); err != nil {
		return nil, fmt.Errorf("create block: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     uintPtr(in.ActorID),
		Action:     "block_created",
		Entity:     "block",
		EntityID:   uintPtr(b.ID),
		Metadata:   map[string]any{"reason": b.Reason, "worker_id": b.WorkerID},
	})

	return b, nil
}
