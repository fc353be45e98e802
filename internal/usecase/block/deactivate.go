package block

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	blockdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/block"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// DeactivateBlock is the soft delete. Blocks are never removed; an already
// inactive block is returned as is.
type DeactivateBlock struct {
	repo  blockdomain.Repository
	audit Auditor
}

func NewDeactivateBlock(repo blockdomain.Repository, auditor Auditor) *DeactivateBlock {
	return &DeactivateBlock{repo: repo, audit: auditor}
}

func (uc *DeactivateBlock) Execute(ctx context.Context, businessID, actorID, blockID uint) (*models.Block, error) {
	changed, err := uc.repo.DeactivateBlock(ctx, businessID, blockID)
	if err != nil {
		return nil, fmt.Errorf("deactivate block: %w", err)
	}

	b, err := uc.repo.GetBlock(ctx, businessID, blockID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load block: %w", err)
	}

	if changed {
		uc.audit.Dispatch(audit.Event{
			BusinessID: businessID,
			UserID:     uintPtr(actorID),
			Action:     "block_deactivated",
			Entity:     "block",
			EntityID:   uintPtr(b.ID),
		})
	}

	return b, nil
}
