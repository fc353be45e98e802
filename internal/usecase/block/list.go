package block

import (
	"context"
	"fmt"

	blockdomain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/block"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type ListBlocks struct {
	repo blockdomain.Repository
}

func NewListBlocks(repo blockdomain.Repository) *ListBlocks {
	return &ListBlocks{repo: repo}
}

// Execute lists blocks intersecting [From, To). A worker filter keeps
// business-wide blocks since they apply to that worker too.
func (uc *ListBlocks) Execute(ctx context.Context, f blockdomain.Filter) ([]models.Block, error) {
	if f.From != nil && f.To != nil && !f.To.After(*f.From) {
		return nil, httperr.ErrValidation(httperr.FieldError{Field: "to", Rule: "gtfield", Message: "to must be after from"})
	}

	blocks, err := uc.repo.ListBlocks(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list blocks: %w", err)
	}
	return blocks, nil
}
