package block

import (
	"context"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type Repository interface {
	GetMember(ctx context.Context, businessID, userID uint) (*models.User, error)

	CreateBlock(ctx context.Context, b *models.Block) error
	GetBlock(ctx context.Context, businessID, blockID uint) (*models.Block, error)
	ListBlocks(ctx context.Context, f Filter) ([]models.Block, error)
	SaveBlock(ctx context.Context, b *models.Block) error

	// DeactivateBlock flips active to false when it is still true and
	// reports whether it did.
	DeactivateBlock(ctx context.Context, businessID, blockID uint) (bool, error)
}
