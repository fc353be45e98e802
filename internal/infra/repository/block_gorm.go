package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/block"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type BlockGormRepository struct {
	db *gorm.DB
}

func NewBlockGormRepository(db *gorm.DB) *BlockGormRepository {
	return &BlockGormRepository{db: db}
}

func (r *BlockGormRepository) GetMember(
	ctx context.Context,
	businessID uint,
	userID uint,
) (*models.User, error) {
	return getMember(ctx, r.db, businessID, userID)
}

func (r *BlockGormRepository) CreateBlock(ctx context.Context, b *models.Block) error {
	return mapError(r.db.WithContext(ctx).Create(b).Error)
}

func (r *BlockGormRepository) GetBlock(
	ctx context.Context,
	businessID uint,
	blockID uint,
) (*models.Block, error) {

	var b models.Block
	if err := r.db.WithContext(ctx).
		Where("id = ? AND business_id = ?", blockID, businessID).
		First(&b).Error; err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *BlockGormRepository) ListBlocks(ctx context.Context, f block.Filter) ([]models.Block, error) {
	q := r.db.WithContext(ctx).
		Where("business_id = ?", f.BusinessID)

	if !f.IncludeInactive {
		q = q.Where("active = ?", true)
	}
	if f.WorkerID != nil {
		q = q.Where("(worker_id IS NULL OR worker_id = ?)", *f.WorkerID)
	}
	if f.From != nil {
		q = q.Where("end_at > ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_at < ?", *f.To)
	}

	var blocks []models.Block
	if err := q.Order("start_at ASC").Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

func (r *BlockGormRepository) SaveBlock(ctx context.Context, b *models.Block) error {
	return mapError(r.db.WithContext(ctx).Save(b).Error)
}

func (r *BlockGormRepository) DeactivateBlock(
	ctx context.Context,
	businessID uint,
	blockID uint,
) (bool, error) {

	res := r.db.WithContext(ctx).
		Model(&models.Block{}).
		Where("id = ? AND business_id = ? AND active = ?", blockID, businessID, true).
		Update("active", false)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

var _ block.Repository = (*BlockGormRepository)(nil)
