package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type AccountGormRepository struct {
	db *gorm.DB
}

func NewAccountGormRepository(db *gorm.DB) *AccountGormRepository {
	return &AccountGormRepository{db: db}
}

func (r *AccountGormRepository) CreateBusinessWithOwner(
	ctx context.Context,
	b *models.Business,
	owner *models.User,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(b).Error; err != nil {
			return mapError(err)
		}

		owner.BusinessID = b.ID
		if err := tx.Create(owner).Error; err != nil {
			return mapError(err)
		}

		b.OwnerID = &owner.ID
		return tx.Model(b).Update("owner_id", owner.ID).Error
	})
}

func (r *AccountGormRepository) GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error) {
	var b models.Business
	if err := r.db.WithContext(ctx).
		Where("slug = ?", slug).
		First(&b).Error; err != nil {
		return nil, mapError(err)
	}
	return &b, nil
}

func (r *AccountGormRepository) FindStaffByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Preload("Business").
		Where("email = ? AND role IN ?", email, []string{models.RoleAdmin, models.RoleWorker}).
		First(&u).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *AccountGormRepository) CreateUser(ctx context.Context, u *models.User) error {
	return mapError(r.db.WithContext(ctx).Create(u).Error)
}

func (r *AccountGormRepository) FindClientByPhone(ctx context.Context, businessID uint, phone string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).
		Preload("Business").
		Where("business_id = ? AND phone = ? AND role = ?", businessID, phone, models.RoleUser).
		First(&u).Error; err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (r *AccountGormRepository) ListNotifiableAdmins(ctx context.Context, businessID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND role = ? AND notify_enabled = ?", businessID, models.RoleAdmin, true).
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

var _ account.Repository = (*AccountGormRepository)(nil)
