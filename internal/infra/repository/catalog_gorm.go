package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type CatalogGormRepository struct {
	db *gorm.DB
}

func NewCatalogGormRepository(db *gorm.DB) *CatalogGormRepository {
	return &CatalogGormRepository{db: db}
}

// --------------------------------------------------
// Business
// --------------------------------------------------

func (r *CatalogGormRepository) GetBusinessByID(ctx context.Context, id uint) (*models.Business, error) {
	return getBusiness(ctx, r.db, id)
}

func (r *CatalogGormRepository) SaveBusiness(ctx context.Context, b *models.Business) error {
	return mapError(r.db.WithContext(ctx).
		Omit("OpeningHours").
		Save(b).Error)
}

func (r *CatalogGormRepository) ReplaceOpeningHours(
	ctx context.Context,
	businessID uint,
	hours []models.OpeningHours,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Where("business_id = ?", businessID).
			Delete(&models.OpeningHours{}).Error; err != nil {
			return err
		}
		if len(hours) == 0 {
			return nil
		}
		for i := range hours {
			hours[i].ID = 0
			hours[i].BusinessID = businessID
		}
		return mapError(tx.Create(&hours).Error)
	})
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (r *CatalogGormRepository) ListServices(
	ctx context.Context,
	businessID uint,
	onlyActive bool,
) ([]models.Service, error) {

	q := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if onlyActive {
		q = q.Where("active = ?", true)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (r *CatalogGormRepository) GetService(
	ctx context.Context,
	businessID uint,
	serviceID uint,
) (*models.Service, error) {
	return getService(ctx, r.db, businessID, serviceID)
}

func (r *CatalogGormRepository) CreateService(ctx context.Context, s *models.Service) error {
	return mapError(r.db.WithContext(ctx).Create(s).Error)
}

func (r *CatalogGormRepository) SaveService(ctx context.Context, s *models.Service) error {
	return mapError(r.db.WithContext(ctx).Save(s).Error)
}

// --------------------------------------------------
// Staff
// --------------------------------------------------

func (r *CatalogGormRepository) ListStaff(ctx context.Context, businessID uint) ([]models.User, error) {
	var users []models.User
	if err := r.db.WithContext(ctx).
		Where("business_id = ? AND role IN ?", businessID, []string{models.RoleAdmin, models.RoleWorker}).
		Order("name ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

var _ catalog.Repository = (*CatalogGormRepository)(nil)
