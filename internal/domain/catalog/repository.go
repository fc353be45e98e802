package catalog

import (
	"context"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// Repository covers the business profile, its service catalog and staff.
type Repository interface {
	GetBusinessByID(ctx context.Context, id uint) (*models.Business, error)
	SaveBusiness(ctx context.Context, b *models.Business) error
	ReplaceOpeningHours(ctx context.Context, businessID uint, hours []models.OpeningHours) error

	ListServices(ctx context.Context, businessID uint, onlyActive bool) ([]models.Service, error)
	GetService(ctx context.Context, businessID, serviceID uint) (*models.Service, error)
	CreateService(ctx context.Context, s *models.Service) error
	SaveService(ctx context.Context, s *models.Service) error

	ListStaff(ctx context.Context, businessID uint) ([]models.User, error)
}
