package account

import (
	"context"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type Repository interface {
	// CreateBusinessWithOwner stores the business and its first admin
	// atomically; domain.ErrDuplicate when slug or email is taken.
	CreateBusinessWithOwner(ctx context.Context, b *models.Business, owner *models.User) error

	GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error)
	FindStaffByEmail(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error

	// FindClientByPhone returns the client of the business with that phone,
	// Business populated.
	FindClientByPhone(ctx context.Context, businessID uint, phone string) (*models.User, error)

	// ListNotifiableAdmins returns admins of the business that opted in
	// to notifications.
	ListNotifiableAdmins(ctx context.Context, businessID uint) ([]models.User, error)
}
