package catalog

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type ListWorkers struct {
	repo domain.Repository
}

func NewListWorkers(repo domain.Repository) *ListWorkers {
	return &ListWorkers{repo: repo}
}

// Execute returns the bookable staff (admins and workers) of the business.
func (uc *ListWorkers) Execute(ctx context.Context, businessID uint) ([]models.User, error) {
	staff, err := uc.repo.ListStaff(ctx, businessID)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return staff, nil
}
