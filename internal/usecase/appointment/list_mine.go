package appointment

import (
	"context"
	"fmt"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type ListMyAppointments struct {
	repo domain.Repository
}

func NewListMyAppointments(repo domain.Repository) *ListMyAppointments {
	return &ListMyAppointments{repo: repo}
}

// Execute lists the client's appointments ordered by start. An empty
// status means every status.
func (uc *ListMyAppointments) Execute(
	ctx context.Context,
	businessID uint,
	clientID uint,
	status string,
) ([]models.Appointment, error) {

	if status != "" {
		if _, ok := domain.ParseStatus(status); !ok {
			return nil, httperr.ErrValidation(httperr.FieldError{
				Field:   "status",
				Rule:    "oneof",
				Message: "status must be one of confirmed, canceled, completed, no_show",
			})
		}
	}

	apps, err := uc.repo.ListClientAppointments(ctx, businessID, clientID, status)
	if err != nil {
		return nil, fmt.Errorf("list client appointments: %w", err)
	}
	return apps, nil
}
