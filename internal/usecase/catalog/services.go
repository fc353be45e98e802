package catalog

import (
	"context"
	"fmt"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// ======================================================
// LIST
// ======================================================

type ListServices struct {
	repo domain.Repository
}

func NewListServices(repo domain.Repository) *ListServices {
	return &ListServices{repo: repo}
}

func (uc *ListServices) Execute(ctx context.Context, businessID uint, onlyActive bool) ([]models.Service, error) {
	services, err := uc.repo.ListServices(ctx, businessID, onlyActive)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	return services, nil
}

// ======================================================
// CREATE
// ======================================================

type CreateServiceInput struct {
	BusinessID  uint
	ActorID     uint
	Name        string
	Description string
	DurationMin int
	Price       float64
}

type CreateService struct {
	repo  domain.Repository
	audit Auditor
}

func NewCreateService(repo domain.Repository, auditor Auditor) *CreateService {
	return &CreateService{repo: repo, audit: auditor}
}

func (uc *CreateService) Execute(ctx context.Context, in CreateServiceInput) (*models.Service, error) {
	svc := &models.Service{
		BusinessID:  in.BusinessID,
		Name:        in.Name,
		Description: in.Description,
		DurationMin: in.DurationMin,
		Price:       in.Price,
		Active:      true,
	}
	if err := validateService(svc); err != nil {
		return nil, err
	}

	if err := uc.repo.CreateService(ctx, svc); err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     uintPtr(in.ActorID),
		Action:     "service_created",
		Entity:     "service",
		EntityID:   uintPtr(svc.ID),
	})
	return svc, nil
}

// ======================================================
// UPDATE
// ======================================================

// UpdateServiceInput is a partial update; nil fields are unchanged.
// Booked appointments keep their snapshot whatever changes here.
type UpdateServiceInput struct {
	BusinessID  uint
	ActorID     uint
	ServiceID   uint
	Name        *string
	Description *string
	DurationMin *int
	Price       *float64
	Active      *bool
}

type UpdateService struct {
	repo  domain.Repository
	audit Auditor
}

func NewUpdateService(repo domain.Repository, auditor Auditor) *UpdateService {
	return &UpdateService{repo: repo, audit: auditor}
}

func (uc *UpdateService) Execute(ctx context.Context, in UpdateServiceInput) (*models.Service, error) {
	svc, err := uc.repo.GetService(ctx, in.BusinessID, in.ServiceID)
	if err != nil {
		return nil, notFound(err, "service")
	}

	if in.Name != nil {
		svc.Name = *in.Name
	}
	if in.Description != nil {
		svc.Description = *in.Description
	}
	if in.DurationMin != nil {
		svc.DurationMin = *in.DurationMin
	}
	if in.Price != nil {
		svc.Price = *in.Price
	}
	if in.Active != nil {
		svc.Active = *in.Active
	}

	if err := validateService(svc); err != nil {
		return nil, err
	}

	if err := uc.repo.SaveService(ctx, svc); err != nil {
		return nil, fmt.Errorf("save service: %w", err)
	}

	uc.audit.Dispatch(audit.Event{
		BusinessID: in.BusinessID,
		UserID:     uintPtr(in.ActorID),
		Action:     "service_updated",
		Entity:     "service",
		EntityID:   uintPtr(svc.ID),
	})
	return svc, nil
}

func validateService(svc *models.Service) error {
	var fields []httperr.FieldError
	if svc.Name == "" || len(svc.Name) > 100 {
		fields = append(fields, httperr.FieldError{Field: "name", Rule: "required", Message: "name is required (max 100)"})
	}
	if len(svc.Description) > 255 {
		fields = append(fields, httperr.FieldError{Field: "description", Rule: "max", Message: "description must be at most 255 characters"})
	}
	if svc.DurationMin < 1 || svc.DurationMin > models.MaxServiceDurationMin {
		fields = append(fields, httperr.FieldError{Field: "duration_min", Rule: "range", Message: "duration_min must be between 1 and 480"})
	}
	if svc.Price < 0 {
		fields = append(fields, httperr.FieldError{Field: "price", Rule: "gte", Message: "price must not be negative"})
	}
	if len(fields) > 0 {
		return httperr.ErrValidation(fields...)
	}
	return nil
}
