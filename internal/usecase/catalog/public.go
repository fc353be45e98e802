package catalog

import (
	"context"
	"fmt"
	"strings"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type slugLookup interface {
	GetBusinessBySlug(ctx context.Context, slug string) (*models.Business, error)
}

type PublicWorker struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// PublicProfile is what an anonymous visitor may see before signing up.
type PublicProfile struct {
	ID           uint                  `json:"id"`
	Name         string                `json:"name"`
	Slug         string                `json:"slug"`
	Phone        string                `json:"phone"`
	Address      string                `json:"address"`
	Timezone     string                `json:"timezone"`
	OpeningHours []models.OpeningHours `json:"opening_hours"`
	Services     []models.Service      `json:"services"`
	Workers      []PublicWorker        `json:"workers"`
}

type GetPublicProfile struct {
	slugs slugLookup
	repo  domain.Repository
}

func NewGetPublicProfile(slugs slugLookup, repo domain.Repository) *GetPublicProfile {
	return &GetPublicProfile{slugs: slugs, repo: repo}
}

func (uc *GetPublicProfile) Execute(ctx context.Context, slug string) (*PublicProfile, error) {
	b, err := uc.slugs.GetBusinessBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, notFound(err, "business")
	}

	// the slug lookup does not load hours
	full, err := uc.repo.GetBusinessByID(ctx, b.ID)
	if err != nil {
		return nil, notFound(err, "business")
	}

	services, err := uc.repo.ListServices(ctx, b.ID, true)
	if err != nil {
		return nil, fmt.Errorf("list services: %w", err)
	}
	staff, err := uc.repo.ListStaff(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}

	workers := make([]PublicWorker, 0, len(staff))
	for _, u := range staff {
		workers = append(workers, PublicWorker{ID: u.ID, Name: u.Name})
	}

	return &PublicProfile{
		ID:           full.ID,
		Name:         full.Name,
		Slug:         full.Slug,
		Phone:        full.Phone,
		Address:      full.Address,
		Timezone:     full.Timezone,
		OpeningHours: full.OpeningHours,
		Services:     services,
		Workers:      workers,
	}, nil
}
