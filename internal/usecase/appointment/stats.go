package appointment

import (
	"context"
	"fmt"
	"time"

	domain "github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
)

type StatsInput struct {
	BusinessID uint
	From       *time.Time
	To         *time.Time
}

type Stats struct {
	ByStatus map[string]int64 `json:"by_status"`
	Total    int64            `json:"total"`

	UpcomingConfirmed int64 `json:"upcoming_confirmed"`
	UpcomingClients   int   `json:"upcoming_clients"`
}

type GetStats struct {
	repo domain.Repository
	now  func() time.Time
}

func NewGetStats(repo domain.Repository) *GetStats {
	return &GetStats{repo: repo, now: time.Now}
}

func (uc *GetStats) Execute(ctx context.Context, in StatsInput) (*Stats, error) {
	if in.From != nil && in.To != nil && !in.To.After(*in.From) {
		return nil, httperr.ErrValidation(httperr.FieldError{Field: "to", Rule: "gtfield", Message: "to must be after from"})
	}

	counts, err := uc.repo.CountByStatus(ctx, in.BusinessID, in.From, in.To)
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}

	out := &Stats{ByStatus: map[string]int64{}}
	for _, s := range []domain.Status{domain.StatusConfirmed, domain.StatusCanceled, domain.StatusCompleted, domain.StatusNoShow} {
		out.ByStatus[string(s)] = counts[string(s)]
		out.Total += counts[string(s)]
	}

	now := uc.now().UTC()

	// not yet started
	out.UpcomingConfirmed, err = uc.repo.CountConfirmedSince(ctx, in.BusinessID, now)
	if err != nil {
		return nil, fmt.Errorf("count upcoming: %w", err)
	}

	clients, err := uc.repo.DistinctClientsWithConfirmedSince(ctx, in.BusinessID, now)
	if err != nil {
		return nil, fmt.Errorf("distinct clients: %w", err)
	}
	out.UpcomingClients = len(clients)

	return out, nil
}
