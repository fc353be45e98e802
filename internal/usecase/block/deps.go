package block

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

// memberCheck is the slice of the repository needed to validate workers.
type memberCheck interface {
	GetMember(ctx context.Context, businessID, userID uint) (*models.User, error)
}

// requireStaff fails with NOT_IN_BUSINESS unless workerID is staff of the
// business. A nil worker means a business-wide block.
func requireStaff(ctx context.Context, repo memberCheck, businessID uint, workerID *uint) error {
	if workerID == nil {
		return nil
	}
	u, err := repo.GetMember(ctx, businessID, *workerID)
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusinessf(httperr.CodeNotInBusiness, "worker_id is not a member")
	}
	if err != nil {
		return fmt.Errorf("load worker: %w", err)
	}
	if !u.IsStaff() {
		return httperr.ErrBusinessf(httperr.CodeNotInBusiness, "worker_id is not a worker")
	}
	return nil
}

func uintPtr(v uint) *uint {
	return &v
}
