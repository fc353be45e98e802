package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
	"github.com/BruksfildServices01/tenant-scheduler/internal/notify"
)

// Notifier is the fire-and-forget admin notification hook.
type Notifier interface {
	Notify(ctx context.Context, msg notify.Message)
}

// Auditor records an audit trail entry off the request path.
type Auditor interface {
	Dispatch(ev audit.Event)
}

// notFoundAs maps a missing row to a business code and wraps anything
// else as an infrastructure failure.
func notFoundAs(err error, code, what string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(code)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

func uintPtr(v uint) *uint {
	return &v
}
