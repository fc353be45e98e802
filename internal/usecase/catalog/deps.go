package catalog

import (
	"errors"
	"fmt"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain"
	"github.com/BruksfildServices01/tenant-scheduler/internal/httperr"
)

type Auditor interface {
	Dispatch(ev audit.Event)
}

func notFound(err error, what string) error {
	if errors.Is(err, domain.ErrNotFound) {
		return httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return fmt.Errorf("load %s: %w", what, err)
}

func uintPtr(v uint) *uint {
	return &v
}
