package repository

import (
	"gorm.io/gorm"

	"github.com/BruksfildServices01/tenant-scheduler/internal/audit"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/account"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/block"
	"github.com/BruksfildServices01/tenant-scheduler/internal/domain/catalog"
)

// Set bundles one repository per concern for the HTTP layer.
type Set struct {
	Appointments appointment.Repository
	Blocks       block.Repository
	Catalog      catalog.Repository
	Accounts     account.Repository
	Audit        audit.Store
}

func NewGormSet(db *gorm.DB) Set {
	return Set{
		Appointments: NewAppointmentGormRepository(db),
		Blocks:       NewBlockGormRepository(db),
		Catalog:      NewCatalogGormRepository(db),
		Accounts:     NewAccountGormRepository(db),
		Audit:        NewAuditGormRepository(db),
	}
}

func NewMemorySet(s *MemoryStore) Set {
	return Set{
		Appointments: s,
		Blocks:       s,
		Catalog:      s,
		Accounts:     s,
		Audit:        s,
	}
}
