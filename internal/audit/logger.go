package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// Store persists audit rows. Implemented by the gorm and memory repositories.
type Store interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
	ListAuditLogs(ctx context.Context, f Filter) ([]models.AuditLog, int64, error)
}

type Filter struct {
	BusinessID uint
	Action     string
	Entity     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

type Logger struct {
	store Store
}

func New(store Store) *Logger {
	return &Logger{store: store}
}

func (l *Logger) Log(ctx context.Context, ev Event) error {
	var metaJSON string
	if ev.Metadata != nil {
		if b, err := json.Marshal(ev.Metadata); err == nil {
			metaJSON = string(b)
		}
	}

	return l.store.CreateAuditLog(ctx, &models.AuditLog{
		BusinessID: ev.BusinessID,
		UserID:     ev.UserID,
		Action:     ev.Action,
		Entity:     ev.Entity,
		EntityID:   ev.EntityID,
		Metadata:   metaJSON,
	})
}

func (l *Logger) List(ctx context.Context, f Filter) ([]models.AuditLog, int64, error) {
	return l.store.ListAuditLogs(ctx, f)
}
