package appointment

import (
	"time"

	"github.com/BruksfildServices01/tenant-scheduler/internal/config"
	"github.com/BruksfildServices01/tenant-scheduler/internal/models"
)

// ResolvePolicy overlays the business policy columns on the defaults.
func ResolvePolicy(b *models.Business, def config.Policy) config.Policy {
	p := def
	if b == nil {
		return p
	}
	if b.SlotGranularityMin > 0 {
		p.SlotGranularityMin = b.SlotGranularityMin
	}
	if b.LookaheadDays > 0 {
		p.LookaheadDays = b.LookaheadDays
	}
	if b.MaxConfirmedPerClient > 0 {
		p.MaxConfirmedPerClient = b.MaxConfirmedPerClient
	}
	if b.CancelCutoffHours > 0 {
		p.CancelCutoff = time.Duration(b.CancelCutoffHours) * time.Hour
	}
	return p
}
