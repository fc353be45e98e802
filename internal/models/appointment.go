package models

import "time"

// ServiceSnapshot is copied by value at booking time so later catalog
// edits never rewrite history.
type ServiceSnapshot struct {
	ServiceID   *uint   `json:"service_id,omitempty"`
	Name        string  `gorm:"size:100;not null" json:"name"`
	DurationMin int     `gorm:"not null" json:"duration_min"`
	Price       float64 `gorm:"not null" json:"price"`
}

func (s ServiceSnapshot) Duration() time.Duration {
	return time.Duration(s.DurationMin) * time.Minute
}

type Appointment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	BusinessID uint `gorm:"index:idx_appointments_worker_range,priority:1;uniqueIndex:idx_appointments_confirmed_slot,where:status = 'confirmed'" json:"business_id"`
	ClientID   uint `gorm:"index" json:"client_id"`
	Client     User `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`
	WorkerID   uint `gorm:"index:idx_appointments_worker_range,priority:2;uniqueIndex:idx_appointments_confirmed_slot,where:status = 'confirmed'" json:"worker_id"`
	Worker     User `gorm:"foreignKey:WorkerID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Service ServiceSnapshot `gorm:"embedded;embeddedPrefix:service_" json:"service"`

	StartAt time.Time `gorm:"not null;index:idx_appointments_worker_range,priority:3;uniqueIndex:idx_appointments_confirmed_slot,where:status = 'confirmed'" json:"start_at"`
	// EndAt is StartAt + Service.DurationMin, persisted for range queries.
	EndAt time.Time `gorm:"not null" json:"end_at"`

	Status string `gorm:"size:20;default:'confirmed';index" json:"status"`

	Notes       string     `gorm:"size:1000" json:"notes"`
	CanceledAt  *time.Time `json:"canceled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
