package models

import "time"

// Block marks time as unavailable. WorkerID nil blocks the whole business.
type Block struct {
	ID         uint  `gorm:"primaryKey" json:"id"`
	BusinessID uint  `gorm:"index:idx_blocks_business_range,priority:1" json:"business_id"`
	WorkerID   *uint `gorm:"index" json:"worker_id"`

	StartAt time.Time `gorm:"not null;index:idx_blocks_business_range,priority:2" json:"start_at"`
	EndAt   time.Time `gorm:"not null" json:"end_at"`

	Reason string `gorm:"size:20;not null" json:"reason"`
	Active bool   `gorm:"default:true;index" json:"active"`
	Notes  string `gorm:"size:1000" json:"notes"`

	CreatedBy uint `json:"created_by"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
