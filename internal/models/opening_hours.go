package models

import "time"

// OpeningHours is one weekday of a business schedule. Empty Open/Close
// means the business is closed that day.
type OpeningHours struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	BusinessID uint `gorm:"uniqueIndex:idx_opening_hours_business_weekday" json:"business_id"`

	Weekday int `gorm:"uniqueIndex:idx_opening_hours_business_weekday" json:"weekday"`

	Open  string `gorm:"size:5" json:"open"`
	Close string `gorm:"size:5" json:"close"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (oh OpeningHours) Closed() bool {
	return oh.Open == "" || oh.Close == ""
}
