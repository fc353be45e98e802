package models

import "time"

type Business struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:100;not null" json:"name"`
	Slug     string `gorm:"size:100;uniqueIndex;not null" json:"slug"`
	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	Address  string `gorm:"size:255" json:"address"`
	OwnerID  *uint  `json:"owner_id"`
	Timezone string `gorm:"size:64;default:'UTC'" json:"timezone"`

	// Scheduling policy. Zero means "use the process default".
	SlotGranularityMin    int `json:"slot_granularity_min"`
	LookaheadDays         int `json:"lookahead_days"`
	MaxConfirmedPerClient int `json:"max_confirmed_per_client"`
	CancelCutoffHours     int `json:"cancel_cutoff_hours"`

	OpeningHours []OpeningHours `gorm:"constraint:OnDelete:CASCADE;" json:"opening_hours"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HoursFor returns the opening hours configured for a weekday, if any.
func (b *Business) HoursFor(weekday time.Weekday) (OpeningHours, bool) {
	for _, oh := range b.OpeningHours {
		if oh.Weekday == int(weekday) {
			return oh, true
		}
	}
	return OpeningHours{}, false
}
