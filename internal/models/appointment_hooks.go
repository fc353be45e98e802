package models

import "gorm.io/gorm"

// BeforeSave keeps EndAt derived from the service snapshot.
func (a *Appointment) BeforeSave(tx *gorm.DB) error {
	a.SyncEnd()
	return nil
}

func (a *Appointment) SyncEnd() {
	a.StartAt = a.StartAt.UTC()
	a.EndAt = a.StartAt.Add(a.Service.Duration())
}
