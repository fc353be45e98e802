package models

import "time"

const (
	RoleAdmin  = "admin"
	RoleWorker = "worker"
	RoleUser   = "user"
)

// User covers staff (admin/worker) and clients (role user). Every user
// belongs to exactly one business.
type User struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	BusinessID uint     `gorm:"index;uniqueIndex:idx_users_business_phone,where:role = 'user'" json:"business_id"`
	Business   Business `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"-"`

	Name         string  `gorm:"size:100;not null" json:"name"`
	Email        *string `gorm:"size:100;uniqueIndex" json:"email,omitempty"`
	PasswordHash string  `gorm:"size:255" json:"-"`
	Phone        string  `gorm:"size:20;uniqueIndex:idx_users_business_phone,where:role = 'user'" json:"phone"`
	Role         string  `gorm:"size:20;default:'user'" json:"role"`

	NotifyEnabled bool `gorm:"default:false" json:"notify_enabled"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsStaff() bool {
	return u.Role == RoleAdmin || u.Role == RoleWorker
}

func (u *User) IsClient() bool {
	return u.Role == RoleUser
}
