package domain

import "time"

// UserRole is written in the same transaction that inserts the user row;
// registration never leaves a user without its default role.
type UserRole struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	RoleID     uint      `gorm:"not null;index" json:"role_id"`
	AssignedAt time.Time `gorm:"not null;autoCreateTime" json:"assigned_at"`
	AssignedBy *uint     `json:"assigned_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
