package domain

import "time"

// LoginAttempt is an audit row recorded on every authenticate call.
type LoginAttempt struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Email         string    `gorm:"size:255;not null;index" json:"email"`
	IPAddress     string    `gorm:"size:45;not null" json:"ip_address"`
	UserAgent     *string   `gorm:"type:text" json:"user_agent,omitempty"`
	Success       bool      `gorm:"not null;default:false" json:"success"`
	FailureReason *string   `gorm:"size:100" json:"failure_reason,omitempty"`
	AttemptedAt   time.Time `gorm:"not null;autoCreateTime" json:"attempted_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
