package domain

import "time"

// RefreshToken is persisted schema only; no rotation logic consumes it yet.
type RefreshToken struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"user_id"`
	Token      string    `gorm:"uniqueIndex;size:255;not null" json:"-"`
	ExpiresAt  time.Time `gorm:"not null" json:"expires_at"`
	IsRevoked  bool      `gorm:"not null;default:false" json:"is_revoked"`
	DeviceInfo *string   `gorm:"size:255" json:"device_info,omitempty"`
	IPAddress  *string   `gorm:"size:45" json:"ip_address,omitempty"`
	UserAgent  *string   `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
